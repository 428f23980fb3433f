package harness

import (
	"github.com/roach88/entrada/internal/ir"
	"github.com/roach88/entrada/internal/projection"
)

// Notification is one call seen by the harness's recording observer.
type Notification struct {
	// Version is the store version when the observer ran.
	Version int64 `json:"version"`
	// Depth is the notification nesting depth (1 outside reentrancy).
	Depth int `json:"depth"`
	// Items is the item count the observer read.
	Items int `json:"items"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every assertion held and replay matched.
	Pass bool `json:"pass"`

	// Errors holds assertion and replay failures.
	Errors []string `json:"errors,omitempty"`

	// Final is the store's state after the last step.
	Final ir.AppState `json:"-"`

	// View is the projection after the last step.
	View projection.View `json:"-"`

	// Notifications lists recording-observer calls in order.
	Notifications []Notification `json:"notifications"`

	// Changes is the number of changes the store applied.
	Changes int64 `json:"changes"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:          true,
		Errors:        []string{},
		Notifications: []Notification{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
