// Package seed builds the initial AppState the application starts from.
package seed

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/roach88/entrada/internal/ir"
)

// Defaults for the startup list.
const (
	DefaultCount  = 71
	DefaultPrefix = "Item "
)

// ErrNegativeCount is returned when a negative item count is requested.
var ErrNegativeCount = errors.New("seed count must not be negative")

// Build returns a state with count items named prefix+"0" .. prefix+(count-1)
// in that order and no overlay. IDs come from gen.
func Build(count int, prefix string, gen IDGenerator) (ir.AppState, error) {
	if count < 0 {
		return ir.AppState{}, fmt.Errorf("%w: %d", ErrNegativeCount, count)
	}
	items := make([]ir.Item, count)
	for i := range items {
		items[i] = ir.Item{
			ID:   ir.ItemID(gen.Generate()),
			Name: prefix + strconv.Itoa(i),
		}
	}
	state, err := ir.NewAppState(items, nil)
	if err != nil {
		return ir.AppState{}, fmt.Errorf("build seed: %w", err)
	}
	return state, nil
}

// Default returns the standard startup state: DefaultCount items named
// "Item 0" .. "Item 70" with UUIDv7 identifiers.
func Default() ir.AppState {
	state, err := Build(DefaultCount, DefaultPrefix, UUIDv7Generator{})
	if err != nil {
		// UUIDv7 values do not collide within a process.
		panic(err)
	}
	return state
}
