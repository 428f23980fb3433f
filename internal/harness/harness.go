package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/entrada/internal/dispatch"
	"github.com/roach88/entrada/internal/ir"
	"github.com/roach88/entrada/internal/journal"
	"github.com/roach88/entrada/internal/projection"
	"github.com/roach88/entrada/internal/store"
)

// Harness wires one scenario run: store, dispatcher, projection, and the
// observers that drive nested steps and record notifications.
type Harness struct {
	store      *store.Store
	dispatcher *dispatch.Dispatcher
	projection *projection.Projection
	pending    []Step
	result     *Result
	err        error
}

// Run executes a scenario and returns the result. An error means the run
// could not be set up; assertion failures are reported in the result.
//
// Observers are registered in this order:
//  1. the reentrancy driver, which dispatches a step's nested steps
//  2. the projection
//  3. the recording observer behind the notifications assertion
func Run(scenario *Scenario) (*Result, error) {
	initial, err := scenario.Seed.build()
	if err != nil {
		return nil, err
	}

	jr, err := journal.Open(journal.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory journal: %w", err)
	}
	defer jr.Close()

	ctx := context.Background()
	sess, err := jr.BeginSession(ctx, initial)
	if err != nil {
		return nil, fmt.Errorf("failed to begin journal session: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(initial,
		store.WithLogger(logger),
		store.WithRecorder(journal.NewRecorder(ctx, jr, sess)),
	)

	h := &Harness{
		store:      st,
		dispatcher: dispatch.New(st, dispatch.WithLogger(logger)),
		result:     NewResult(),
	}
	st.Subscribe(h.driveNested)
	h.projection = projection.New(st)
	defer h.projection.Close()
	st.Subscribe(h.record)

	for i, step := range scenario.Steps {
		if err := h.dispatch(step); err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, err)
		}
		if h.err != nil {
			return nil, fmt.Errorf("steps[%d]: %w", i, h.err)
		}
	}

	result := h.result
	result.Final = st.CurrentState()
	result.View = h.projection.View()
	result.Changes = st.Version()

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	report, err := jr.Replay(ctx, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to replay journal: %w", err)
	}
	if !report.OK() {
		result.AddError(fmt.Sprintf("replay diverged from recorded hashes at %d change(s)", len(report.Mismatches)))
	}
	if !report.Final.Equal(result.Final) {
		result.AddError("replayed state differs from final state")
	}

	return result, nil
}

// dispatch sends one step; its nested steps are left for driveNested.
func (h *Harness) dispatch(step Step) error {
	msg, err := step.Message()
	if err != nil {
		return err
	}
	h.pending = step.Nested
	h.dispatcher.Dispatch(msg)
	h.pending = nil
	return nil
}

// driveNested is the first observer. It dispatches the pending nested
// steps from inside the current notification.
func (h *Harness) driveNested() {
	if len(h.pending) == 0 {
		return
	}
	steps := h.pending
	h.pending = nil
	for _, step := range steps {
		if err := h.dispatch(step); err != nil && h.err == nil {
			h.err = err
		}
	}
}

// record is the last observer.
func (h *Harness) record() {
	h.result.Notifications = append(h.result.Notifications, Notification{
		Version: h.store.Version(),
		Depth:   h.store.Depth(),
		Items:   h.store.CurrentState().Len(),
	})
}

// RunFile loads and runs a scenario file.
func RunFile(path string) (*Scenario, *Result, error) {
	scenario, err := LoadScenario(path)
	if err != nil {
		return nil, nil, err
	}
	result, err := Run(scenario)
	if err != nil {
		return scenario, nil, err
	}
	return scenario, result, nil
}

// itemIDs returns the IDs of items in order.
func itemIDs(items []ir.Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = string(it.ID)
	}
	return ids
}
