package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/entrada/internal/ir"
)

// Snapshot is the golden form of a run: final storage order, display view,
// and notifications. It serializes as canonical JSON.
type Snapshot struct {
	ScenarioName  string
	State         ir.AppState
	View          ir.Object
	Notifications []Notification
}

// NewSnapshot captures result under name.
func NewSnapshot(name string, result *Result) Snapshot {
	return Snapshot{
		ScenarioName:  name,
		State:         result.Final,
		View:          result.View.Value(),
		Notifications: result.Notifications,
	}
}

// MarshalCanonical returns the snapshot's canonical JSON.
func (s Snapshot) MarshalCanonical() ([]byte, error) {
	notes := make(ir.Array, len(s.Notifications))
	for i, n := range s.Notifications {
		notes[i] = ir.Object{
			"version": ir.Int(n.Version),
			"depth":   ir.Int(n.Depth),
			"items":   ir.Int(n.Items),
		}
	}
	return ir.MarshalCanonical(ir.Object{
		"scenario_name": ir.String(s.ScenarioName),
		"state":         s.State.Value(),
		"view":          s.View,
		"notifications": notes,
	})
}

// RunWithGolden runs a scenario, fails the test if any assertion failed,
// and compares the snapshot with testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := NewSnapshot(name, result).MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
