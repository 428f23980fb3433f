package harness

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"

	"github.com/roach88/entrada/internal/ir"
	"github.com/roach88/entrada/internal/seed"
)

//go:embed schema.cue
var schemaCUE string

// Scenario defines one harness test.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name" json:"name"`

	// Description explains what the scenario checks.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Seed is the initial state.
	Seed SeedSpec `yaml:"seed,omitempty" json:"seed,omitempty"`

	// Steps are dispatched in order.
	Steps []Step `yaml:"steps" json:"steps"`

	// Assertions are evaluated after the last step.
	Assertions []Assertion `yaml:"assertions" json:"assertions"`
}

// SeedSpec describes the initial state: explicit Items, or Count generated
// items named Prefix+"0" .. . The two are mutually exclusive.
type SeedSpec struct {
	Items   []ItemSpec   `yaml:"items,omitempty" json:"items,omitempty"`
	Count   *int         `yaml:"count,omitempty" json:"count,omitempty"`
	Prefix  *string      `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	Overlay *OverlaySpec `yaml:"overlay,omitempty" json:"overlay,omitempty"`
}

// ItemSpec is an item literal.
type ItemSpec struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

func (s ItemSpec) item() ir.Item {
	return ir.Item{ID: ir.ItemID(s.ID), Name: s.Name}
}

// OverlaySpec is an editing-item overlay literal.
type OverlaySpec struct {
	Item ItemSpec `yaml:"item" json:"item"`
	X    int64    `yaml:"x,omitempty" json:"x,omitempty"`
	Y    int64    `yaml:"y,omitempty" json:"y,omitempty"`
}

func (s OverlaySpec) overlay() ir.Overlay {
	return ir.EditingItem{Item: s.Item.item(), Position: ir.Point{X: s.X, Y: s.Y}}
}

// Step is one message. Exactly one of Edit and AddOverlay is set.
type Step struct {
	Edit       *ItemSpec    `yaml:"edit,omitempty" json:"edit,omitempty"`
	AddOverlay *OverlaySpec `yaml:"add_overlay,omitempty" json:"add_overlay,omitempty"`

	// Nested steps are dispatched from inside the notification for this
	// step.
	Nested []Step `yaml:"nested,omitempty" json:"nested,omitempty"`
}

// Message returns the message the step dispatches.
func (s Step) Message() (ir.Message, error) {
	switch {
	case s.Edit != nil && s.AddOverlay != nil:
		return nil, errors.New("step sets both edit and add_overlay")
	case s.Edit != nil:
		return ir.EditMessage{Item: s.Edit.item()}, nil
	case s.AddOverlay != nil:
		return ir.AddOverlayMessage{Overlay: s.AddOverlay.overlay()}, nil
	default:
		return nil, errors.New("step sets neither edit nor add_overlay")
	}
}

// Assertion checks the outcome of a run.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type" json:"type"`

	// IDs is the expected storage order (state_order).
	IDs []string `yaml:"ids,omitempty" json:"ids,omitempty"`

	// Names is the expected display order (display_order).
	Names []string `yaml:"names,omitempty" json:"names,omitempty"`

	// Item is the expected overlay item ID (overlay).
	Item string `yaml:"item,omitempty" json:"item,omitempty"`

	// None expects no overlay (overlay).
	None bool `yaml:"none,omitempty" json:"none,omitempty"`

	// Count is the expected number (item_count, notifications).
	Count *int `yaml:"count,omitempty" json:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertStateOrder    = "state_order"
	AssertDisplayOrder  = "display_order"
	AssertOverlay       = "overlay"
	AssertItemCount     = "item_count"
	AssertUniqueIDs     = "unique_ids"
	AssertNotifications = "notifications"
)

// SeedIDPrefix prefixes the IDs of count-generated seed items.
const SeedIDPrefix = "item-"

// build returns the scenario's initial state.
func (s SeedSpec) build() (ir.AppState, error) {
	var (
		state ir.AppState
		err   error
	)
	if s.Count != nil {
		prefix := seed.DefaultPrefix
		if s.Prefix != nil {
			prefix = *s.Prefix
		}
		state, err = seed.Build(*s.Count, prefix, seed.NewSequentialGenerator(SeedIDPrefix))
	} else {
		items := make([]ir.Item, len(s.Items))
		for i, it := range s.Items {
			items[i] = it.item()
		}
		state, err = ir.NewAppState(items, nil)
	}
	if err != nil {
		return ir.AppState{}, fmt.Errorf("seed: %w", err)
	}
	if s.Overlay != nil {
		state = state.Apply(ir.AddOverlayChange{Overlay: s.Overlay.overlay()})
	}
	return state, nil
}

// LoadScenario reads a scenario from a .yaml, .yml or .cue file. The file is
// validated against the CUE schema, decoded (YAML decoding rejects unknown
// fields), and checked for consistency.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario *Scenario
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		scenario, err = decodeCUE(path, data)
	case ".yaml", ".yml":
		scenario, err = decodeYAML(path, data)
	default:
		return nil, fmt.Errorf("unsupported scenario file extension: %s", path)
	}
	if err != nil {
		return nil, err
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return scenario, nil
}

func decodeYAML(path string, data []byte) (*Scenario, error) {
	if err := validateYAMLSchema(path, data); err != nil {
		return nil, err
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

func decodeCUE(path string, data []byte) (*Scenario, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError("failed to compile CUE", err)
	}

	unified, err := unifySchema(ctx, v)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := unified.Decode(&scenario); err != nil {
		return nil, formatCUEError("failed to decode CUE", err)
	}
	return &scenario, nil
}

func validateYAMLSchema(path string, data []byte) error {
	file, err := cueyaml.Extract(path, data)
	if err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	ctx := cuecontext.New()
	v := ctx.BuildFile(file)
	if err := v.Err(); err != nil {
		return formatCUEError("failed to build YAML value", err)
	}
	_, err = unifySchema(ctx, v)
	return err
}

// unifySchema unifies v with #Scenario and requires a concrete result.
func unifySchema(ctx *cue.Context, v cue.Value) (cue.Value, error) {
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return cue.Value{}, formatCUEError("invalid embedded schema", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Scenario"))
	unified := def.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return cue.Value{}, formatCUEError("schema violation", err)
	}
	return unified, nil
}

// formatCUEError flattens a CUE error list into one message, one line per
// error with its position.
func formatCUEError(prefix string, err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return fmt.Errorf("%s: %w", prefix, err)
	}
	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := e.Error()
		if pos := cueerrors.Positions(e); len(pos) > 0 && pos[0].IsValid() {
			msg = fmt.Sprintf("%s:%d:%d: %s", filepath.Base(pos[0].Filename()), pos[0].Line(), pos[0].Column(), msg)
		}
		lines = append(lines, msg)
	}
	return fmt.Errorf("%s: %s", prefix, strings.Join(lines, "; "))
}

// ValidateFile checks a scenario file without running it.
func ValidateFile(path string) error {
	_, err := LoadScenario(path)
	return err
}

// validateScenario checks constraints the schema cannot express.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Seed.Count != nil && len(s.Seed.Items) > 0 {
		return fmt.Errorf("seed: count and items are mutually exclusive")
	}
	if s.Seed.Prefix != nil && s.Seed.Count == nil {
		return fmt.Errorf("seed: prefix requires count")
	}
	if _, err := s.Seed.build(); err != nil {
		return err
	}
	if len(s.Steps) == 0 && len(s.Assertions) == 0 {
		return fmt.Errorf("at least one step or assertion is required")
	}
	if err := validateSteps(s.Steps, "steps"); err != nil {
		return err
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(a, i); err != nil {
			return err
		}
	}
	return nil
}

func validateSteps(steps []Step, path string) error {
	for i, st := range steps {
		at := fmt.Sprintf("%s[%d]", path, i)
		if _, err := st.Message(); err != nil {
			return fmt.Errorf("%s: %w", at, err)
		}
		if st.Edit != nil && st.Edit.ID == "" {
			return fmt.Errorf("%s: edit.id is required", at)
		}
		if st.AddOverlay != nil && st.AddOverlay.Item.ID == "" {
			return fmt.Errorf("%s: add_overlay.item.id is required", at)
		}
		if err := validateSteps(st.Nested, at+".nested"); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(a Assertion, index int) error {
	switch a.Type {
	case AssertStateOrder:
		if a.IDs == nil {
			return fmt.Errorf("assertions[%d]: ids is required for state_order", index)
		}
	case AssertDisplayOrder:
		if a.Names == nil {
			return fmt.Errorf("assertions[%d]: names is required for display_order", index)
		}
	case AssertOverlay:
		if a.None == (a.Item != "") {
			return fmt.Errorf("assertions[%d]: overlay needs exactly one of item or none", index)
		}
	case AssertItemCount, AssertNotifications:
		if a.Count == nil {
			return fmt.Errorf("assertions[%d]: count is required for %s", index, a.Type)
		}
		if *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertUniqueIDs:
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
