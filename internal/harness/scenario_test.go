package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/entrada/internal/ir"
)

func writeScenario(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_YAML(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/basic_edit.yaml")
	require.NoError(t, err)

	assert.Equal(t, "basic_edit", scenario.Name)
	require.Len(t, scenario.Seed.Items, 3)
	assert.Equal(t, ItemSpec{ID: "b", Name: "alpha"}, scenario.Seed.Items[1])
	require.Len(t, scenario.Steps, 1)
	require.NotNil(t, scenario.Steps[0].Edit)
	assert.Equal(t, "Delta", scenario.Steps[0].Edit.Name)
	assert.Len(t, scenario.Assertions, 6)
	assert.True(t, scenario.Assertions[2].None)
}

func TestLoadScenario_CUE(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/reentrant.cue")
	require.NoError(t, err)

	assert.Equal(t, "reentrant", scenario.Name)
	require.Len(t, scenario.Steps, 1)
	require.Len(t, scenario.Steps[0].Nested, 1)
	assert.Equal(t, "c", scenario.Steps[0].Nested[0].Edit.ID)
	require.NotNil(t, scenario.Assertions[1].Count)
	assert.Equal(t, 2, *scenario.Assertions[1].Count)
}

func TestLoadScenario_CountSeed(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/overlay_replace.yaml")
	require.NoError(t, err)

	state, err := scenario.Seed.build()
	require.NoError(t, err)
	assert.Equal(t, []ir.Item{
		{ID: "item-0", Name: "Item 0"},
		{ID: "item-1", Name: "Item 1"},
		{ID: "item-2", Name: "Item 2"},
	}, state.Items())
	assert.Equal(t, int64(4), scenario.Steps[1].AddOverlay.Y)
}

func TestLoadScenario_UnknownFieldRejected(t *testing.T) {
	path := writeScenario(t, "typo.yaml", `
name: typo
steps:
  - edit: { id: a, name: A }
assertion:
  - type: unique_ids
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema violation")
}

func TestLoadScenario_MissingName(t *testing.T) {
	path := writeScenario(t, "noname.yaml", `
steps:
  - edit: { id: a, name: A }
assertions: []
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema violation")
}

func TestLoadScenario_UnknownAssertionType(t *testing.T) {
	path := writeScenario(t, "badtype.yaml", `
name: bad
steps: []
assertions:
  - type: trace_contains
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema violation")
}

func TestLoadScenario_EmptyIDRejectedBySchema(t *testing.T) {
	path := writeScenario(t, "emptyid.yaml", `
name: empty_id
steps:
  - edit: { id: "", name: A }
assertions: []
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema violation")
}

func TestLoadScenario_StepWithBothKinds(t *testing.T) {
	path := writeScenario(t, "both.yaml", `
name: both
steps:
  - edit: { id: a, name: A }
    add_overlay:
      item: { id: a, name: A }
assertions: []
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps[0]: step sets both edit and add_overlay")
}

func TestLoadScenario_EmptyNestedStep(t *testing.T) {
	path := writeScenario(t, "nested.cue", `
name: "nested"
steps: [{edit: {id: "a", name: "A"}, nested: [{}]}]
assertions: []
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps[0].nested[0]: step sets neither edit nor add_overlay")
}

func TestLoadScenario_SeedConflicts(t *testing.T) {
	tests := []struct {
		name    string
		seed    string
		wantErr string
	}{
		{"count and items", "seed:\n  count: 2\n  items: [{ id: a, name: A }]\n", "mutually exclusive"},
		{"prefix without count", "seed:\n  prefix: \"Row \"\n", "prefix requires count"},
		{"duplicate ids", "seed:\n  items: [{ id: a, name: A }, { id: a, name: B }]\n", "duplicate item id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, "seed.yaml", "name: seed\n"+tt.seed+"steps: []\nassertions:\n  - type: unique_ids\n")
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_OverlayAssertionNeedsOneTarget(t *testing.T) {
	path := writeScenario(t, "overlay.yaml", `
name: overlay
steps: []
assertions:
  - type: overlay
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of item or none")
}

func TestLoadScenario_BadCUE(t *testing.T) {
	path := writeScenario(t, "broken.cue", `name: "x" steps: [`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compile CUE")
}

func TestLoadScenario_UnsupportedExtension(t *testing.T) {
	path := writeScenario(t, "scenario.json", `{}`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported scenario file extension")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestStepMessage(t *testing.T) {
	msg, err := Step{Edit: &ItemSpec{ID: "a", Name: "A"}}.Message()
	require.NoError(t, err)
	assert.Equal(t, ir.EditMessage{Item: ir.Item{ID: "a", Name: "A"}}, msg)

	msg, err = Step{AddOverlay: &OverlaySpec{Item: ItemSpec{ID: "a"}, X: 1, Y: 2}}.Message()
	require.NoError(t, err)
	assert.Equal(t, ir.AddOverlayMessage{Overlay: ir.EditingItem{Item: ir.Item{ID: "a"}, Position: ir.Point{X: 1, Y: 2}}}, msg)
}
