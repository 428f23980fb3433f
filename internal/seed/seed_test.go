package seed

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/entrada/internal/ir"
	"github.com/roach88/entrada/internal/testutil"
)

func TestDefault(t *testing.T) {
	st := Default()

	require.Equal(t, 71, st.Len())
	assert.False(t, st.HasOverlay())

	items := st.Items()
	assert.Equal(t, "Item 0", items[0].Name)
	assert.Equal(t, "Item 70", items[70].Name)

	seen := make(map[ir.ItemID]bool)
	for _, it := range items {
		assert.False(t, seen[it.ID], "duplicate id %s", it.ID)
		seen[it.ID] = true
		parsed, err := uuid.Parse(string(it.ID))
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), parsed.Version())
	}
}

func TestBuild_Sequential(t *testing.T) {
	st, err := Build(3, "Row ", NewSequentialGenerator("r"))
	require.NoError(t, err)
	assert.Equal(t, []ir.Item{
		{ID: "r0", Name: "Row 0"},
		{ID: "r1", Name: "Row 1"},
		{ID: "r2", Name: "Row 2"},
	}, st.Items())
}

func TestBuild_Empty(t *testing.T) {
	st, err := Build(0, DefaultPrefix, UUIDv7Generator{})
	require.NoError(t, err)
	assert.Equal(t, 0, st.Len())
}

func TestBuild_NegativeCount(t *testing.T) {
	_, err := Build(-1, DefaultPrefix, UUIDv7Generator{})
	assert.ErrorIs(t, err, ErrNegativeCount)
}

func TestBuild_DuplicateIDsRejected(t *testing.T) {
	_, err := Build(2, DefaultPrefix, testutil.NewFixedIDGenerator("same"))
	assert.ErrorIs(t, err, ir.ErrDuplicateItemID)
}

func TestSequentialGenerator_DefaultPrefix(t *testing.T) {
	g := NewSequentialGenerator("")
	assert.Equal(t, "item-0", g.Generate())
	assert.Equal(t, "item-1", g.Generate())
}

func TestNewGenerator(t *testing.T) {
	g, err := NewGenerator("uuid")
	require.NoError(t, err)
	assert.IsType(t, UUIDv7Generator{}, g)

	g, err = NewGenerator("sequential")
	require.NoError(t, err)
	assert.Equal(t, "item-0", g.Generate())

	_, err = NewGenerator("snowflake")
	assert.ErrorContains(t, err, "unknown id generator")
}
