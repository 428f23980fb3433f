package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowText(t *testing.T) {
	out, err := execute(NewShowCommand(testRootOptions("text")), "", "--count", "3", "--prefix", "Row ")
	require.NoError(t, err)
	assert.Equal(t, "3 item(s)\n   1. Row 0\n   2. Row 1\n   3. Row 2\n", out)
}

func TestShowVerboseIncludesIDs(t *testing.T) {
	opts := testRootOptions("text")
	opts.Verbose = true
	out, err := execute(NewShowCommand(opts), "", "--count", "1", "--ids", "sequential")
	require.NoError(t, err)
	assert.Contains(t, out, "   1. Item 0  [item-0]")
}

func TestShowEmpty(t *testing.T) {
	out, err := execute(NewShowCommand(testRootOptions("text")), "", "--count", "0")
	require.NoError(t, err)
	assert.Equal(t, "0 item(s)\n  (no items)\n", out)
}

func TestShowJSONSortsByName(t *testing.T) {
	out, err := execute(NewShowCommand(testRootOptions("json")), "", "--count", "12", "--ids", "sequential")
	require.NoError(t, err)

	_, view, _ := decodeResponse[ViewResult](t, out)
	require.Len(t, view.Items, 12)
	assert.Equal(t, "Item 0", view.Items[0].Name)
	assert.Equal(t, "Item 1", view.Items[1].Name)
	assert.Equal(t, "Item 10", view.Items[2].Name)
	assert.Equal(t, "Item 11", view.Items[3].Name)
	assert.Equal(t, "Item 2", view.Items[4].Name)
}
