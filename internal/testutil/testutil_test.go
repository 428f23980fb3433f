package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/entrada/internal/ir"
)

func TestItems(t *testing.T) {
	assert.Equal(t, []ir.Item{
		{ID: "a", Name: "Alpha"},
		{ID: "b", Name: "b"},
		{ID: "c", Name: "x:y"},
	}, Items("a:Alpha", "b", "c:x:y"))
}

func TestState(t *testing.T) {
	st := State(t, "a:A", "b:B")
	assert.Equal(t, []string{"a", "b"}, IDs(st))
	assert.False(t, st.HasOverlay())
}

func TestStateHash(t *testing.T) {
	a := State(t, "a:A", "b:B")
	b := State(t, "b:B", "a:A")
	assert.Len(t, StateHash(t, a), 64)
	assert.Equal(t, StateHash(t, a), StateHash(t, State(t, "a:A", "b:B")))
	assert.NotEqual(t, StateHash(t, a), StateHash(t, b))
}

func TestFixedIDGenerator(t *testing.T) {
	g := NewFixedIDGenerator("")
	assert.Equal(t, "fixed-id", g.Generate())
	assert.Equal(t, "fixed-id", g.Generate())

	assert.Equal(t, "x", NewFixedIDGenerator("x").Generate())
}

func TestListIDGenerator(t *testing.T) {
	g := NewListIDGenerator("one", "two")
	assert.Equal(t, "one", g.Generate())
	assert.Equal(t, "two", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}

func TestCaptureLogger(t *testing.T) {
	logger, buf := CaptureLogger()
	logger.Debug("hello", "k", "v")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "k=v")
}
