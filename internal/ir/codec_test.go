package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalMessage_Edit(t *testing.T) {
	data, err := MarshalMessage(EditMessage{Item: Item{ID: "a", Name: "Alpha"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"edit","item":{"id":"a","name":"Alpha"}}`, string(data))
}

func TestMarshalMessage_AddOverlay(t *testing.T) {
	msg := AddOverlayMessage{Overlay: EditingItem{Item: Item{ID: "a", Name: "Alpha"}, Position: Point{X: 10, Y: -2}}}
	data, err := MarshalMessage(msg)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"add_overlay","overlay":{"type":"editing_item","item":{"id":"a","name":"Alpha"},"position":{"x":10,"y":-2}}}`,
		string(data))

	back, err := UnmarshalMessage(data)
	require.NoError(t, err)
	assert.Equal(t, msg, back)
}

func TestMarshalMessage_Nil(t *testing.T) {
	_, err := MarshalMessage(nil)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestMarshalMessage_NilOverlay(t *testing.T) {
	_, err := MarshalMessage(AddOverlayMessage{})
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestUnmarshalMessage_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"unknown type", `{"type":"clear_overlay"}`, ErrUnknownType},
		{"missing type", `{"item":{"id":"a","name":"A"}}`, ErrMissingField},
		{"edit without item", `{"type":"edit"}`, ErrMissingField},
		{"edit with empty id", `{"type":"edit","item":{"id":"","name":"A"}}`, ErrMissingField},
		{"overlay missing", `{"type":"add_overlay"}`, ErrMissingField},
		{"overlay unknown type", `{"type":"add_overlay","overlay":{"type":"popup"}}`, ErrUnknownType},
		{"overlay without position", `{"type":"add_overlay","overlay":{"type":"editing_item","item":{"id":"a","name":"A"}}}`, ErrMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalMessage([]byte(tt.input))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUnmarshalMessage_Malformed(t *testing.T) {
	_, err := UnmarshalMessage([]byte(`{"type":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode envelope")
}

func TestUnmarshalMessage_EmptyNameAllowed(t *testing.T) {
	msg, err := UnmarshalMessage([]byte(`{"type":"edit","item":{"id":"a","name":""}}`))
	require.NoError(t, err)
	assert.Equal(t, EditMessage{Item: Item{ID: "a"}}, msg)
}

func TestChangeCodec(t *testing.T) {
	changes := []Change{
		EditChange{Item: Item{ID: "a", Name: "Alpha"}},
		AddOverlayChange{Overlay: EditingItem{Item: Item{ID: "b", Name: "Bravo"}, Position: Point{X: 1, Y: 2}}},
	}
	for _, c := range changes {
		t.Run(c.Kind(), func(t *testing.T) {
			data, err := MarshalChange(c)
			require.NoError(t, err)
			back, err := UnmarshalChange(data)
			require.NoError(t, err)
			assert.Equal(t, c, back)
		})
	}
}

func TestStateCodec(t *testing.T) {
	ov := EditingItem{Item: Item{ID: "b", Name: "Bravo"}, Position: Point{X: 4, Y: 8}}
	s := MustAppState([]Item{{ID: "b", Name: "Bravo"}, {ID: "a", Name: "alpha"}}, ov)

	data, err := MarshalState(s)
	require.NoError(t, err)
	back, err := UnmarshalState(data)
	require.NoError(t, err)
	assert.True(t, s.Equal(back))
	assert.Equal(t, stateHash(t, s), stateHash(t, back))
}

func TestUnmarshalState_Duplicate(t *testing.T) {
	_, err := UnmarshalState([]byte(`{"items":[{"id":"a","name":"x"},{"id":"a","name":"y"}]}`))
	assert.ErrorIs(t, err, ErrDuplicateItemID)
}

func TestUnmarshalState_Empty(t *testing.T) {
	s, err := UnmarshalState([]byte(`{"items":[]}`))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.HasOverlay())
}
