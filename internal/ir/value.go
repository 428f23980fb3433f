package ir

import (
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface for the constrained values that make up the
// canonical form of states, changes and views.
// NO float case - floats break byte-stable hashing.
type Value interface {
	value()
}

// String is a string value.
type String string

func (String) value() {}

// Int is an integer value. Always int64.
type Int int64

func (Int) value() {}

// Bool is a boolean value.
type Bool bool

func (Bool) value() {}

// Array is an ordered list of values.
type Array []Value

func (Array) value() {}

// Object maps string keys to values. Iterate with SortedKeys for
// deterministic output.
type Object map[string]Value

func (Object) value() {}

// SortedKeys returns keys in RFC 8785 order (UTF-16 code units).
// Go's native string order compares UTF-8 bytes, which differs for
// characters outside the BMP.
func (o Object) SortedKeys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}

// Value returns the canonical value form of an item.
func (it Item) Value() Object {
	return Object{
		"id":   String(it.ID),
		"name": String(it.Name),
	}
}

// Value returns the canonical value form of a point.
func (p Point) Value() Object {
	return Object{
		"x": Int(p.X),
		"y": Int(p.Y),
	}
}

// OverlayValue returns the canonical value form of an overlay.
// Returns nil when o is nil.
func OverlayValue(o Overlay) Value {
	switch ov := o.(type) {
	case EditingItem:
		return Object{
			"type":     String(OverlayTypeEditingItem),
			"item":     ov.Item.Value(),
			"position": ov.Position.Value(),
		}
	default:
		return nil
	}
}

// ItemsValue returns the canonical value form of an item sequence,
// preserving order.
func ItemsValue(items []Item) Array {
	arr := make(Array, len(items))
	for i, it := range items {
		arr[i] = it.Value()
	}
	return arr
}

// Value returns the canonical value form of the state. The overlay key is
// omitted when no overlay is set.
func (s AppState) Value() Object {
	obj := Object{"items": ItemsValue(s.items)}
	if ov := OverlayValue(s.overlay); ov != nil {
		obj["overlay"] = ov
	}
	return obj
}

// ChangeValue returns the canonical value form of a change.
// Returns nil for a nil change.
func ChangeValue(c Change) Value {
	switch ch := c.(type) {
	case EditChange:
		return Object{
			"type": String(KindEdit),
			"item": ch.Item.Value(),
		}
	case AddOverlayChange:
		obj := Object{"type": String(KindAddOverlay)}
		if ov := OverlayValue(ch.Overlay); ov != nil {
			obj["overlay"] = ov
		}
		return obj
	default:
		return nil
	}
}
