package ir

import (
	"errors"
	"fmt"
	"slices"
)

// ErrDuplicateItemID is returned by NewAppState when two items share an ID.
var ErrDuplicateItemID = errors.New("duplicate item id")

// AppState is an immutable snapshot of the application: an ordered item
// sequence and at most one overlay.
//
// Invariants:
//   - item IDs are unique
//   - order is recency of mutation; the most recently edited item is last
//   - the value is never modified after construction
//
// The zero value is an empty state with no overlay.
type AppState struct {
	items   []Item
	overlay Overlay
}

// NewAppState builds a state from items and an optional overlay (nil for
// none). The items slice is copied.
func NewAppState(items []Item, overlay Overlay) (AppState, error) {
	seen := make(map[ItemID]int, len(items))
	for i, it := range items {
		if j, ok := seen[it.ID]; ok {
			return AppState{}, fmt.Errorf("%w: %q at %d and %d", ErrDuplicateItemID, it.ID, j, i)
		}
		seen[it.ID] = i
	}
	return AppState{items: slices.Clone(items), overlay: overlay}, nil
}

// MustAppState is like NewAppState but panics on error.
// Use only in tests or with items known to be unique.
func MustAppState(items []Item, overlay Overlay) AppState {
	s, err := NewAppState(items, overlay)
	if err != nil {
		panic(err)
	}
	return s
}

// Items returns a copy of the item sequence in storage order.
func (s AppState) Items() []Item {
	return slices.Clone(s.items)
}

// Len returns the number of items.
func (s AppState) Len() int {
	return len(s.items)
}

// Item returns the item with the given ID.
func (s AppState) Item(id ItemID) (Item, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return Item{}, false
}

// Overlay returns the active overlay, or nil.
func (s AppState) Overlay() Overlay {
	return s.overlay
}

// HasOverlay reports whether an overlay is set.
func (s AppState) HasOverlay() bool {
	return s.overlay != nil
}

func (s AppState) indexOf(id ItemID) int {
	return slices.IndexFunc(s.items, func(it Item) bool { return it.ID == id })
}

// Apply returns the state that results from applying c. The receiver is not
// modified. An empty change (see IsEmpty) returns the receiver.
//
//   - EditChange: every item with the same ID is removed and the new item is
//     appended (upsert, move to end). The overlay is untouched.
//   - AddOverlayChange: the overlay is replaced unconditionally. Items are
//     untouched.
func (s AppState) Apply(c Change) AppState {
	switch ch := c.(type) {
	case EditChange:
		return s.edit(ch.Item)
	case AddOverlayChange:
		return s.addOverlay(ch.Overlay)
	default:
		return s
	}
}

func (s AppState) edit(item Item) AppState {
	items := make([]Item, 0, len(s.items)+1)
	for _, it := range s.items {
		if it.ID != item.ID {
			items = append(items, it)
		}
	}
	items = append(items, item)
	return AppState{items: items, overlay: s.overlay}
}

func (s AppState) addOverlay(o Overlay) AppState {
	if o == nil {
		return s
	}
	return AppState{items: s.items, overlay: o}
}

// Equal reports whether two states hold the same items (ID and name) in the
// same order and equal overlays.
func (s AppState) Equal(other AppState) bool {
	return slices.Equal(s.items, other.items) && s.overlay == other.overlay
}
