package ir

// Overlay type tags used by the codec and canonical form.
const (
	OverlayTypeEditingItem = "editing_item"
)

// Overlay is a transient UI mode layered over the list.
// Sealed: EditingItem is the only case.
type Overlay interface {
	overlay()
}

// Point is a screen position in integer cells.
type Point struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

// EditingItem is the overlay shown while an item is being edited. Position
// is where the edit surface is anchored.
type EditingItem struct {
	Item     Item  `json:"item"`
	Position Point `json:"position"`
}

func (EditingItem) overlay() {}

// OverlayItem returns the item an overlay refers to.
func OverlayItem(o Overlay) (Item, bool) {
	switch ov := o.(type) {
	case EditingItem:
		return ov.Item, true
	default:
		return Item{}, false
	}
}
