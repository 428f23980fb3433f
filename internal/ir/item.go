package ir

// ItemID is an opaque item identifier, unique within an AppState.
type ItemID string

// Item is an editable list entry. Identity is carried by ID alone; two Items
// with the same ID are the same entity regardless of Name.
type Item struct {
	ID   ItemID `json:"id"`
	Name string `json:"name"`
}

// Equal reports whether it and other denote the same entity.
func (it Item) Equal(other Item) bool {
	return it.ID == other.ID
}

// Rename returns a copy of it with the same ID and a new name.
func (it Item) Rename(name string) Item {
	it.Name = name
	return it
}
