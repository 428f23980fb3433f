package ir

// Kind tags shared by Change and Message envelopes.
const (
	KindEdit       = "edit"
	KindAddOverlay = "add_overlay"
)

// Change is a state transition request understood by AppState.Apply.
// Sealed: EditChange and AddOverlayChange are the only cases. There is no
// change that clears an overlay.
type Change interface {
	change()
	// Kind returns the envelope type tag.
	Kind() string
}

// EditChange upserts Item and moves it to the end of the sequence.
type EditChange struct {
	Item Item
}

func (EditChange) change() {}
func (EditChange) Kind() string { return KindEdit }

// AddOverlayChange sets the overlay, replacing any current one.
type AddOverlayChange struct {
	Overlay Overlay
}

func (AddOverlayChange) change() {}
func (AddOverlayChange) Kind() string { return KindAddOverlay }

// IsEmpty reports whether c has nothing to apply: a nil change or an
// AddOverlayChange without an overlay.
func IsEmpty(c Change) bool {
	switch ch := c.(type) {
	case nil:
		return true
	case AddOverlayChange:
		return ch.Overlay == nil
	default:
		return false
	}
}

// Message is an input event from an external collaborator. It mirrors
// Change case for case but is a separate vocabulary: producers never build
// Changes directly.
// Sealed: EditMessage and AddOverlayMessage are the only cases.
type Message interface {
	message()
	// Kind returns the envelope type tag.
	Kind() string
}

// EditMessage reports that the user edited an item.
type EditMessage struct {
	Item Item
}

func (EditMessage) message() {}
func (EditMessage) Kind() string { return KindEdit }

// AddOverlayMessage reports that an overlay should be shown.
type AddOverlayMessage struct {
	Overlay Overlay
}

func (AddOverlayMessage) message() {}
func (AddOverlayMessage) Kind() string { return KindAddOverlay }
