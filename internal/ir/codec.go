package ir

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Decode errors. Input validation happens here, at the boundary; the core
// itself accepts any well-typed value.
var (
	ErrUnknownType  = errors.New("unknown type")
	ErrMissingField = errors.New("missing field")
)

// envelope is the wire shape shared by Message and Change.
type envelope struct {
	Type    string           `json:"type"`
	Item    *Item            `json:"item,omitempty"`
	Overlay *overlayEnvelope `json:"overlay,omitempty"`
}

type overlayEnvelope struct {
	Type     string `json:"type"`
	Item     *Item  `json:"item,omitempty"`
	Position *Point `json:"position,omitempty"`
}

func encodeOverlay(o Overlay) (*overlayEnvelope, error) {
	switch ov := o.(type) {
	case EditingItem:
		item, pos := ov.Item, ov.Position
		return &overlayEnvelope{Type: OverlayTypeEditingItem, Item: &item, Position: &pos}, nil
	case nil:
		return nil, fmt.Errorf("overlay: %w", ErrMissingField)
	default:
		return nil, fmt.Errorf("overlay %T: %w", o, ErrUnknownType)
	}
}

func decodeOverlay(env *overlayEnvelope) (Overlay, error) {
	if env == nil {
		return nil, fmt.Errorf("overlay: %w", ErrMissingField)
	}
	switch env.Type {
	case OverlayTypeEditingItem:
		item, err := decodeItem(env.Item, "overlay.item")
		if err != nil {
			return nil, err
		}
		if env.Position == nil {
			return nil, fmt.Errorf("overlay.position: %w", ErrMissingField)
		}
		return EditingItem{Item: item, Position: *env.Position}, nil
	case "":
		return nil, fmt.Errorf("overlay.type: %w", ErrMissingField)
	default:
		return nil, fmt.Errorf("overlay type %q: %w", env.Type, ErrUnknownType)
	}
}

func decodeItem(it *Item, field string) (Item, error) {
	if it == nil {
		return Item{}, fmt.Errorf("%s: %w", field, ErrMissingField)
	}
	if it.ID == "" {
		return Item{}, fmt.Errorf("%s.id: %w", field, ErrMissingField)
	}
	return *it, nil
}

// encode builds the envelope for a kind and its payload.
func encode(kind string, item *Item, o Overlay) ([]byte, error) {
	env := envelope{Type: kind, Item: item}
	if kind == KindAddOverlay {
		ov, err := encodeOverlay(o)
		if err != nil {
			return nil, err
		}
		env.Overlay = ov
	}
	return json.Marshal(env)
}

// decode parses an envelope and returns its kind with the decoded payload.
func decode(data []byte) (string, Item, Overlay, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", Item{}, nil, fmt.Errorf("decode envelope: %w", err)
	}
	switch env.Type {
	case KindEdit:
		item, err := decodeItem(env.Item, "item")
		return env.Type, item, nil, err
	case KindAddOverlay:
		ov, err := decodeOverlay(env.Overlay)
		return env.Type, Item{}, ov, err
	case "":
		return "", Item{}, nil, fmt.Errorf("type: %w", ErrMissingField)
	default:
		return "", Item{}, nil, fmt.Errorf("type %q: %w", env.Type, ErrUnknownType)
	}
}

// MarshalMessage encodes a message as its JSON envelope.
func MarshalMessage(m Message) ([]byte, error) {
	switch msg := m.(type) {
	case EditMessage:
		return encode(KindEdit, &msg.Item, nil)
	case AddOverlayMessage:
		return encode(KindAddOverlay, nil, msg.Overlay)
	case nil:
		return nil, fmt.Errorf("message: %w", ErrMissingField)
	default:
		return nil, fmt.Errorf("message %T: %w", m, ErrUnknownType)
	}
}

// UnmarshalMessage decodes a JSON envelope into a Message.
func UnmarshalMessage(data []byte) (Message, error) {
	kind, item, ov, err := decode(data)
	if err != nil {
		return nil, err
	}
	if kind == KindEdit {
		return EditMessage{Item: item}, nil
	}
	return AddOverlayMessage{Overlay: ov}, nil
}

// MarshalChange encodes a change as its JSON envelope.
func MarshalChange(c Change) ([]byte, error) {
	switch ch := c.(type) {
	case EditChange:
		return encode(KindEdit, &ch.Item, nil)
	case AddOverlayChange:
		return encode(KindAddOverlay, nil, ch.Overlay)
	case nil:
		return nil, fmt.Errorf("change: %w", ErrMissingField)
	default:
		return nil, fmt.Errorf("change %T: %w", c, ErrUnknownType)
	}
}

// UnmarshalChange decodes a JSON envelope into a Change.
func UnmarshalChange(data []byte) (Change, error) {
	kind, item, ov, err := decode(data)
	if err != nil {
		return nil, err
	}
	if kind == KindEdit {
		return EditChange{Item: item}, nil
	}
	return AddOverlayChange{Overlay: ov}, nil
}

type stateEnvelope struct {
	Items   []Item           `json:"items"`
	Overlay *overlayEnvelope `json:"overlay,omitempty"`
}

// MarshalState encodes a state as canonical JSON.
func MarshalState(s AppState) ([]byte, error) {
	return MarshalCanonical(s.Value())
}

// UnmarshalState decodes the output of MarshalState. The decoded state must
// satisfy NewAppState.
func UnmarshalState(data []byte) (AppState, error) {
	var env stateEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return AppState{}, fmt.Errorf("decode state: %w", err)
	}
	for i := range env.Items {
		if env.Items[i].ID == "" {
			return AppState{}, fmt.Errorf("items[%d].id: %w", i, ErrMissingField)
		}
	}
	var ov Overlay
	if env.Overlay != nil {
		var err error
		if ov, err = decodeOverlay(env.Overlay); err != nil {
			return AppState{}, err
		}
	}
	return NewAppState(env.Items, ov)
}
