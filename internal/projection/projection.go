// Package projection derives the display view from an AppState: items
// sorted by name for presentation, and the overlay passed through.
//
// The stored order (recency of mutation) is never shown directly; the
// projection recomputes the sorted view in full on every notification.
package projection

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/entrada/internal/ir"
	"github.com/roach88/entrada/internal/store"
)

// View is one derivation of an AppState.
type View struct {
	Items   []ir.Item
	Overlay ir.Overlay
}

// Derive computes the view of state. Items are stable-sorted ascending by
// name, comparing bytes (so upper case sorts before lower case); items with
// equal names keep their stored order.
func Derive(state ir.AppState) View {
	items := state.Items()
	slices.SortStableFunc(items, func(a, b ir.Item) int {
		return strings.Compare(a.Name, b.Name)
	})
	return View{Items: items, Overlay: state.Overlay()}
}

// Value returns the canonical value form of the view.
func (v View) Value() ir.Object {
	obj := ir.Object{"items": ir.ItemsValue(v.Items)}
	if ov := ir.OverlayValue(v.Overlay); ov != nil {
		obj["overlay"] = ov
	}
	return obj
}

// MarshalCanonical returns the canonical JSON of the view. Two derivations
// of the same state produce identical bytes.
func (v View) MarshalCanonical() ([]byte, error) {
	data, err := ir.MarshalCanonical(v.Value())
	if err != nil {
		return nil, fmt.Errorf("marshal view: %w", err)
	}
	return data, nil
}

// Names returns the item names in display order.
func (v View) Names() []string {
	names := make([]string, len(v.Items))
	for i, it := range v.Items {
		names[i] = it.Name
	}
	return names
}

// Source is the subset of *store.Store a Projection reads from.
type Source interface {
	CurrentState() ir.AppState
	Subscribe(observer store.Observer) store.Subscription
	Unsubscribe(sub store.Subscription) bool
}

// Projection keeps a view of a Source current.
type Projection struct {
	src        Source
	sub        store.Subscription
	view       View
	recomputes int
}

// New derives the initial view from src and subscribes for updates.
func New(src Source) *Projection {
	p := &Projection{src: src}
	p.recompute()
	p.sub = src.Subscribe(p.recompute)
	return p
}

func (p *Projection) recompute() {
	p.view = Derive(p.src.CurrentState())
	p.recomputes++
}

// DisplayItems returns the items in display order. The slice is a copy.
func (p *Projection) DisplayItems() []ir.Item {
	return slices.Clone(p.view.Items)
}

// DisplayOverlay returns the current overlay, or nil.
func (p *Projection) DisplayOverlay() ir.Overlay {
	return p.view.Overlay
}

// View returns the current view. Its Items slice is a copy.
func (p *Projection) View() View {
	return View{Items: p.DisplayItems(), Overlay: p.view.Overlay}
}

// Recomputes returns how many times the view has been derived, including
// the initial derivation.
func (p *Projection) Recomputes() int {
	return p.recomputes
}

// Close stops following the source. The last view stays readable. Calling
// Close more than once is harmless.
func (p *Projection) Close() {
	if p.sub.Valid() {
		p.src.Unsubscribe(p.sub)
		p.sub = store.Subscription{}
	}
}
