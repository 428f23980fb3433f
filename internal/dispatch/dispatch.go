// Package dispatch turns input Messages into Changes and forwards them to a
// store. Each message yields exactly one change.
package dispatch

import (
	"log/slog"

	"github.com/roach88/entrada/internal/ir"
)

// Applier receives translated changes. *store.Store satisfies it.
type Applier interface {
	Apply(change ir.Change)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Dispatcher is the single inbound entry point of the core.
type Dispatcher struct {
	target Applier
	logger *slog.Logger
}

// New creates a dispatcher that applies to target.
func New(target Applier, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		target: target,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch translates msg and applies the resulting change synchronously.
// A nil message, or an overlay message without an overlay, is logged and
// dropped.
func (d *Dispatcher) Dispatch(msg ir.Message) {
	change, ok := Translate(msg)
	if !ok {
		d.logger.Warn("empty message dropped")
		return
	}
	d.logger.Debug("dispatching message", "message", msg.Kind())
	d.target.Apply(change)
}

// Translate maps a message to its change. It reports false when there is
// nothing to apply.
func Translate(msg ir.Message) (ir.Change, bool) {
	var change ir.Change
	switch m := msg.(type) {
	case ir.EditMessage:
		change = ir.EditChange{Item: m.Item}
	case ir.AddOverlayMessage:
		change = ir.AddOverlayChange{Overlay: m.Overlay}
	}
	if ir.IsEmpty(change) {
		return nil, false
	}
	return change, true
}
