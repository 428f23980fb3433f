package store

import (
	"log/slog"
	"slices"

	"github.com/roach88/entrada/internal/ir"
)

// Observer is called with no argument after every applied change. It reads
// whatever it needs through Store.CurrentState.
type Observer func()

// Subscription identifies a registered observer. The zero value refers to
// no observer.
type Subscription struct {
	id uint64
}

// Valid reports whether the subscription was issued by Subscribe.
func (s Subscription) Valid() bool {
	return s.id != 0
}

type registration struct {
	id     uint64
	fn     Observer
	active bool
}

// Store owns the current AppState and the observer registry.
type Store struct {
	state     ir.AppState
	observers []*registration
	nextID    uint64
	depth     int

	clock    *Clock
	recorder Recorder
	logger   *slog.Logger
}

// New creates a store holding initial.
func New(initial ir.AppState, opts ...Option) *Store {
	s := &Store{
		state:  initial,
		clock:  NewClock(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CurrentState returns the held snapshot.
func (s *Store) CurrentState() ir.AppState {
	return s.state
}

// Apply replaces the held snapshot with CurrentState().Apply(change) and
// notifies every observer. An empty change (nil, or an overlay change
// without an overlay) is dropped without a version bump or notification.
func (s *Store) Apply(change ir.Change) {
	if ir.IsEmpty(change) {
		s.logger.Warn("empty change dropped", "depth", s.depth)
		return
	}

	s.state = s.state.Apply(change)
	seq := s.clock.Next()

	s.logger.Debug("change applied",
		"seq", seq,
		"change", change.Kind(),
		"items", s.state.Len(),
		"depth", s.depth,
	)

	if s.recorder != nil {
		if err := s.recorder.Record(seq, change, s.state); err != nil {
			s.logger.Warn("recorder failed",
				"seq", seq,
				"change", change.Kind(),
				"error", err,
			)
		}
	}

	s.notify(seq)
}

// notify calls a snapshot of the registry in registration order.
func (s *Store) notify(seq int64) {
	pass := slices.Clone(s.observers)
	s.depth++
	defer func() { s.depth-- }()

	s.logger.Debug("notifying observers",
		"seq", seq,
		"observers", len(pass),
		"depth", s.depth,
	)

	for _, reg := range pass {
		if !reg.active {
			continue
		}
		reg.fn()
	}
}

// Subscribe registers observer and returns its token. Subscribing the same
// function twice registers it twice. A nil observer is not registered.
func (s *Store) Subscribe(observer Observer) Subscription {
	s.nextID++
	reg := &registration{id: s.nextID, fn: observer, active: observer != nil}
	if reg.active {
		s.observers = append(s.observers, reg)
	}
	return Subscription{id: reg.id}
}

// Unsubscribe removes the observer registered under sub. It returns false if
// sub is unknown or was already removed.
func (s *Store) Unsubscribe(sub Subscription) bool {
	i := slices.IndexFunc(s.observers, func(r *registration) bool { return r.id == sub.id })
	if i < 0 {
		return false
	}
	s.observers[i].active = false
	s.observers = slices.Delete(s.observers, i, i+1)
	return true
}

// Version returns the seq of the last applied change (0 before any).
func (s *Store) Version() int64 {
	return s.clock.Current()
}

// Depth returns how many notification passes are currently running. It is
// 0 outside Apply and greater than 1 inside a reentrant Apply.
func (s *Store) Depth() int {
	return s.depth
}

// Observers returns the number of registered observers.
func (s *Store) Observers() int {
	return len(s.observers)
}
