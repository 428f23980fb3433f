package store

import (
	"log/slog"

	"github.com/roach88/entrada/internal/ir"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder attaches a recorder that sees every applied change.
func WithRecorder(r Recorder) Option {
	return func(s *Store) {
		s.recorder = r
	}
}

// WithClock replaces the logical clock. Used to continue numbering from a
// known seq.
func WithClock(c *Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// Recorder observes applied changes for diagnostics. Record is called after
// the snapshot is replaced and before observers run. A Recorder error is
// logged and otherwise ignored; it never affects the state.
type Recorder interface {
	Record(seq int64, change ir.Change, next ir.AppState) error
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(seq int64, change ir.Change, next ir.AppState) error

// Record calls f.
func (f RecorderFunc) Record(seq int64, change ir.Change, next ir.AppState) error {
	return f(seq, change, next)
}
