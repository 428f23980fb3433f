package store

import "sync/atomic"

// Clock is the store's logical clock. Every applied change is stamped with
// the next seq; seq values start at 1 and never repeat within a store.
//
// The store itself is single-threaded, but Clock is safe for concurrent use
// so that readers on other goroutines (the engine, a journal writer) can
// inspect Current.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock positioned at start. The next change is
// stamped start+1.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next increments the clock and returns the new seq.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued seq without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
