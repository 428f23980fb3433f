package engine

import (
	"sync"

	"github.com/roach88/entrada/internal/ir"
)

// messageQueue is an unbounded, goroutine-safe FIFO of messages.
//
// The signal channel (buffered, size 1) lets the Run loop wait with select
// alongside ctx.Done. Multiple enqueues coalesce into one pending signal;
// Close closes the channel so waiters wake immediately.
type messageQueue struct {
	mu       sync.Mutex
	messages []ir.Message
	closed   bool
	signal   chan struct{}
}

func newMessageQueue() *messageQueue {
	return &messageQueue{
		messages: make([]ir.Message, 0, 64),
		signal:   make(chan struct{}, 1),
	}
}

// Enqueue appends msg. Returns false if the queue is closed.
func (q *messageQueue) Enqueue(msg ir.Message) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.messages = append(q.messages, msg)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue removes the front message without blocking.
func (q *messageQueue) TryDequeue() (ir.Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.messages) == 0 {
		return nil, false
	}
	msg := q.messages[0]
	// Clear the slot so the backing array does not pin the message.
	q.messages[0] = nil
	if len(q.messages) == 1 {
		q.messages = q.messages[:0]
	} else {
		q.messages = q.messages[1:]
	}
	return msg, true
}

// Wait returns a channel that fires when messages may be available or the
// queue has been closed.
func (q *messageQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the number of pending messages.
func (q *messageQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.messages)
}

// Drained reports whether the queue is closed and empty.
func (q *messageQueue) Drained() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed && len(q.messages) == 0
}

// Close stops further enqueues and wakes waiters. Idempotent.
func (q *messageQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
