package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/roach88/entrada/internal/dispatch"
	"github.com/roach88/entrada/internal/ir"
)

// Engine is the single consumer in front of a Dispatcher.
//
// Thread-safety model:
//   - Enqueue, Stop, Processed, QueueLen: safe from any goroutine
//   - Run: must be called from exactly one goroutine
type Engine struct {
	dispatcher *dispatch.Dispatcher
	queue      *messageQueue
	processed  atomic.Int64
	logger     *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an engine feeding d.
func New(d *dispatch.Dispatcher, opts ...EngineOption) *Engine {
	e := &Engine{
		dispatcher: d,
		queue:      newMessageQueue(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enqueue submits msg for processing by Run.
// Returns false once the engine has been stopped.
func (e *Engine) Enqueue(msg ir.Message) bool {
	return e.queue.Enqueue(msg)
}

// Run processes messages in FIFO order until the engine is stopped and the
// queue is drained (returns nil) or ctx is cancelled (returns ctx.Err()).
//
// A panic raised while a message is applied (from an observer) is logged
// with the message and processing continues with the next message.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("engine starting")

	for {
		msg, ok := e.queue.TryDequeue()
		if ok {
			if err := e.process(msg); err != nil {
				logMessageError(e.logger, msg, err)
			}
			continue
		}

		select {
		case <-ctx.Done():
			e.logger.Info("engine stopping: context cancelled",
				"processed", e.processed.Load(),
				"pending", e.queue.Len(),
			)
			e.queue.Close()
			return ctx.Err()

		case <-e.queue.Wait():
			// A signal can be stale (coalesced) or mean the queue closed.
			// Only a closed, empty queue ends the loop.
			if e.queue.Drained() {
				e.logger.Info("engine stopping: queue drained",
					"processed", e.processed.Load(),
				)
				return nil
			}
		}
	}
}

// Stop closes the queue. Run returns after the messages already enqueued
// have been processed.
func (e *Engine) Stop() {
	e.queue.Close()
}

// Processed returns how many messages Run has handed to the dispatcher.
func (e *Engine) Processed() int64 {
	return e.processed.Load()
}

// QueueLen returns the number of pending messages.
func (e *Engine) QueueLen() int {
	return e.queue.Len()
}

// process dispatches one message. Called only from Run.
func (e *Engine) process(msg ir.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during dispatch: %v", r)
		}
	}()
	defer e.processed.Add(1)

	e.dispatcher.Dispatch(msg)
	return nil
}

// logMessageError records enough of the failed message to reproduce it.
func logMessageError(logger *slog.Logger, msg ir.Message, err error) {
	attrs := []any{"error", err}
	if msg == nil {
		logger.Error("message processing failed", attrs...)
		return
	}
	attrs = append(attrs, "message", msg.Kind())
	if data, mErr := ir.MarshalMessage(msg); mErr == nil {
		attrs = append(attrs, "payload", string(data))
	}
	logger.Error("message processing failed", attrs...)
}
