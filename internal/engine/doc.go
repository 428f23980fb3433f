// Package engine funnels input messages from any goroutine into the
// single-threaded core.
//
// The store, dispatcher and projection hold no locks and must only be used
// from one goroutine. Input sources (stdin readers, file watchers, tests)
// call Enqueue from wherever they run; Run drains the FIFO queue on exactly
// one goroutine and is the only caller of Dispatch.
//
// Messages are processed one at a time in arrival order. A message is fully
// applied, including every observer notification, before the next one is
// dequeued.
package engine
