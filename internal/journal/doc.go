// Package journal records applied changes in SQLite for diagnostics.
//
// A journal is a trace, not a persistence layer: the application never
// restores its state from it. Each session stores its seed state and every
// change applied after it, together with the hash of the resulting state,
// so a session can be replayed and checked for determinism.
//
// # Ordering
//
// All ordering uses the store's logical seq, never timestamps. Reads use
// ORDER BY seq ASC (changes) and ORDER BY created_seq ASC, id ASC COLLATE
// BINARY (sessions) so results are identical across runs.
//
// # Idempotency
//
// Writes use ON CONFLICT DO NOTHING. Recording the same change twice is a
// no-op.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package journal
