// Package store holds the single authoritative AppState and notifies
// observers after every applied change.
//
// A Store is a value owned by its caller; there is no package-level
// instance. Apply replaces the held snapshot with current.Apply(change),
// stamps it with the next logical-clock seq, hands it to the optional
// Recorder, and then calls every registered observer synchronously in
// registration order. Observers take no argument and pull CurrentState.
//
// # Reentrancy
//
// An observer may call Apply. The nested call replaces the state and runs
// its own notification pass to completion before returning, so observers
// later in the outer pass read the newest state, not the state that
// triggered the outer pass. Depth reports the current nesting level.
//
// # Registry changes during notification
//
// Each notification pass walks a snapshot of the registry taken when the
// pass starts. An observer unsubscribed during a pass is skipped if it has
// not been called yet. An observer subscribed during a pass is first called
// by the next Apply.
//
// A Store is not safe for concurrent use. Writers on other goroutines must
// go through a single consumer such as internal/engine.
package store
