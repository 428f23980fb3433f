// Package harness runs list-core scenarios as executable tests.
//
// A scenario seeds a store, dispatches a sequence of messages through the
// real dispatcher, and asserts on the resulting state, the display
// projection, and the observer notifications.
//
// # Scenario Format
//
// Scenarios are YAML or CUE files with the following structure:
//
//	name: rename_moves_to_end
//	description: "Editing an item moves it to the end of storage order"
//	seed:
//	  items:
//	    - { id: a, name: Bravo }
//	    - { id: b, name: alpha }
//	steps:
//	  - edit: { id: a, name: Charlie }
//	  - add_overlay:
//	      item: { id: b, name: alpha }
//	      x: 10
//	      "y": 4
//	    nested:
//	      - edit: { id: c, name: Delta }
//	assertions:
//	  - type: state_order
//	    ids: [b, a, c]
//	  - type: display_order
//	    names: [Charlie, Delta, alpha]
//	  - type: overlay
//	    item: b
//
// A seed gives either explicit items or count (with optional prefix); count
// seeds use sequential IDs item-0, item-1, ... so runs are reproducible.
//
// A step's nested steps are dispatched from inside the first observer
// notified for that step, exercising reentrant Apply.
//
// # Assertion Types
//
//   - state_order: item IDs in storage order
//   - display_order: item names in projection order
//   - overlay: overlay item ID, or none: true
//   - item_count: number of items
//   - unique_ids: no ID appears twice
//   - notifications: number of calls seen by an observer registered last
//
// Every file is validated against an embedded CUE schema before it is
// decoded.
//
// # Determinism
//
// Each run uses a fresh store and a private in-memory journal. After the
// steps run, the journal session is replayed and any hash mismatch fails the
// scenario.
package harness
