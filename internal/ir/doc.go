// Package ir holds the immutable value types of the list core: Item,
// Overlay, AppState, and the two transition vocabularies Change and Message.
//
// This package contains types and pure functions only. All other internal
// packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Tagged variants (Overlay, Change, Message) are sealed interfaces with an
//     unexported marker method, so every switch over them is exhaustive
//   - AppState is never mutated; every transition returns a new value
//   - NO float types anywhere - positions are integer cells
//   - All JSON tags use snake_case
package ir
