package testutil

import (
	"strings"
	"testing"

	"github.com/roach88/entrada/internal/ir"
)

// Item builds an item.
func Item(id, name string) ir.Item {
	return ir.Item{ID: ir.ItemID(id), Name: name}
}

// Items parses "id:name" pairs. A pair without a colon uses the same
// string for both.
func Items(pairs ...string) []ir.Item {
	items := make([]ir.Item, len(pairs))
	for i, p := range pairs {
		id, name, ok := strings.Cut(p, ":")
		if !ok {
			name = id
		}
		items[i] = Item(id, name)
	}
	return items
}

// State builds an overlay-free state from "id:name" pairs and fails the
// test on duplicate IDs.
func State(t testing.TB, pairs ...string) ir.AppState {
	t.Helper()
	st, err := ir.NewAppState(Items(pairs...), nil)
	if err != nil {
		t.Fatalf("build state: %v", err)
	}
	return st
}

// StateHash returns the canonical hash of st and fails the test on error.
func StateHash(t testing.TB, st ir.AppState) string {
	t.Helper()
	h, err := ir.StateHash(st)
	if err != nil {
		t.Fatalf("hash state: %v", err)
	}
	return h
}

// IDs returns the storage order of st.
func IDs(st ir.AppState) []string {
	items := st.Items()
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = string(it.ID)
	}
	return ids
}
