package testutil

// FixedIDGenerator returns the same ID every time. Seeding more than one
// item with it produces a duplicate.
//
// Thread-safety: stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a fixed generator. An empty id becomes
// "fixed-id".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "fixed-id"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed ID.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}

// ListIDGenerator hands out a fixed list of IDs in order and panics when
// the list runs out.
type ListIDGenerator struct {
	ids  []string
	next int
}

// NewListIDGenerator creates a generator over ids.
func NewListIDGenerator(ids ...string) *ListIDGenerator {
	return &ListIDGenerator{ids: ids}
}

// Generate returns the next ID.
func (g *ListIDGenerator) Generate() string {
	if g.next >= len(g.ids) {
		panic("testutil: ListIDGenerator exhausted")
	}
	id := g.ids[g.next]
	g.next++
	return id
}
