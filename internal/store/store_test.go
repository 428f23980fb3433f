package store

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/entrada/internal/ir"
	"github.com/roach88/entrada/internal/testutil"
)

func newTestStore(t *testing.T, items ...ir.Item) *Store {
	t.Helper()
	initial, err := ir.NewAppState(items, nil)
	require.NoError(t, err)
	return New(initial, WithLogger(testutil.DiscardLogger()))
}

func edit(id, name string) ir.Change {
	return ir.EditChange{Item: ir.Item{ID: ir.ItemID(id), Name: name}}
}

func TestStore_CurrentStateInitial(t *testing.T) {
	s := newTestStore(t, ir.Item{ID: "a", Name: "A"})
	assert.Equal(t, 1, s.CurrentState().Len())
	assert.Equal(t, int64(0), s.Version())
	assert.Equal(t, 0, s.Depth())
}

func TestStore_ApplyReplacesState(t *testing.T) {
	s := newTestStore(t, ir.Item{ID: "a", Name: "A"}, ir.Item{ID: "b", Name: "B"})
	before := s.CurrentState()

	s.Apply(edit("a", "A2"))

	after := s.CurrentState()
	assert.Equal(t, []ir.Item{{ID: "b", Name: "B"}, {ID: "a", Name: "A2"}}, after.Items())
	assert.Equal(t, []ir.Item{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}, before.Items(), "old snapshot must stay intact")
	assert.Equal(t, int64(1), s.Version())
}

func TestStore_NotifiesInRegistrationOrder(t *testing.T) {
	s := newTestStore(t)
	var calls []string
	s.Subscribe(func() { calls = append(calls, "o1") })
	s.Subscribe(func() { calls = append(calls, "o2") })
	s.Subscribe(func() { calls = append(calls, "o3") })

	s.Apply(edit("a", "A"))
	assert.Equal(t, []string{"o1", "o2", "o3"}, calls)

	s.Apply(edit("b", "B"))
	assert.Equal(t, []string{"o1", "o2", "o3", "o1", "o2", "o3"}, calls)
}

func TestStore_ObserversSeeNewState(t *testing.T) {
	s := newTestStore(t)
	var seen []int
	s.Subscribe(func() { seen = append(seen, s.CurrentState().Len()) })

	s.Apply(edit("a", "A"))
	s.Apply(edit("b", "B"))
	s.Apply(edit("a", "A again"))

	assert.Equal(t, []int{1, 2, 2}, seen)
}

func TestStore_NoObservers(t *testing.T) {
	s := newTestStore(t)
	s.Apply(edit("a", "A"))
	assert.Equal(t, 1, s.CurrentState().Len())
}

func TestStore_DuplicateSubscriptionCalledTwice(t *testing.T) {
	s := newTestStore(t)
	n := 0
	obs := func() { n++ }
	s.Subscribe(obs)
	s.Subscribe(obs)

	s.Apply(edit("a", "A"))
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, s.Observers())
}

func TestStore_NilChangeDropped(t *testing.T) {
	s := newTestStore(t)
	n := 0
	s.Subscribe(func() { n++ })

	s.Apply(nil)

	assert.Equal(t, 0, n)
	assert.Equal(t, int64(0), s.Version())
}

func TestStore_OverlayChangeWithoutOverlayDropped(t *testing.T) {
	ov := ir.EditingItem{Item: ir.Item{ID: "a", Name: "A"}}
	initial := ir.MustAppState([]ir.Item{{ID: "a", Name: "A"}}, ov)
	recorded := 0
	rec := RecorderFunc(func(int64, ir.Change, ir.AppState) error {
		recorded++
		return nil
	})
	s := New(initial, WithLogger(testutil.DiscardLogger()), WithRecorder(rec))
	n := 0
	s.Subscribe(func() { n++ })

	s.Apply(ir.AddOverlayChange{})

	assert.True(t, s.CurrentState().HasOverlay())
	assert.Equal(t, ir.Overlay(ov), s.CurrentState().Overlay())
	assert.Equal(t, int64(0), s.Version())
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, recorded)
}

func TestStore_Unsubscribe(t *testing.T) {
	s := newTestStore(t)
	var calls []string
	s.Subscribe(func() { calls = append(calls, "o1") })
	sub := s.Subscribe(func() { calls = append(calls, "o2") })

	assert.True(t, s.Unsubscribe(sub))
	assert.False(t, s.Unsubscribe(sub), "second removal reports false")
	assert.False(t, s.Unsubscribe(Subscription{}))

	s.Apply(edit("a", "A"))
	assert.Equal(t, []string{"o1"}, calls)
	assert.Equal(t, 1, s.Observers())
}

func TestStore_SubscribeNil(t *testing.T) {
	s := newTestStore(t)
	sub := s.Subscribe(nil)
	assert.True(t, sub.Valid())
	assert.Equal(t, 0, s.Observers())
	assert.False(t, s.Unsubscribe(sub))
}

// A nested Apply runs its whole notification pass before the outer pass
// continues; later outer observers read the nested result.
func TestStore_ReentrantApply(t *testing.T) {
	s := newTestStore(t)
	var log []string
	var depths []int

	s.Subscribe(func() {
		log = append(log, "o1:"+names(s.CurrentState()))
		depths = append(depths, s.Depth())
		if s.CurrentState().Len() == 1 {
			s.Apply(edit("b", "B"))
		}
	})
	s.Subscribe(func() {
		log = append(log, "o2:"+names(s.CurrentState()))
	})

	s.Apply(edit("a", "A"))

	assert.Equal(t, []string{
		"o1:A",
		"o1:A,B",
		"o2:A,B",
		"o2:A,B",
	}, log)
	assert.Equal(t, []int{1, 2}, depths)
	assert.Equal(t, 0, s.Depth())
	assert.Equal(t, int64(2), s.Version())
}

func TestStore_UnsubscribeDuringNotification(t *testing.T) {
	s := newTestStore(t)
	var calls []string
	var sub2 Subscription
	s.Subscribe(func() {
		calls = append(calls, "o1")
		s.Unsubscribe(sub2)
	})
	sub2 = s.Subscribe(func() { calls = append(calls, "o2") })
	s.Subscribe(func() { calls = append(calls, "o3") })

	s.Apply(edit("a", "A"))
	assert.Equal(t, []string{"o1", "o3"}, calls)
}

func TestStore_UnsubscribeSelfDuringNotification(t *testing.T) {
	s := newTestStore(t)
	n := 0
	var self Subscription
	self = s.Subscribe(func() {
		n++
		s.Unsubscribe(self)
	})

	s.Apply(edit("a", "A"))
	s.Apply(edit("b", "B"))
	assert.Equal(t, 1, n)
}

func TestStore_SubscribeDuringNotification(t *testing.T) {
	s := newTestStore(t)
	var calls []string
	added := false
	s.Subscribe(func() {
		calls = append(calls, "o1")
		if !added {
			added = true
			s.Subscribe(func() { calls = append(calls, "late") })
		}
	})

	s.Apply(edit("a", "A"))
	assert.Equal(t, []string{"o1"}, calls)

	s.Apply(edit("b", "B"))
	assert.Equal(t, []string{"o1", "o1", "late"}, calls)
}

func TestStore_Recorder(t *testing.T) {
	type record struct {
		seq  int64
		kind string
		n    int
	}
	var got []record
	rec := RecorderFunc(func(seq int64, c ir.Change, next ir.AppState) error {
		got = append(got, record{seq, c.Kind(), next.Len()})
		return nil
	})
	s := New(ir.AppState{}, WithLogger(testutil.DiscardLogger()), WithRecorder(rec))

	s.Apply(edit("a", "A"))
	s.Apply(ir.AddOverlayChange{Overlay: ir.EditingItem{Item: ir.Item{ID: "a", Name: "A"}}})

	assert.Equal(t, []record{
		{1, ir.KindEdit, 1},
		{2, ir.KindAddOverlay, 1},
	}, got)
}

func TestStore_RecorderErrorIsLoggedAndIgnored(t *testing.T) {
	logger, buf := testutil.CaptureLogger()
	rec := RecorderFunc(func(int64, ir.Change, ir.AppState) error {
		return errors.New("disk full")
	})
	s := New(ir.AppState{}, WithLogger(logger), WithRecorder(rec))
	n := 0
	s.Subscribe(func() { n++ })

	s.Apply(edit("a", "A"))

	assert.Equal(t, 1, s.CurrentState().Len())
	assert.Equal(t, 1, n, "observers still run")
	assert.Contains(t, buf.String(), "recorder failed")
	assert.Contains(t, buf.String(), "disk full")
}

func TestStore_WithClock(t *testing.T) {
	s := New(ir.AppState{}, WithLogger(testutil.DiscardLogger()), WithClock(NewClockAt(10)))
	s.Apply(edit("a", "A"))
	assert.Equal(t, int64(11), s.Version())
}

func names(st ir.AppState) string {
	var b bytes.Buffer
	for i, it := range st.Items() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(it.Name)
	}
	return b.String()
}
