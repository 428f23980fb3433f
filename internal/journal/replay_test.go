package journal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/entrada/internal/ir"
	"github.com/roach88/entrada/internal/store"
	"github.com/roach88/entrada/internal/testutil"
)

func recordSession(t *testing.T, j *Journal, changes ...ir.Change) (Session, *store.Store) {
	t.Helper()
	ctx := context.Background()
	sess, err := j.BeginSession(ctx, testSeed())
	require.NoError(t, err)

	s := store.New(testSeed(),
		store.WithLogger(testutil.DiscardLogger()),
		store.WithRecorder(NewRecorder(ctx, j, sess)),
	)
	for _, c := range changes {
		s.Apply(c)
	}
	return sess, s
}

func TestRecorder_JournalsStoreChanges(t *testing.T) {
	j := createTestJournal(t)
	sess, s := recordSession(t, j,
		ir.EditChange{Item: ir.Item{ID: "a", Name: "Alpha 2"}},
		ir.AddOverlayChange{Overlay: ir.EditingItem{Item: ir.Item{ID: "b", Name: "Bravo"}, Position: ir.Point{X: 1, Y: 2}}},
	)

	entries, err := j.ReadChanges(context.Background(), sess.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ir.KindEdit, entries[0].Kind())
	assert.Equal(t, ir.KindAddOverlay, entries[1].Kind())
	assert.Equal(t, testutil.StateHash(t, s.CurrentState()), entries[1].StateHash)
	assert.Equal(t, 2, entries[1].ItemCount)
}

func TestReplay_Deterministic(t *testing.T) {
	j := createTestJournal(t)
	sess, s := recordSession(t, j,
		ir.EditChange{Item: ir.Item{ID: "a", Name: "Alpha 2"}},
		ir.EditChange{Item: ir.Item{ID: "c", Name: "Charlie"}},
		ir.AddOverlayChange{Overlay: ir.EditingItem{Item: ir.Item{ID: "c", Name: "Charlie"}}},
	)

	report, err := j.Replay(context.Background(), sess.ID)
	require.NoError(t, err)

	assert.True(t, report.OK())
	assert.Equal(t, 3, report.Changes)
	assert.True(t, report.Final.Equal(s.CurrentState()))
	assert.Equal(t, testutil.StateHash(t, s.CurrentState()), report.FinalHash)
}

func TestReplay_DetectsTamperedHash(t *testing.T) {
	j := createTestJournal(t)
	sess, _ := recordSession(t, j,
		ir.EditChange{Item: ir.Item{ID: "a", Name: "Alpha 2"}},
		ir.EditChange{Item: ir.Item{ID: "b", Name: "Bravo 2"}},
	)

	_, err := j.db.Exec(`UPDATE changes SET state_hash = 'bogus' WHERE session_id = ? AND seq = 2`, sess.ID)
	require.NoError(t, err)

	report, err := j.Replay(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.False(t, report.OK())
	require.Len(t, report.Mismatches, 1)
	assert.Equal(t, int64(2), report.Mismatches[0].Seq)
	assert.Equal(t, "bogus", report.Mismatches[0].Want)
}

func TestReplay_EmptySession(t *testing.T) {
	j := createTestJournal(t)
	sess, _ := recordSession(t, j)

	report, err := j.Replay(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 0, report.Changes)
	assert.Equal(t, sess.SeedHash, report.FinalHash)
}

func TestReplay_UnknownSession(t *testing.T) {
	j := createTestJournal(t)
	_, err := j.Replay(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
