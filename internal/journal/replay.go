package journal

import (
	"context"
	"fmt"

	"github.com/roach88/entrada/internal/ir"
)

// Mismatch is a journalled change whose recomputed state hash differs from
// the recorded one.
type Mismatch struct {
	Seq  int64
	Want string
	Got  string
}

// ReplayReport is the outcome of replaying one session.
type ReplayReport struct {
	SessionID    string
	Changes      int
	SeedMismatch bool
	Mismatches   []Mismatch
	Final        ir.AppState
	FinalHash    string
}

// OK reports whether the replay reproduced every recorded hash.
func (r ReplayReport) OK() bool {
	return !r.SeedMismatch && len(r.Mismatches) == 0
}

// Replay folds the session's changes over its seed with AppState.Apply and
// compares each resulting state hash against the recorded one. Mismatches
// are reported, not returned as errors; an error means the journal could not
// be read.
func (j *Journal) Replay(ctx context.Context, sessionID string) (ReplayReport, error) {
	sess, err := j.ReadSession(ctx, sessionID)
	if err != nil {
		return ReplayReport{}, fmt.Errorf("replay: %w", err)
	}
	entries, err := j.ReadChanges(ctx, sessionID)
	if err != nil {
		return ReplayReport{}, fmt.Errorf("replay: %w", err)
	}

	report := ReplayReport{SessionID: sessionID, Changes: len(entries)}

	state := sess.Seed
	hash, err := ir.StateHash(state)
	if err != nil {
		return ReplayReport{}, fmt.Errorf("replay: %w", err)
	}
	report.SeedMismatch = hash != sess.SeedHash

	for _, e := range entries {
		state = state.Apply(e.Change)
		if hash, err = ir.StateHash(state); err != nil {
			return ReplayReport{}, fmt.Errorf("replay seq %d: %w", e.Seq, err)
		}
		if hash != e.StateHash {
			report.Mismatches = append(report.Mismatches, Mismatch{Seq: e.Seq, Want: e.StateHash, Got: hash})
		}
	}

	report.Final = state
	report.FinalHash = hash
	return report, nil
}
