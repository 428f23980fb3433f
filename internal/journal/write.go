package journal

import (
	"context"
	"fmt"

	"github.com/roach88/entrada/internal/ir"
)

// BeginSession records a new session for seed starting at seq 0.
func (j *Journal) BeginSession(ctx context.Context, seed ir.AppState) (Session, error) {
	sess, err := NewSession(seed, 0)
	if err != nil {
		return Session{}, err
	}
	if err := j.WriteSession(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// WriteSession inserts a session record. Duplicate IDs are ignored.
func (j *Journal) WriteSession(ctx context.Context, sess Session) error {
	seedJSON, err := ir.MarshalState(sess.Seed)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO sessions
		(id, seed, seed_hash, created_seq, core_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		sess.ID,
		string(seedJSON),
		sess.SeedHash,
		sess.CreatedSeq,
		sess.CoreVersion,
		sess.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// WriteChange inserts a change record. Re-recording the same change is
// silently ignored. The session must already exist (foreign key).
func (j *Journal) WriteChange(ctx context.Context, e Entry) error {
	payload, err := ir.MarshalChange(e.Change)
	if err != nil {
		return fmt.Errorf("write change: %w", err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO changes
		(session_id, seq, id, kind, payload, state_hash, item_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		e.SessionID,
		e.Seq,
		e.ID,
		e.Kind(),
		string(payload),
		e.StateHash,
		e.ItemCount,
	)
	if err != nil {
		return fmt.Errorf("write change: %w", err)
	}
	return nil
}
