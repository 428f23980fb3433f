package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/entrada/internal/ir"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const sessionColumns = `id, seed, seed_hash, created_seq, core_version, ir_version`

func scanSession(row scanner) (Session, error) {
	var (
		sess     Session
		seedJSON string
	)
	if err := row.Scan(
		&sess.ID,
		&seedJSON,
		&sess.SeedHash,
		&sess.CreatedSeq,
		&sess.CoreVersion,
		&sess.IRVersion,
	); err != nil {
		return Session{}, err
	}
	seed, err := ir.UnmarshalState([]byte(seedJSON))
	if err != nil {
		return Session{}, fmt.Errorf("session %s seed: %w", sess.ID, err)
	}
	sess.Seed = seed
	return sess, nil
}

// ReadSessions returns every session ordered by created_seq, then id.
// Returns an empty slice (not nil) for an empty journal.
func (j *Journal) ReadSessions(ctx context.Context) ([]Session, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		ORDER BY created_seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// ReadSession returns one session. Returns ErrSessionNotFound if absent.
func (j *Journal) ReadSession(ctx context.Context, id string) (Session, error) {
	row := j.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE id = ?
	`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}
	return sess, nil
}

// ReadChanges returns a session's changes in seq order. Returns an empty
// slice (not nil) if the session has none.
func (j *Journal) ReadChanges(ctx context.Context, sessionID string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT session_id, seq, id, payload, state_hash, item_count
		FROM changes
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query changes: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e       Entry
			payload string
		)
		if err := rows.Scan(&e.SessionID, &e.Seq, &e.ID, &payload, &e.StateHash, &e.ItemCount); err != nil {
			return nil, fmt.Errorf("scan change: %w", err)
		}
		if e.Change, err = ir.UnmarshalChange([]byte(payload)); err != nil {
			return nil, fmt.Errorf("change %d payload: %w", e.Seq, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate changes: %w", err)
	}
	return entries, nil
}

// CountChanges returns the number of changes in a session, by kind.
func (j *Journal) CountChanges(ctx context.Context, sessionID string) (map[string]int, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT kind, COUNT(*)
		FROM changes
		WHERE session_id = ?
		GROUP BY kind
		ORDER BY kind ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("count changes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			kind string
			n    int
		)
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[kind] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}
