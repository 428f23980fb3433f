package journal

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/entrada/internal/ir"
)

// ErrSessionNotFound is returned when a session ID is not in the journal.
var ErrSessionNotFound = errors.New("session not found")

// Session is one recorded run: the seed state and the store seq it started
// from.
type Session struct {
	ID          string
	Seed        ir.AppState
	SeedHash    string
	CreatedSeq  int64
	CoreVersion string
	IRVersion   string
}

// NewSession builds a session for seed with a fresh UUIDv7 id.
func NewSession(seed ir.AppState, createdSeq int64) (Session, error) {
	return newSession(uuid.Must(uuid.NewV7()).String(), seed, createdSeq)
}

func newSession(id string, seed ir.AppState, createdSeq int64) (Session, error) {
	hash, err := ir.StateHash(seed)
	if err != nil {
		return Session{}, fmt.Errorf("new session: %w", err)
	}
	return Session{
		ID:          id,
		Seed:        seed,
		SeedHash:    hash,
		CreatedSeq:  createdSeq,
		CoreVersion: ir.CoreVersion,
		IRVersion:   ir.IRVersion,
	}, nil
}

// Entry is one journalled change and the state it produced.
type Entry struct {
	SessionID string
	Seq       int64
	ID        string
	Change    ir.Change
	StateHash string
	ItemCount int
}

// Kind returns the change's type tag.
func (e Entry) Kind() string {
	if e.Change == nil {
		return ""
	}
	return e.Change.Kind()
}

// NewEntry describes change, applied at seq within session, producing next.
func NewEntry(sessionID string, seq int64, change ir.Change, next ir.AppState) (Entry, error) {
	id, err := ir.ChangeID(sessionID, seq, change)
	if err != nil {
		return Entry{}, fmt.Errorf("new entry: %w", err)
	}
	hash, err := ir.StateHash(next)
	if err != nil {
		return Entry{}, fmt.Errorf("new entry: %w", err)
	}
	return Entry{
		SessionID: sessionID,
		Seq:       seq,
		ID:        id,
		Change:    change,
		StateHash: hash,
		ItemCount: next.Len(),
	}, nil
}
