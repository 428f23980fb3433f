package journal

import (
	"context"

	"github.com/roach88/entrada/internal/ir"
)

// Recorder writes every change applied to a store into one session. It
// implements store.Recorder.
type Recorder struct {
	ctx     context.Context
	journal *Journal
	session Session
}

// NewRecorder returns a recorder for session. ctx bounds every write.
func NewRecorder(ctx context.Context, j *Journal, session Session) *Recorder {
	return &Recorder{ctx: ctx, journal: j, session: session}
}

// Record journals change applied at seq.
func (r *Recorder) Record(seq int64, change ir.Change, next ir.AppState) error {
	e, err := NewEntry(r.session.ID, seq, change, next)
	if err != nil {
		return err
	}
	return r.journal.WriteChange(r.ctx, e)
}

// Session returns the session being recorded.
func (r *Recorder) Session() Session {
	return r.session
}
