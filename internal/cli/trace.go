package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/entrada/internal/ir"
	"github.com/roach88/entrada/internal/journal"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Journal string
	Session string // optional - list sessions when empty
	Kind    string // optional - filter to one change kind
}

// SessionSummary describes one journalled session.
type SessionSummary struct {
	ID          string         `json:"id"`
	CreatedSeq  int64          `json:"created_seq"`
	SeedItems   int            `json:"seed_items"`
	SeedHash    string         `json:"seed_hash"`
	CoreVersion string         `json:"core_version"`
	Changes     map[string]int `json:"changes"`
}

// TraceEvent is one change in the trace timeline.
type TraceEvent struct {
	Seq       int64        `json:"seq"`
	ID        string       `json:"id"`
	Kind      string       `json:"kind"`
	Item      *ItemView    `json:"item,omitempty"`
	Overlay   *OverlayView `json:"overlay,omitempty"`
	StateHash string       `json:"state_hash"`
	ItemCount int          `json:"item_count"`
}

// TraceResult holds the trace of one session.
type TraceResult struct {
	Session  SessionSummary `json:"session"`
	Timeline []TraceEvent   `json:"timeline"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show journalled changes",
		Long: `List the sessions in a change journal, or the timeline of one session.

Each timeline entry shows the change, the hash of the state it produced and
the resulting item count.

Examples:
  entrada trace --journal ./entrada.db
  entrada trace --journal ./entrada.db --session 0190...
  entrada trace --journal ./entrada.db --session 0190... --kind add_overlay --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to SQLite change journal (default journal.path)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session to trace")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "filter to one change kind (edit|add_overlay)")

	return cmd
}

// openJournal resolves the journal path from the flag or config and opens
// an existing journal.
func openJournal(flagPath string, opts *RootOptions) (*journal.Journal, error) {
	path := flagPath
	if path == "" {
		path = opts.Settings().Journal.Path
	}
	if path == "" {
		return nil, NewExitError(ExitCommandError, "no journal: pass --journal or set journal.path")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("journal not found: %s", path))
	}
	jr, err := journal.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	return jr, nil
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Kind != "" && opts.Kind != ir.KindEdit && opts.Kind != ir.KindAddOverlay {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid kind %q: must be %s or %s", opts.Kind, ir.KindEdit, ir.KindAddOverlay))
	}

	jr, err := openJournal(opts.Journal, opts.RootOptions)
	if err != nil {
		_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
		return err
	}
	defer jr.Close()

	if opts.Session == "" {
		return listSessions(ctx, jr, formatter, cmd.OutOrStdout())
	}

	sess, err := jr.ReadSession(ctx, opts.Session)
	if errors.Is(err, journal.ErrSessionNotFound) {
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "unknown session", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}

	summary, err := summarizeSession(ctx, jr, sess)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to count changes", err)
	}
	entries, err := jr.ReadChanges(ctx, sess.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read changes", err)
	}

	result := TraceResult{Session: summary, Timeline: buildTimeline(entries, opts.Kind)}
	if formatter.JSON() {
		return formatter.Success(result)
	}
	writeTraceText(cmd.OutOrStdout(), result, opts.Verbose)
	return nil
}

func summarizeSession(ctx context.Context, jr *journal.Journal, sess journal.Session) (SessionSummary, error) {
	counts, err := jr.CountChanges(ctx, sess.ID)
	if err != nil {
		return SessionSummary{}, err
	}
	return SessionSummary{
		ID:          sess.ID,
		CreatedSeq:  sess.CreatedSeq,
		SeedItems:   sess.Seed.Len(),
		SeedHash:    sess.SeedHash,
		CoreVersion: sess.CoreVersion,
		Changes:     counts,
	}, nil
}

func listSessions(ctx context.Context, jr *journal.Journal, formatter *OutputFormatter, w io.Writer) error {
	sessions, err := jr.ReadSessions(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read sessions", err)
	}

	summaries := make([]SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		s, err := summarizeSession(ctx, jr, sess)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to count changes", err)
		}
		summaries = append(summaries, s)
	}

	if formatter.JSON() {
		return formatter.Success(summaries)
	}
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No sessions found in journal.")
		return nil
	}
	fmt.Fprintf(w, "%d session(s)\n", len(summaries))
	for _, s := range summaries {
		fmt.Fprintf(w, "  %s  seed=%d items  edits=%d  overlays=%d\n",
			s.ID, s.SeedItems, s.Changes[ir.KindEdit], s.Changes[ir.KindAddOverlay])
	}
	return nil
}

// buildTimeline converts journal entries to trace events, keeping only
// kind when it is set.
func buildTimeline(entries []journal.Entry, kind string) []TraceEvent {
	timeline := []TraceEvent{}
	for _, e := range entries {
		if kind != "" && e.Kind() != kind {
			continue
		}
		ev := TraceEvent{
			Seq:       e.Seq,
			ID:        e.ID,
			Kind:      e.Kind(),
			StateHash: e.StateHash,
			ItemCount: e.ItemCount,
		}
		switch c := e.Change.(type) {
		case ir.EditChange:
			item := newItemView(c.Item)
			ev.Item = &item
		case ir.AddOverlayChange:
			ev.Overlay = newOverlayView(c.Overlay)
		}
		timeline = append(timeline, ev)
	}
	return timeline
}

func writeTraceText(w io.Writer, result TraceResult, verbose bool) {
	s := result.Session
	fmt.Fprintf(w, "Trace for Session: %s\n", s.ID)
	fmt.Fprintf(w, "Seed: %d item(s) %s\n", s.SeedItems, truncateID(s.SeedHash))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Timeline ===")
	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "  (no changes)")
	}
	for _, ev := range result.Timeline {
		switch {
		case ev.Item != nil:
			fmt.Fprintf(w, "  [%d] EDIT %s %q -> %d item(s)\n", ev.Seq, ev.Item.ID, ev.Item.Name, ev.ItemCount)
		case ev.Overlay != nil:
			fmt.Fprintf(w, "  [%d] OVERLAY %s %s at (%d, %d)\n", ev.Seq, ev.Overlay.Type, ev.Overlay.Item.ID, ev.Overlay.X, ev.Overlay.Y)
		}
		if verbose {
			fmt.Fprintf(w, "       ID: %s\n", truncateID(ev.ID))
			fmt.Fprintf(w, "       State: %s\n", truncateID(ev.StateHash))
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Edits:    %d\n", s.Changes[ir.KindEdit])
	fmt.Fprintf(w, "  Overlays: %d\n", s.Changes[ir.KindAddOverlay])
}

// truncateID truncates a long ID or hash for display.
func truncateID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:8] + "..." + id[len(id)-8:]
}
