package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/entrada/internal/journal"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Journal string
	Session string // optional - specific session only
}

// ReplayMismatch is a change whose recomputed state hash differs.
type ReplayMismatch struct {
	Seq  int64  `json:"seq"`
	Want string `json:"want"`
	Got  string `json:"got"`
}

// ReplaySessionResult holds the replay result for a single session.
type ReplaySessionResult struct {
	Session       string           `json:"session"`
	Changes       int              `json:"changes"`
	FinalItems    int              `json:"final_items"`
	FinalHash     string           `json:"final_hash"`
	SeedMismatch  bool             `json:"seed_mismatch,omitempty"`
	Mismatches    []ReplayMismatch `json:"mismatches,omitempty"`
	Deterministic bool             `json:"deterministic"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Sessions         []ReplaySessionResult `json:"sessions"`
	TotalSessions    int                   `json:"total_sessions"`
	AllDeterministic bool                  `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a change journal and verify determinism",
		Long: `Fold every journalled change over its session's seed and compare each
recomputed state hash with the recorded one.

The journal is diagnostic: replay verifies it, it never restores state.

Exit codes:
  0 - Every session reproduced its recorded hashes
  1 - At least one session diverged
  2 - Command error (journal not found, unknown session, etc.)

Examples:
  entrada replay --journal ./entrada.db
  entrada replay --journal ./entrada.db --session 0190...
  entrada replay --journal ./entrada.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to SQLite change journal (default journal.path)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "replay specific session only")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	jr, err := openJournal(opts.Journal, opts.RootOptions)
	if err != nil {
		_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
		return err
	}
	defer jr.Close()

	var ids []string
	if opts.Session != "" {
		ids = []string{opts.Session}
	} else {
		sessions, err := jr.ReadSessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		for _, s := range sessions {
			ids = append(ids, s.ID)
		}
	}

	result := ReplayResult{
		Sessions:         make([]ReplaySessionResult, 0, len(ids)),
		TotalSessions:    len(ids),
		AllDeterministic: true,
	}
	for _, id := range ids {
		report, err := jr.Replay(ctx, id)
		if errors.Is(err, journal.ErrSessionNotFound) {
			_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
			return WrapExitError(ExitCommandError, "unknown session", err)
		}
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay session %s", id), err)
		}
		sr := newReplaySessionResult(report)
		if !sr.Deterministic {
			result.AllDeterministic = false
		}
		result.Sessions = append(result.Sessions, sr)
	}

	if formatter.JSON() {
		return outputReplayJSON(formatter, result)
	}
	return outputReplayText(cmd.OutOrStdout(), result, opts.Verbose)
}

func newReplaySessionResult(r journal.ReplayReport) ReplaySessionResult {
	sr := ReplaySessionResult{
		Session:       r.SessionID,
		Changes:       r.Changes,
		FinalItems:    r.Final.Len(),
		FinalHash:     r.FinalHash,
		SeedMismatch:  r.SeedMismatch,
		Deterministic: r.OK(),
	}
	for _, m := range r.Mismatches {
		sr.Mismatches = append(sr.Mismatches, ReplayMismatch{Seq: m.Seq, Want: m.Want, Got: m.Got})
	}
	return sr
}

func outputReplayJSON(formatter *OutputFormatter, result ReplayResult) error {
	resp := CLIResponse{Status: "ok", Data: result}
	if !result.AllDeterministic {
		resp.Status = "error"
		resp.Error = &CLIError{Code: ErrCodeReplay, Message: "determinism verification failed"}
	}
	if err := formatter.Encode(resp); err != nil {
		return err
	}
	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

func outputReplayText(w io.Writer, result ReplayResult, verbose bool) error {
	if result.TotalSessions == 0 {
		fmt.Fprintln(w, "No sessions found in journal.")
		return nil
	}

	fmt.Fprintf(w, "Replay Summary: %d session(s)\n", result.TotalSessions)
	fmt.Fprintln(w)

	for _, s := range result.Sessions {
		status := "✓"
		if !s.Deterministic {
			status = "✗"
		}
		fmt.Fprintf(w, "%s Session: %s\n", status, s.Session)
		fmt.Fprintf(w, "  Changes: %d, final items: %d\n", s.Changes, s.FinalItems)
		if verbose {
			fmt.Fprintf(w, "  Final hash: %s\n", s.FinalHash)
		}
		if s.SeedMismatch {
			fmt.Fprintln(w, "  Seed hash does not match recorded seed")
		}
		for _, m := range s.Mismatches {
			fmt.Fprintf(w, "  [%d] want %s, got %s\n", m.Seq, truncateID(m.Want), truncateID(m.Got))
		}
		fmt.Fprintln(w)
	}

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All sessions verified deterministic")
		return nil
	}
	fmt.Fprintln(w, "✗ Determinism verification failed")
	return NewExitError(ExitFailure, "determinism verification failed")
}
