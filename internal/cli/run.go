package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/entrada/internal/dispatch"
	"github.com/roach88/entrada/internal/engine"
	"github.com/roach88/entrada/internal/ir"
	"github.com/roach88/entrada/internal/journal"
	"github.com/roach88/entrada/internal/projection"
	"github.com/roach88/entrada/internal/store"
)

// maxMessageSize bounds one NDJSON input line.
const maxMessageSize = 1 << 20

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Input   string // "" or "-" reads stdin
	Journal string
	seed    seedFlags
}

// RejectedLine is an input line that did not decode to a message.
type RejectedLine struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

// RunResult is the output of the run command.
type RunResult struct {
	Session   string         `json:"session,omitempty"`
	Processed int64          `json:"processed"`
	Version   int64          `json:"version"`
	Rejected  []RejectedLine `json:"rejected,omitempty"`
	View      ViewResult     `json:"view"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Apply NDJSON messages to the seeded store",
		Long: `Seed the store, feed it messages, and print the final projection.

Each input line is one JSON message:
  {"type":"edit","item":{"id":"item-3","name":"Renamed"}}
  {"type":"add_overlay","overlay":{"type":"editing_item","item":{"id":"item-3","name":"Renamed"},"position":{"x":0,"y":2}}}

Messages are applied in input order by a single engine goroutine. Lines that
do not decode are reported and skipped. With --journal every applied change
is recorded for later trace and replay.

Exit codes:
  0 - All lines applied
  1 - One or more lines rejected
  2 - Command error (unreadable input, journal failure, etc.)

Examples:
  entrada run < messages.ndjson
  entrada run --input messages.ndjson --journal ./entrada.db
  entrada run --count 3 --ids sequential --format json < messages.ndjson`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "NDJSON message file (default stdin)")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to SQLite change journal (overrides journal.path)")
	opts.seed.register(cmd)

	return cmd
}

func runApp(opts *RunOptions, cmd *cobra.Command) error {
	logger := opts.Logger()
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg := opts.Settings()
	opts.seed.apply(cmd, &cfg.Seed)
	if cmd.Flags().Changed("journal") {
		cfg.Journal.Path = opts.Journal
	}

	input, closeInput, err := openInput(opts.Input, cmd.InOrStdin())
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open input", err)
	}
	defer closeInput()

	initial, err := buildSeed(cfg.Seed)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to build seed", err)
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	storeOpts := []store.Option{store.WithLogger(logger)}
	var result RunResult

	if cfg.Journal.Path != "" {
		logger.Info("opening journal", "path", cfg.Journal.Path)
		jr, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer func() {
			if closeErr := jr.Close(); closeErr != nil {
				logger.Error("error closing journal", "error", closeErr)
			}
		}()

		sess, err := jr.BeginSession(ctx, initial)
		if err != nil {
			_ = formatter.Error(ErrCodeJournal, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to begin journal session", err)
		}
		result.Session = sess.ID
		storeOpts = append(storeOpts, store.WithRecorder(journal.NewRecorder(ctx, jr, sess)))
	}

	st := store.New(initial, storeOpts...)
	proj := projection.New(st)
	defer proj.Close()
	eng := engine.New(dispatch.New(st, dispatch.WithLogger(logger)), engine.WithLogger(logger))

	done := make(chan error, 1)
	go func() { done <- eng.Run(ctx) }()

	rejected, readErr := feedMessages(ctx, input, eng, logger.Warn)
	eng.Stop()
	runErr := <-done

	if readErr != nil {
		_ = formatter.Error(ErrCodeInvalidInput, readErr.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read input", readErr)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return WrapExitError(ExitFailure, "engine error", runErr)
	}

	result.Processed = eng.Processed()
	result.Version = st.Version()
	result.Rejected = rejected
	result.View = newViewResult(proj.View())

	if formatter.JSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		writeRunText(cmd.OutOrStdout(), result, opts.Verbose)
	}

	if len(rejected) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d input line(s) rejected", len(rejected)))
	}
	return nil
}

// openInput returns the message source: path, or stdin for "" and "-".
func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

// feedMessages decodes each non-blank line and enqueues it. Lines that do
// not decode are returned as rejected; a read error aborts. It returns as
// soon as ctx is done, even while a read is blocked.
func feedMessages(ctx context.Context, r io.Reader, eng *engine.Engine, warn func(string, ...any)) ([]RejectedLine, error) {
	lines := make(chan []byte)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)
		for scanner.Scan() {
			select {
			case lines <- bytes.Clone(scanner.Bytes()):
			case <-stop:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	var rejected []RejectedLine
	line := 0
	for {
		select {
		case <-ctx.Done():
			return rejected, nil
		case raw, ok := <-lines:
			if !ok {
				return rejected, <-readErr
			}
			line++
			data := bytes.TrimSpace(raw)
			if len(data) == 0 {
				continue
			}
			msg, err := ir.UnmarshalMessage(data)
			if err != nil {
				warn("input line rejected", "line", line, "error", err)
				rejected = append(rejected, RejectedLine{Line: line, Error: err.Error()})
				continue
			}
			if !eng.Enqueue(msg) {
				return rejected, nil
			}
		}
	}
}

func writeRunText(w io.Writer, result RunResult, verbose bool) {
	fmt.Fprintf(w, "Applied %d message(s), version %d\n", result.Processed, result.Version)
	if result.Session != "" {
		fmt.Fprintf(w, "Journal session: %s\n", result.Session)
	}
	for _, r := range result.Rejected {
		fmt.Fprintf(w, "✗ line %d: %s\n", r.Line, r.Error)
	}
	fmt.Fprintln(w)
	writeViewText(w, result.View, verbose)
}
