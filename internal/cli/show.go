package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/entrada/internal/projection"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	seed seedFlags
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the seeded list in display order",
		Long: `Build the startup state from the seed settings and print its projection.

Examples:
  entrada show
  entrada show --count 5 --prefix "Row "
  entrada show --ids sequential --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, cmd)
		},
	}

	opts.seed.register(cmd)
	return cmd
}

func runShow(opts *ShowOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg := opts.Settings()
	opts.seed.apply(cmd, &cfg.Seed)

	initial, err := buildSeed(cfg.Seed)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to build seed", err)
	}

	view := newViewResult(projection.Derive(initial))
	if formatter.JSON() {
		return formatter.Success(view)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%d item(s)\n", len(view.Items))
	writeViewText(w, view, opts.Verbose)
	return nil
}
