package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/entrada/internal/harness"
)

// FileValidation is the validation outcome for one scenario file.
type FileValidation struct {
	File  string `json:"file"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file|dir>...",
		Short: "Validate scenario files without running them",
		Long: `Check scenario files against the scenario schema and consistency rules.

Directories are searched for .yaml, .yml and .cue files. Nothing is run.

Exit codes:
  0 - All files valid
  1 - One or more files invalid
  2 - Command error (path not found, no scenario files)`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	files, err := collectScenarioFiles(paths)
	if err != nil {
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", ErrCodeNotFound, err))
	}
	if len(files) == 0 {
		msg := "no scenario files found"
		_ = formatter.Error(ErrCodeNoScenarios, msg, paths)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", ErrCodeNoScenarios, msg))
	}

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(files))}
	for _, f := range files {
		formatter.VerboseLog("Validating %s", f)
		fv := FileValidation{File: f, Valid: true}
		if err := harness.ValidateFile(f); err != nil {
			fv.Valid = false
			fv.Error = err.Error()
			result.Valid = false
		}
		result.Files = append(result.Files, fv)
	}

	invalid := 0
	for _, fv := range result.Files {
		if !fv.Valid {
			invalid++
		}
	}

	if formatter.JSON() {
		resp := CLIResponse{Status: "ok", Data: result}
		if !result.Valid {
			resp.Status = "error"
			resp.Error = &CLIError{Code: ErrCodeSchema, Message: fmt.Sprintf("%d file(s) invalid", invalid)}
		}
		if err := formatter.Encode(resp); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		for _, fv := range result.Files {
			if fv.Valid {
				fmt.Fprintf(w, "✓ %s\n", fv.File)
			} else {
				fmt.Fprintf(w, "✗ %s\n  %s: %s\n", fv.File, ErrCodeSchema, fv.Error)
			}
		}
		if result.Valid {
			fmt.Fprintln(w, "✓ All scenarios valid")
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed for %d file(s)", invalid))
	}
	return nil
}

// collectScenarioFiles expands directories into their scenario files.
// Plain file arguments are kept whatever their extension.
func collectScenarioFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("path not found: %s", p)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		found, err := findScenarioFiles(p, "")
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}
