package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/doomhost/internal/engine"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Name   string `json:"name,omitempty"`
	Tics   int64  `json:"tics,omitempty"`
	Events int    `json:"events"`
	Total  int    `json:"total"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <script.cue>",
		Short: "Validate a damage script",
		Long: `Load a CUE damage script and check it against the script schema.

Exit codes:
  0 - Script is valid
  1 - Script does not satisfy the schema
  2 - Script could not be read`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	formatter.VerboseLog("Validating %s", path)
	script, err := engine.LoadScript(path)
	if err != nil {
		return outputValidateError(formatter, err)
	}

	result := ValidationResult{
		Valid:  true,
		Name:   script.Name,
		Tics:   script.Tics,
		Events: len(script.Damage),
		Total:  script.TotalDamage(),
	}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	return formatter.Success(fmt.Sprintf("✓ %s: %d tics, %d damage events, %d total",
		result.Name, result.Tics, result.Events, result.Total))
}

// outputValidateError reports a load failure. Unreadable files are command
// errors (exit 2); schema failures are validation failures (exit 1).
func outputValidateError(formatter *OutputFormatter, err error) error {
	code, message, pos := engine.ErrCodeGeneric, err.Error(), ""
	var se *engine.ScriptError
	if errors.As(err, &se) {
		code, message, pos = se.Code, se.Message, se.Pos
	}

	var details any
	if pos != "" {
		details = map[string]string{"pos": pos}
	}
	_ = formatter.Error(code, message, details)

	if code == engine.ErrCodeNotFound {
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", code, message))
}
