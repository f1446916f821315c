package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/doomhost/internal/store"
)

// DamageOptions holds flags for the damage command.
type DamageOptions struct {
	*RootOptions
	Database string
	Session  string
}

// SessionReport summarizes one recorded session.
type SessionReport struct {
	Session string   `json:"session"`
	Script  string   `json:"script"`
	Args    []string `json:"args"`
	Count   int      `json:"count"`
	Total   int      `json:"total"`
	Max     int      `json:"max"`
}

// DamageReport is one session's notifications and summary.
type DamageReport struct {
	SessionReport
	Events []damageLine `json:"events"`
}

// NewDamageCommand creates the damage command.
func NewDamageCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DamageOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "damage --db <path> [--session <id>]",
		Short: "Show recorded damage",
		Long: `List the sessions in a damage log, or the notifications of one session.

Example:
  doomhost damage --db ./damage.db
  doomhost damage --db ./damage.db --session 01927c3e-... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("db") {
				cfg, err := LoadConfig()
				if err != nil {
					return WrapExitError(ExitCommandError, "invalid environment", err)
				}
				opts.Database = cfg.Database
			}
			return runDamage(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite damage log (default $DOOMHOST_DB)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session to show")

	return cmd
}

func runDamage(opts *DamageOptions, cmd *cobra.Command) error {
	if opts.Database == "" {
		return NewExitError(ExitCommandError, "no damage log: use --db or DOOMHOST_DB")
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Session != "" {
		return showSession(ctx, st, opts.Session, formatter)
	}
	return listSessions(ctx, st, formatter)
}

func sessionReport(ctx context.Context, st *store.Store, sess store.Session) (SessionReport, error) {
	sum, err := st.Summarize(ctx, sess.ID)
	if err != nil {
		return SessionReport{}, err
	}
	return SessionReport{
		Session: sess.ID,
		Script:  sess.Script,
		Args:    sess.Args,
		Count:   sum.Count,
		Total:   sum.Total,
		Max:     sum.Max,
	}, nil
}

func listSessions(ctx context.Context, st *store.Store, f *OutputFormatter) error {
	sessions, err := st.ReadSessions(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read sessions", err)
	}

	reports := make([]SessionReport, 0, len(sessions))
	for _, sess := range sessions {
		r, err := sessionReport(ctx, st, sess)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to summarize session", err)
		}
		reports = append(reports, r)
	}

	if f.Format == "json" {
		return f.Success(reports)
	}
	if len(reports) == 0 {
		return f.Success("No sessions recorded.")
	}
	for _, r := range reports {
		fmt.Fprintf(f.Writer, "%s  %-10s count=%d total=%d max=%d  args=%s\n",
			r.Session, r.Script, r.Count, r.Total, r.Max, strings.Join(r.Args, " "))
	}
	return nil
}

func showSession(ctx context.Context, st *store.Store, id string, f *OutputFormatter) error {
	sess, err := st.ReadSession(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		_ = f.Error("E_NOT_FOUND", fmt.Sprintf("session not found: %s", id), nil)
		return NewExitError(ExitFailure, fmt.Sprintf("session not found: %s", id))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}

	summary, err := sessionReport(ctx, st, sess)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to summarize session", err)
	}
	records, err := st.ReadDamage(ctx, id)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read damage", err)
	}

	report := DamageReport{SessionReport: summary, Events: make([]damageLine, 0, len(records))}
	for _, rec := range records {
		report.Events = append(report.Events, damageLine{Seq: int(rec.Seq), Amount: rec.Amount})
	}

	if f.Format == "json" {
		return f.Success(report)
	}
	for _, ev := range report.Events {
		fmt.Fprintf(f.Writer, "%4d  %d\n", ev.Seq, ev.Amount)
	}
	fmt.Fprintf(f.Writer, "count=%d total=%d max=%d\n", report.Count, report.Total, report.Max)
	return nil
}
