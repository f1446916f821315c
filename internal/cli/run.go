package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/doomhost/internal/argv"
	"github.com/roach88/doomhost/internal/bridge"
	"github.com/roach88/doomhost/internal/engine"
	"github.com/roach88/doomhost/internal/host"
	"github.com/roach88/doomhost/internal/store"
)

// ProgramName is argv[0] for engine argument vectors built by run.
const ProgramName = "doomhost"

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	Script   string
	TicRate  int
	Fast     bool

	// Sessions allows overriding the session ID generator (for testing).
	// If nil, defaults to host.UUIDv7Generator.
	Sessions host.SessionGenerator

	// ArgState allows overriding the engine argument state (for testing).
	// If nil, the process-wide state is used.
	ArgState *argv.State
}

// damageLine is the JSON form of one notification.
type damageLine struct {
	Seq    int `json:"seq"`
	Amount int `json:"amount"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] [-- engine-args...]",
		Short: "Run the engine and print damage notifications",
		Long: `Run the scripted engine inside the host.

Every time the player takes damage the host prints the amount. Arguments
after "--" are handed to the engine (argv[0] is "doomhost"); with none, the
engine starts with "-episode 1". Arguments of the form @file are expanded
from response files.

Environment:
  DOOMHOST_DB        default for --db
  DOOMHOST_SCRIPT    default for --script
  DOOMHOST_TIC_RATE  default for --tic-rate (35)

Example:
  doomhost run --script e1m1.cue --fast -- -skill 1
  doomhost run --db ./damage.db --script e1m1.cue -- @opts.rsp`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyRunEnv(opts, cmd); err != nil {
				return WrapExitError(ExitCommandError, "invalid environment", err)
			}
			return runHost(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite damage log (optional)")
	cmd.Flags().StringVar(&opts.Script, "script", "", "path to CUE damage script")
	cmd.Flags().IntVar(&opts.TicRate, "tic-rate", 35, "tics per second")
	cmd.Flags().BoolVar(&opts.Fast, "fast", false, "run tics back to back")

	return cmd
}

// applyRunEnv fills flags the user did not set from the environment.
func applyRunEnv(opts *RunOptions, cmd *cobra.Command) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if !flags.Changed("db") && cfg.Database != "" {
		opts.Database = cfg.Database
	}
	if !flags.Changed("script") && cfg.Script != "" {
		opts.Script = cfg.Script
	}
	if !flags.Changed("tic-rate") {
		opts.TicRate = cfg.TicRate
	}
	return nil
}

func runHost(opts *RunOptions, engineArgs []string, cmd *cobra.Command) error {
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	if opts.Script == "" {
		return NewExitError(ExitCommandError, "no damage script: use --script or DOOMHOST_SCRIPT")
	}
	script, err := engine.LoadScript(opts.Script)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load script", err)
	}
	logger.Info("script loaded", "script", script.Name, "tics", script.Tics, "events", len(script.Damage))

	var st *store.Store
	if opts.Database != "" {
		st, err = store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		logger.Info("database ready", "path", opts.Database)
	}

	period := engine.TicPeriod(opts.TicRate)
	if opts.Fast {
		period = 0
	}

	b := bridge.New()
	eng := engine.New(b, script, engine.WithLogger(logger), engine.WithTicPeriod(period))

	hostOpts := []host.Option{
		host.WithLogger(logger),
		host.WithScriptName(script.Name),
	}
	if st != nil {
		hostOpts = append(hostOpts, host.WithStore(st))
	}
	if opts.Sessions != nil {
		hostOpts = append(hostOpts, host.WithSessionGenerator(opts.Sessions))
	}
	if opts.ArgState != nil {
		hostOpts = append(hostOpts, host.WithArgState(opts.ArgState))
	}
	h := host.New(b, hostOpts...)

	w := cmd.OutOrStdout()
	enc := json.NewEncoder(w)
	seq := 0
	h.SetDamageCallback(func(amount int) {
		seq++
		if opts.Format == "json" {
			_ = enc.Encode(damageLine{Seq: seq, Amount: amount})
			return
		}
		fmt.Fprintf(w, "Dealt damage %d\n", amount)
	})

	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	var args []string
	if len(engineArgs) > 0 {
		args = append([]string{ProgramName}, engineArgs...)
	}

	status, err := h.Run(ctx, args, eng.Main)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start engine", err)
	}

	stats := h.Stats()
	logger.Info("engine finished", "session", stats.Session, "count", stats.Count, "total", stats.Total, "exit_code", status)
	if status != 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("engine exited with status %d", status))
	}
	return nil
}

// signalContext cancels on SIGINT/SIGTERM or when parent is done.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
