// Package entry hands control from a host process to the engine.
//
// Start seeds the engine's argument state, runs response-file expansion and
// then calls the engine's main routine. It has no error path of its own:
// anything that goes wrong after the hand-off belongs to the engine.
package entry

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/roach88/doomhost/internal/argv"
)

// Exit statuses returned by Start.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Main is the engine's main routine.
//
// A Main owns the process once called. It may never return (the process
// exits from inside it), in which case nothing after the Start call runs.
// When it does return, nil or context.Canceled means the user quit normally;
// any other error is a failure status.
type Main func(ctx context.Context, args *argv.State) error

// ExitCoder is implemented by errors that carry their own exit status.
type ExitCoder interface {
	ExitCode() int
}

// Adapter wires a Main to its argument state and expansion collaborator.
// Zero fields fall back to argv.Process(), argv.NopExpander and a discard
// logger.
type Adapter struct {
	Args     *argv.State
	Expander argv.Expander
	Main     Main
	Logger   *slog.Logger
}

// Start stores argc/args, expands response files, freezes the argument
// state and transfers control to Main. The returned status is only observed
// if Main returns.
func (a *Adapter) Start(ctx context.Context, argc int, args []string) int {
	state := a.Args
	if state == nil {
		state = argv.Process()
	}
	expander := a.Expander
	if expander == nil {
		expander = argv.NopExpander
	}
	logger := a.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if err := state.Set(argc, args); err != nil {
		logger.Warn("argument state already set", "error", err)
	}
	expander.Expand(state)
	state.Freeze()

	if a.Main == nil {
		logger.Warn("no engine main routine")
		return ExitSuccess
	}

	logger.Info("starting engine main", "argc", state.Argc())
	err := a.Main(ctx, state)
	code := ExitCode(err)
	logger.Info("engine main returned", "exit_code", code)
	return code
}

// Start runs main against the process-wide argument state with response
// file expansion enabled.
func Start(ctx context.Context, argc int, args []string, main Main) int {
	a := &Adapter{
		Args:     argv.Process(),
		Expander: &argv.ResponseFileExpander{},
		Main:     main,
	}
	return a.Start(ctx, argc, args)
}

// ExitCode maps an engine main result to a process exit status.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, context.Canceled) {
		return ExitSuccess
	}
	var coder ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return ExitFailure
}
