package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/roach88/doomhost/internal/argv"
	"github.com/roach88/doomhost/internal/bridge"
	"github.com/roach88/doomhost/internal/engine"
	"github.com/roach88/doomhost/internal/host"
	"github.com/roach88/doomhost/internal/store"
	"github.com/roach88/doomhost/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs against its own bridge, argument state and in-memory
// damage log, with a deterministic tic clock and a fixed session ID, so
// repeated runs produce identical traces.
//
// The error is non-nil only when the scenario could not be run at all
// (unreadable script, failed IWAD check, store failure). Failed
// expectations are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	script, err := engine.LoadScript(scenario.Script)
	if err != nil {
		return nil, fmt.Errorf("failed to load script: %w", err)
	}

	args, cleanup, err := stageResponseFiles(scenario)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := bridge.New()
	state := argv.NewState()
	sessions := testutil.NewFixedSessionGenerator(scenario.Session)

	eng := engine.New(b, script,
		engine.WithClock(testutil.NewDeterministicClock()),
		engine.WithLogger(logger),
	)
	h := host.New(b,
		host.WithStore(st),
		host.WithSessionGenerator(sessions),
		host.WithLogger(logger),
		host.WithArgState(state),
		host.WithScriptName(script.Name),
	)

	recorder := &testutil.DamageRecorder{}
	h.SetDamageCallback(func(amount int) { recorder.Handler(scenario.Name, amount) })

	ctx := context.Background()
	code, err := h.Run(ctx, args, eng.Main)
	if err != nil {
		return nil, fmt.Errorf("host run failed: %w", err)
	}

	stats := h.Stats()
	records, err := st.ReadDamage(ctx, stats.Session)
	if err != nil {
		return nil, fmt.Errorf("failed to read damage log: %w", err)
	}
	summary, err := st.Summarize(ctx, stats.Session)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	result.Session = stats.Session
	result.ExitCode = code
	result.Args = state.Args()
	for _, rec := range records {
		result.Trace = append(result.Trace, TraceEvent{Seq: rec.Seq, Amount: rec.Amount})
	}

	if !slices.Equal(recorder.Amounts(), result.Amounts()) {
		result.AddError(fmt.Sprintf("callback received %v but damage log holds %v",
			recorder.Amounts(), result.Amounts()))
	}
	if summary.Count != stats.Count || summary.Total != stats.Total {
		result.AddError(fmt.Sprintf("host stats count=%d total=%d disagree with damage log count=%d total=%d",
			stats.Count, stats.Total, summary.Count, summary.Total))
	}

	for _, msg := range EvaluateExpectations(result, scenario.Expect, summary) {
		result.AddError(msg)
	}
	return result, nil
}

// stageResponseFiles writes the scenario's response files to a temp dir and
// points "@name" arguments at them.
func stageResponseFiles(scenario *Scenario) ([]string, func(), error) {
	args := slices.Clone(scenario.Args)
	if len(scenario.ResponseFiles) == 0 {
		return args, func() {}, nil
	}

	dir, err := os.MkdirTemp("", "doomhost-rsp-")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create response file dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(dir) }

	for name, content := range scenario.ResponseFiles {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to write response file %s: %w", name, err)
		}
	}

	for i, arg := range args {
		name, ok := strings.CutPrefix(arg, argv.ResponseFilePrefix)
		if !ok {
			continue
		}
		if _, staged := scenario.ResponseFiles[name]; staged {
			args[i] = argv.ResponseFilePrefix + filepath.Join(dir, name)
		}
	}
	return args, cleanup, nil
}
