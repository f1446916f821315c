// Package host embeds the engine: it installs the damage callback on the
// event bridge, checks the IWAD, records a session and hands control to the
// engine through the entry adapter.
package host

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/doomhost/internal/argv"
	"github.com/roach88/doomhost/internal/bridge"
	"github.com/roach88/doomhost/internal/engine"
	"github.com/roach88/doomhost/internal/entry"
	"github.com/roach88/doomhost/internal/store"
)

// DefaultArgs launches the first episode when the caller passes no arguments.
var DefaultArgs = []string{"", "-episode", "1"}

// Stats summarizes the notifications received by the current or last Run.
type Stats struct {
	Session string
	Count   int
	Total   int
}

// Host owns one bridge registration and the per-Run bookkeeping.
type Host struct {
	bridge   *bridge.Bridge
	store    *store.Store
	sessions SessionGenerator
	logger   *slog.Logger
	expander argv.Expander
	args     *argv.State
	script   string

	mu       sync.Mutex
	callback func(amount int)
	stats    Stats
}

// Option configures a Host.
type Option func(*Host)

// WithStore records sessions and damage in s.
func WithStore(s *store.Store) Option {
	return func(h *Host) { h.store = s }
}

// WithSessionGenerator sets the session ID source.
func WithSessionGenerator(g SessionGenerator) Option {
	return func(h *Host) { h.sessions = g }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Host) { h.logger = l }
}

// WithExpander replaces response-file expansion.
func WithExpander(e argv.Expander) Option {
	return func(h *Host) { h.expander = e }
}

// WithArgState hands the engine s instead of the process-wide state.
func WithArgState(s *argv.State) Option {
	return func(h *Host) { h.args = s }
}

// WithScriptName labels recorded sessions with the damage script in use.
func WithScriptName(name string) Option {
	return func(h *Host) { h.script = name }
}

// New creates a host on b. A nil b uses bridge.Default().
func New(b *bridge.Bridge, opts ...Option) *Host {
	if b == nil {
		b = bridge.Default()
	}
	h := &Host{
		bridge:   b,
		sessions: UUIDv7Generator{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		args:     argv.Process(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.expander == nil {
		h.expander = &argv.ResponseFileExpander{Logger: h.logger}
	}
	return h
}

// SetDamageCallback sets the function called for every notification.
// The last call before Run wins; nil clears it.
func (h *Host) SetDamageCallback(fn func(amount int)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.callback = fn
}

// callbackCtx is the registration context for one Run.
type callbackCtx struct {
	host    *Host
	session string
	seq     *engine.Clock
	ctx     context.Context
}

// Run launches main with args and returns its exit status.
//
// When main never returns, Run never returns either. The error is non-nil
// only when the engine could not be started.
func (h *Host) Run(ctx context.Context, args []string, main entry.Main) (int, error) {
	if len(args) == 0 {
		args = append([]string(nil), DefaultArgs...)
	}

	if err := h.preflight(args); err != nil {
		return entry.ExitFailure, err
	}

	session := h.sessions.Generate()
	if h.store != nil {
		rec := store.Session{ID: session, Args: args, Script: h.script}
		if err := h.store.WriteSession(ctx, rec); err != nil {
			return entry.ExitFailure, fmt.Errorf("record session: %w", err)
		}
	}

	h.mu.Lock()
	h.stats = Stats{Session: session}
	h.mu.Unlock()

	cc := &callbackCtx{host: h, session: session, seq: engine.NewClock(), ctx: ctx}
	h.bridge.Register(cc, damageHandler)

	logger := h.logger.With("session", session)
	logger.Info("launching engine", "args", args)

	adapter := &entry.Adapter{
		Args:     h.args,
		Expander: h.expander,
		Main:     main,
		Logger:   logger,
	}
	return adapter.Start(ctx, len(args), args), nil
}

// Stats returns a snapshot of the notification counters.
func (h *Host) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}

// preflight checks the -iwad argument, if any.
func (h *Host) preflight(args []string) error {
	scan := argv.NewState()
	if err := scan.Set(len(args), args); err != nil {
		return err
	}
	path, ok := scan.Value("-iwad")
	if !ok {
		if scan.CheckParm("-iwad") > 0 {
			return fmt.Errorf("%w: -iwad needs a path", ErrInvalidIWAD)
		}
		return nil
	}
	if err := ValidateIWAD(path); err != nil {
		h.logger.Error("IWAD check failed", "path", path, "error", err)
		return err
	}
	return nil
}

func damageHandler(ctx any, amount int) {
	cc, ok := ctx.(*callbackCtx)
	if !ok || cc == nil {
		return
	}
	cc.host.record(cc, amount)
}

func (h *Host) record(cc *callbackCtx, amount int) {
	seq := cc.seq.Next()

	if h.store != nil {
		rec := store.DamageRecord{SessionID: cc.session, Seq: seq, Amount: amount}
		if err := h.store.WriteDamage(context.WithoutCancel(cc.ctx), rec); err != nil {
			h.logger.Error("failed to record damage", "session", cc.session, "seq", seq, "error", err)
		}
	}
	h.logger.Debug("damage received", "session", cc.session, "seq", seq, "amount", amount)

	h.mu.Lock()
	if h.stats.Session == cc.session {
		h.stats.Count++
		h.stats.Total += amount
	}
	fn := h.callback
	h.mu.Unlock()

	if fn != nil {
		fn(amount)
	}
}
