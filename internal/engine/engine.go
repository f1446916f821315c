package engine

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/roach88/doomhost/internal/argv"
	"github.com/roach88/doomhost/internal/bridge"
)

// Skill levels accepted by -skill.
const (
	SkillBaby      = 1
	SkillEasy      = 2
	SkillMedium    = 3
	SkillHard      = 4
	SkillNightmare = 5
)

// DefaultSkill is used when -skill is absent.
const DefaultSkill = SkillMedium

// Engine is the scripted stand-in for the game engine.
//
// It plays a damage Script back one tic at a time and raises every hit
// through a single call site that notifies the host. It knows nothing about
// the host beyond the bridge.Notifier it was built with.
//
// Thread-safety model:
//   - Inject(), Quit(): safe from any goroutine
//   - Main()/Run(): must be called from exactly one goroutine
//   - Notify always runs on the Run goroutine
type Engine struct {
	notifier bridge.Notifier
	script   *Script
	clock    TicSource
	queue    *eventQueue
	logger   *slog.Logger
	period   time.Duration

	skill int
	tics  int64

	quit      atomic.Bool
	delivered atomic.Int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the engine's tic source (tests use a deterministic one).
func WithClock(c TicSource) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithTicPeriod paces the loop to one tic per period. Zero runs unpaced.
func WithTicPeriod(d time.Duration) Option {
	return func(e *Engine) {
		e.period = d
	}
}

// TicPeriod converts a tic rate (tics per second) to a period.
// Non-positive rates yield 0 (unpaced).
func TicPeriod(rate int) time.Duration {
	if rate <= 0 {
		return 0
	}
	return time.Second / time.Duration(rate)
}

// New creates an engine that plays script and notifies n.
// A nil notifier is replaced by an unregistered bridge.
func New(n bridge.Notifier, script *Script, opts ...Option) *Engine {
	if n == nil {
		n = bridge.New()
	}

	e := &Engine{
		notifier: n,
		script:   script,
		clock:    NewClock(),
		queue:    newEventQueue(),
		skill:    DefaultSkill,
	}
	if script != nil {
		e.tics = script.Tics
	}

	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return e
}

// Main is the engine's main routine. It reads its options from the
// argument state and then runs the loop until the script ends, Quit is
// called or ctx is cancelled.
//
// Recognized options:
//
//	-skill N   1 (baby) to 5 (nightmare); baby halves damage
//	-tics N    play N tics instead of the script's length
func (e *Engine) Main(ctx context.Context, args *argv.State) error {
	if e.script == nil {
		return &RuntimeError{Code: ErrCodeInvalidScript, Message: "no damage script loaded"}
	}

	if args != nil {
		skill, err := intOption(args, "-skill", SkillBaby, SkillNightmare)
		if err != nil {
			return err
		}
		if skill != 0 {
			e.skill = skill
		}

		tics, err := intOption(args, "-tics", 1, 1<<31-1)
		if err != nil {
			return err
		}
		if tics != 0 {
			e.tics = int64(tics)
		}
	}

	e.logger.Info("engine main",
		"script", e.script.Name,
		"skill", e.skill,
		"tics", e.tics,
	)

	return e.Run(ctx)
}

// Run is the tic loop.
//
// Each tic: advance the clock, queue the script entries that are due, then
// drain the queue. Every damage event ends up in damagePlayer on this
// goroutine.
func (e *Engine) Run(ctx context.Context) error {
	if e.script == nil {
		return &RuntimeError{Code: ErrCodeInvalidScript, Message: "no damage script loaded"}
	}
	defer e.queue.Close()

	var ticker *time.Ticker
	if e.period > 0 {
		ticker = time.NewTicker(e.period)
		defer ticker.Stop()
	}

	next := 0
	for {
		if err := ctx.Err(); err != nil {
			e.logger.Info("engine stopping: context cancelled", "tic", e.clock.Current())
			return err
		}
		if e.clock.Current() >= e.tics {
			e.logger.Info("engine stopping: script finished", "tic", e.clock.Current())
			return nil
		}

		tic := e.clock.Next()
		for next < len(e.script.Damage) && e.script.Damage[next].Tic <= tic {
			d := e.script.Damage[next]
			e.queue.Enqueue(Event{Kind: EventDamage, Tic: d.Tic, Amount: d.Amount, Source: d.Source})
			next++
		}

		e.drain(tic)
		if e.quit.Load() {
			e.logger.Info("engine stopping: quit", "tic", tic)
			return nil
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
				e.logger.Info("engine stopping: context cancelled", "tic", tic)
				return ctx.Err()
			case <-ticker.C:
			}
		}
	}
}

// Inject queues a damage event for the next tic.
// Returns false once the loop has ended.
func (e *Engine) Inject(amount int, source string) bool {
	return e.queue.Enqueue(Event{Kind: EventDamage, Amount: amount, Source: source})
}

// Quit ends the loop after the events queued before it are processed.
func (e *Engine) Quit() {
	if !e.queue.Enqueue(Event{Kind: EventQuit}) {
		e.quit.Store(true)
	}
}

// Tic returns the current tic.
func (e *Engine) Tic() int64 {
	return e.clock.Current()
}

// Delivered returns how many damage notifications were raised.
func (e *Engine) Delivered() int {
	return int(e.delivered.Load())
}

// Skill returns the active skill level.
func (e *Engine) Skill() int {
	return e.skill
}

func (e *Engine) drain(tic int64) {
	for {
		ev, ok := e.queue.TryDequeue()
		if !ok {
			return
		}
		switch ev.Kind {
		case EventDamage:
			e.damagePlayer(tic, ev)
		case EventQuit:
			e.quit.Store(true)
			return
		default:
			e.logger.Warn("unknown event kind", "kind", ev.Kind, "tic", tic)
		}
	}
}

// damagePlayer is the one place a hit on the player is raised.
func (e *Engine) damagePlayer(tic int64, ev Event) {
	amount := AdjustDamage(e.skill, ev.Amount)
	e.logger.Debug("player damaged",
		"tic", tic,
		"amount", amount,
		"raw_amount", ev.Amount,
		"source", ev.Source,
	)
	e.delivered.Add(1)
	e.notifier.Notify(amount)
}

// AdjustDamage applies the skill rule to a hit on the player.
// Baby skill halves damage; no sign or range checks are made.
func AdjustDamage(skill, amount int) int {
	if skill == SkillBaby {
		return amount >> 1
	}
	return amount
}

// intOption parses "-name N". It returns 0 when the option is absent.
func intOption(args *argv.State, name string, lo, hi int) (int, error) {
	if args.CheckParm(name) == 0 {
		return 0, nil
	}
	raw, ok := args.Value(name)
	if !ok {
		return 0, NewArgumentError(name, "", "missing value")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, NewArgumentError(name, raw, "not an integer")
	}
	if n < lo || n > hi {
		return 0, NewArgumentError(name, raw, "out of range")
	}
	return n, nil
}
