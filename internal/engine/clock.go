package engine

import "sync/atomic"

// TicSource hands out game tics. Implemented by Clock and by
// testutil.DeterministicClock.
type TicSource interface {
	Next() int64
	Current() int64
}

// Clock is the engine's monotonic tic counter.
//
// Every loop iteration advances the clock by one. Tic 0 is "before the first
// tic"; the first call to Next returns 1.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations), but
// only the Run loop advances it.
type Clock struct {
	tic atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock whose next tic is start+1.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.tic.Store(start)
	return c
}

// Next advances the clock and returns the new tic.
func (c *Clock) Next() int64 {
	return c.tic.Add(1)
}

// Current returns the current tic without advancing.
func (c *Clock) Current() int64 {
	return c.tic.Load()
}
