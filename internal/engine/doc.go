// Package engine implements the scripted stand-in for the legacy game engine.
//
// The real engine is an external component that owns the process once
// started. This package reproduces just enough of its shape to drive the
// damage bridge end to end: a main routine that reads the process argument
// state, a tic loop, and one internal call site that raises "player took
// damage" through a bridge.Notifier.
//
// ARCHITECTURE:
//
// Single-Writer Tic Loop:
// Main() parses engine options and calls Run(). Run() advances the Clock one
// tic at a time, queues the damage entries due on that tic, and drains the
// queue. Events injected from other goroutines go through the same queue, so
// every notification is raised on the loop goroutine.
//
// Tic Processing Flow:
// 1. clock.Next() stamps the tic
// 2. Script entries with entry.Tic <= tic are enqueued in order
// 3. drain() dequeues until empty; damage goes to damagePlayer()
// 4. damagePlayer() applies the skill rule then calls Notify
// 5. With a tic period set, the loop waits for the next tick
//
// Scripts are CUE files validated against the embedded #Script schema
// (schema.cue):
//
//	name: "e1m1"
//	tics: 350
//	damage: [
//		{tic: 35, amount: 10, source: "imp"},
//	]
//
// The loop ends when the script runs out of tics, when Quit() is processed,
// or when the context is cancelled.
package engine
