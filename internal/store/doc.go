// Package store provides SQLite-backed durable storage for damage
// notifications received by the host.
//
// The store is an append-only log with:
//   - Sessions: one row per host Run, with the engine arguments
//   - Damage events: one row per notification, keyed by (session_id, seq)
//
// # Ordering
//
// seq is the host's logical notification counter. All reads ORDER BY seq
// ASC; timestamps are never stored or used for ordering.
//
// # Idempotency
//
// WriteSession and WriteDamage use ON CONFLICT DO NOTHING, so re-recording
// the same notification is harmless.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: A damage row must reference a recorded session
package store
