package testutil

import "sync"

// FixedSessionGenerator returns the same session ID every time.
//
// Scenarios pin the session so golden traces and stored rows are
// byte-identical across runs. Implements host.SessionGenerator.
type FixedSessionGenerator struct {
	id string
}

// DefaultSessionID is used when no fixed ID is configured.
const DefaultSessionID = "test-session-default"

// NewFixedSessionGenerator creates a generator for id.
// An empty id falls back to DefaultSessionID.
func NewFixedSessionGenerator(id string) *FixedSessionGenerator {
	if id == "" {
		id = DefaultSessionID
	}
	return &FixedSessionGenerator{id: id}
}

// Generate returns the fixed session ID.
func (g *FixedSessionGenerator) Generate() string {
	return g.id
}

// DamageRecorder collects notifications delivered to its Handler.
//
// Thread-safety: safe for concurrent use, although the bridge only ever
// calls it from the engine loop.
type DamageRecorder struct {
	mu       sync.Mutex
	amounts  []int
	contexts []any
}

// Handler matches bridge.Handler.
func (r *DamageRecorder) Handler(ctx any, amount int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.amounts = append(r.amounts, amount)
	r.contexts = append(r.contexts, ctx)
}

// Amounts returns a copy of the recorded amounts in delivery order.
func (r *DamageRecorder) Amounts() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.amounts...)
}

// Contexts returns the context token passed with each notification.
func (r *DamageRecorder) Contexts() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]any(nil), r.contexts...)
}

// Count returns the number of notifications recorded.
func (r *DamageRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.amounts)
}
