package harness

// TraceEvent is one notification as recorded by the host.
type TraceEvent struct {
	Seq    int64 `json:"seq"`
	Amount int   `json:"amount"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Passed is true when every expectation held.
	Passed bool `json:"passed"`

	// Session is the session ID the run was recorded under.
	Session string `json:"session"`

	// Trace is the damage log for the run, ordered by seq.
	Trace []TraceEvent `json:"trace"`

	// Args is the engine's argument state after expansion.
	Args []string `json:"args"`

	ExitCode int `json:"exit_code"`

	// Errors lists failed expectations. Empty if Passed is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Passed: true,
		Trace:  []TraceEvent{},
		Args:   []string{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Passed = false
}

// Amounts returns the trace amounts in seq order.
func (r *Result) Amounts() []int {
	amounts := make([]int, len(r.Trace))
	for i, ev := range r.Trace {
		amounts[i] = ev.Amount
	}
	return amounts
}
