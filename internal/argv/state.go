// Package argv holds the engine's process-wide argument state.
//
// The entry adapter seeds a State before the engine starts, lets the
// response-file collaborator rewrite it, then freezes it. Engine subsystems
// only read from it (CheckParm, Value, Arg).
package argv

import (
	"errors"
	"strings"
	"sync"
)

// ErrFrozen is returned when the state is written after the engine started.
var ErrFrozen = errors.New("argument state is frozen")

// State is an ordered argument list plus its count.
//
// Thread-safety: all methods are safe for concurrent use. The lifecycle is
// one writer during startup followed by any number of readers.
type State struct {
	mu     sync.RWMutex
	args   []string
	frozen bool
}

var process = &State{}

// Process returns the process-wide argument state.
func Process() *State {
	return process
}

// NewState creates an empty, writable state.
func NewState() *State {
	return &State{}
}

// Set stores the first argc entries of args.
// argc is clamped into [0, len(args)]; the slice is copied.
func (s *State) Set(argc int, args []string) error {
	if argc < 0 {
		argc = 0
	}
	if argc > len(args) {
		argc = len(args)
	}
	return s.Replace(args[:argc])
}

// Replace swaps the whole argument list. Used by response-file expansion.
func (s *State) Replace(args []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen {
		return ErrFrozen
	}
	s.args = append(make([]string, 0, len(args)), args...)
	return nil
}

// Freeze makes the state read-only. Calling it again has no effect.
func (s *State) Freeze() {
	s.mu.Lock()
	s.frozen = true
	s.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (s *State) Frozen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frozen
}

// Argc returns the argument count.
func (s *State) Argc() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.args)
}

// Args returns a copy of the argument list.
func (s *State) Args() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.args))
	copy(out, s.args)
	return out
}

// Arg returns the i-th argument, or "" when i is out of range.
func (s *State) Arg(i int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.args) {
		return ""
	}
	return s.args[i]
}

// CheckParm returns the index of the first argument after the program name
// equal to name (case-insensitive), or 0 when it is absent.
func (s *State) CheckParm(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := 1; i < len(s.args); i++ {
		if strings.EqualFold(s.args[i], name) {
			return i
		}
	}
	return 0
}

// Value returns the argument following name.
// ok is false when name is absent or is the last argument.
func (s *State) Value(name string) (value string, ok bool) {
	i := s.CheckParm(name)
	if i == 0 {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i+1 >= len(s.args) {
		return "", false
	}
	return s.args[i+1], true
}
