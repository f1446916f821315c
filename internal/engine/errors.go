package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error that ends the engine's main routine.
//
// Runtime errors include:
//   - Invalid script: no script, or a script that fails validation
//   - Invalid argument: an engine option with a malformed value
//   - Halted: the loop could not continue
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Tic is the tic the error happened on (0 before the loop started).
	Tic int64

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying error (optional).
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeInvalidScript indicates a missing or invalid damage script.
	ErrCodeInvalidScript RuntimeErrorCode = "INVALID_SCRIPT"

	// ErrCodeInvalidArgument indicates an engine option could not be parsed.
	ErrCodeInvalidArgument RuntimeErrorCode = "INVALID_ARGUMENT"

	// ErrCodeHalted indicates the loop stopped abnormally.
	ErrCodeHalted RuntimeErrorCode = "ENGINE_HALTED"
)

// Exit statuses reported through ExitCode.
const (
	exitHalted       = 1
	exitBadArguments = 2
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Tic > 0 {
		msg = fmt.Sprintf("%s (tic=%d)", msg, e.Tic)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// ExitCode is the process status the engine would have exited with.
func (e *RuntimeError) ExitCode() int {
	switch e.Code {
	case ErrCodeInvalidScript, ErrCodeInvalidArgument:
		return exitBadArguments
	default:
		return exitHalted
	}
}

// IsArgumentError returns true if the error is an invalid argument error.
// Uses errors.As to handle wrapped errors.
func IsArgumentError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeInvalidArgument
	}
	return false
}

// NewArgumentError creates a RuntimeError for a malformed option value.
func NewArgumentError(option, value, reason string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeInvalidArgument,
		Message: fmt.Sprintf("%s %q: %s", option, value, reason),
		Details: map[string]string{
			"option": option,
			"value":  value,
		},
	}
}

// ScriptError describes a damage script that failed to load or validate.
type ScriptError struct {
	Code    string
	Message string
	Pos     string // "file:line:col" when CUE reported a position
}

func (e *ScriptError) Error() string {
	if e.Pos != "" {
		return fmt.Sprintf("%s: %s: %s", e.Pos, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Script error codes.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E002" // Script file not found or unreadable
	ErrCodeBuildFailed = "E003" // CUE compile failed
	ErrCodeSchema      = "E004" // Does not satisfy #Script
	ErrCodeDecode      = "E005" // Concrete value could not be decoded
	ErrCodeTicRange    = "E006" // Damage entry scheduled after the last tic
)

// IsScriptError returns true if err is, or wraps, a ScriptError.
func IsScriptError(err error) bool {
	var se *ScriptError
	return errors.As(err, &se)
}
