package domain

import (
	"errors"
	"fmt"
)

// ErrEntryNotFound is returned by cache stores when no entry exists for a
// key.
var ErrEntryNotFound = errors.New("cache entry not found")

// NotFoundError is returned when a document address is unreachable locally
// and not fetchable remotely.
type NotFoundError struct {
	Address string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("runfile not found: %s", e.Address)
}

// FormatError reports a malformed document: duplicate or missing headers,
// duplicate target names, invalid identifiers, bad include entries, or a
// dependency cycle. It aborts the run before any target executes.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return e.Reason
}

// Formatf builds a FormatError from a format string.
func Formatf(format string, args ...any) *FormatError {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}

// TargetNotFoundError is returned when a match expression resolves to no
// targets at all.
type TargetNotFoundError struct {
	Expression string
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("target not found: %s", e.Expression)
}

// StepError reports a code block whose process exited non-zero. It is
// recovered at the target level into a Failure result, never retried.
type StepError struct {
	ExitCode int
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step exited with code %d", e.ExitCode)
}

// TargetExecutionError propagates a Failure result's exit code up to the
// process boundary, halting any remaining scheduled targets.
type TargetExecutionError struct {
	ExitCode int
}

func (e *TargetExecutionError) Error() string {
	return fmt.Sprintf("target execution failed with code %d", e.ExitCode)
}
