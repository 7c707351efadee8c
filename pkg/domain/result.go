package domain

import "time"

// ResultStatus classifies the outcome of one execution attempt.
type ResultStatus int

const (
	// StatusSuccess means every block ran and exited zero.
	StatusSuccess ResultStatus = iota
	// StatusFailure means a block exited non-zero; ExitCode carries it.
	StatusFailure
	// StatusCached means the cached result was still fresh and no block ran.
	StatusCached
)

// String returns a short human label for the status.
func (s ResultStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusCached:
		return "cached"
	default:
		return "unknown"
	}
}

// TargetResult is the ephemeral per-run record for one target. Results for
// implicit setup targets carry an empty Name and are not individually
// reported, though they still participate in ordering and caching.
type TargetResult struct {
	Name     string
	Status   ResultStatus
	Started  time.Time
	Finished time.Time
	ExitCode int
}

// Duration is the wall-clock time spent executing the target.
func (r *TargetResult) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Err converts a Failure result into the error propagated to the process
// boundary. It returns nil for any other status.
func (r *TargetResult) Err() error {
	if r.Status != StatusFailure {
		return nil
	}
	return &TargetExecutionError{ExitCode: r.ExitCode}
}
