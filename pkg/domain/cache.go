package domain

import "time"

// CacheEntry is the persisted freshness record for one target, keyed by
// Target.CacheKey. It is created lazily on first lookup and mutated only
// after a successful run or an explicit invalidation.
type CacheEntry struct {
	// LastRun is the finish time of the last successful execution.
	LastRun time.Time `json:"last_run"`

	// BodyHash is the body hash recorded by that execution.
	BodyHash string `json:"body"`

	// Image is the identifier of the container image built from the
	// target's build spec, if any.
	Image string `json:"image,omitempty"`

	// BuildHash is the hash of the build spec that produced Image, used to
	// decide whether the image can be reused.
	BuildHash string `json:"build_file,omitempty"`
}

// HasRun reports whether a successful run has ever been recorded.
func (e *CacheEntry) HasRun() bool {
	return e != nil && !e.LastRun.IsZero()
}
