// Package schederr defines the sentinel error kinds shared across the
// scheduler core. Errors are pure — no infrastructure dependency.
package schederr

import "errors"

// ─── Input validation errors ────────────────────────────────────────────────

var (
	// ErrBadShape indicates ch_avail length mismatches n_channels, or tasks
	// length mismatches n_tasks at a non-shapeless entry point.
	ErrBadShape = errors.New("bad shape: dimensions do not match")

	// ErrBadSequence indicates extend(i) was called with i not in seq_rem, or
	// an input permutation contains duplicates or out-of-range indices.
	ErrBadSequence = errors.New("bad sequence: index not available for extension")

	// ErrBadTaskParameters indicates negative duration/release, or
	// l_drop < slope * t_drop.
	ErrBadTaskParameters = errors.New("bad task parameters: invariant violated")
)

// ─── Search-time errors ──────────────────────────────────────────────────────

var (
	// ErrBoundInvariant is a hard fault: loss_lower > loss_upper was observed
	// at some reachable node. Never returned to users in normal operation —
	// it indicates a bounding bug and aborts the search.
	ErrBoundInvariant = errors.New("bound invariant violated: loss_lower > loss_upper")

	// ErrTimeout names the timeout error kind for documentation purposes
	// only. A driver never returns it: a budget expiry is a partial-failure
	// result, not an error, so callers check Result.Optimal instead. Kept
	// as a sentinel so the error kinds in this package still enumerate the
	// full taxonomy, even the one kind that never surfaces as a Go error.
	ErrTimeout = errors.New("search budget expired before completion")

	// ErrUnsolvable is reserved for future infeasibility modes; currently
	// unreachable because channels have no capacity constraint beyond
	// availability, so every closed task set admits a schedule.
	ErrUnsolvable = errors.New("no feasible schedule exists for this task set")
)
