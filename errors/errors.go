// Package errors defines all exported error sentinels for the psrs library.
//
// This is the single source of truth for error values. Both the top-level
// psrs package and the benchmark harness import from here, ensuring
// errors.Is checks work across package boundaries.
package errors

import "errors"

// Input errors, reported at entry before any work is performed.
var (
	ErrZeroThreads   = errors.New("psrs: thread count must be at least 1")
	ErrInputTooSmall = errors.New("psrs: input length must be at least threads squared")
)

// Internal invariant violations. Only reported when invariant checking is
// enabled; they indicate a bug in the kernel, not bad caller input.
var (
	ErrPivotOrder     = errors.New("psrs: pivot vector is not non-decreasing")
	ErrPartitionCount = errors.New("psrs: partition element count does not match local slice length")
)

// Dataset file errors reported by the harness I/O layer.
var (
	ErrBadDatasetSize = errors.New("psrs: dataset file length is not a multiple of 4 bytes")
)
