package psrs

import (
	"fmt"
	"slices"
	"time"

	psrserrors "github.com/tamirms/psrs/errors"
)

// Sort sorts input ascending using Parallel Sorting by Regular Sampling
// with the given number of worker threads, returning a new slice of the
// same length and multiset. The input is never mutated.
//
// Preconditions: threads >= 1 and len(input) >= threads*threads (so the
// regular-sampling stride len(input)/threads² is at least 1). Violations are
// reported as errors.ErrZeroThreads / errors.ErrInputTooSmall before any
// work is performed.
//
// threads == 1 degenerates to a plain local sort: no pivots, no exchange.
//
// A sort runs to completion; there is no cancellation and no partial
// result. The four phases synchronise lock-step on exactly threads
// parties, so an abandoned party would deadlock the rest; the kernel
// therefore never exposes one.
func Sort(input []int32, threads int, opts ...Option) ([]int32, error) {
	if threads < 1 {
		return nil, fmt.Errorf("%w: got %d", psrserrors.ErrZeroThreads, threads)
	}
	if len(input) < threads*threads {
		return nil, fmt.Errorf("%w: %d elements with %d threads",
			psrserrors.ErrInputTooSmall, len(input), threads)
	}

	cfg := defaultSortConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if threads == 1 {
		return sortSequential(input, cfg), nil
	}
	return runParallel(input, threads, cfg)
}

// sortSequential is the threads == 1 degenerate case. The whole input is
// one local slice; its sort time is reported as phase 1 and the remaining
// phases are zero.
func sortSequential(input []int32, cfg *sortConfig) []int32 {
	result := make([]int32, len(input))

	start := time.Now()
	copy(result, input)
	slices.Sort(result)

	if t := cfg.timings; t != nil {
		*t = PhaseTimings{Phase1: time.Since(start)}
	}
	return result
}
