// Package psrs implements Parallel Sorting by Regular Sampling: a
// thread-parallel, four-phase comparison sort for large in-memory int32
// sequences.
//
// Each of p workers sorts a contiguous slice of the input locally, the
// workers' regular samples elect p-1 global pivots, every worker
// partitions its sorted run at the pivots and exchanges the pieces, and
// finally each worker merges the pieces of its own key range. The p
// merged runs concatenate into the globally sorted result. Workers
// synchronise only at the barriers between phases; all shared state is
// written and read through disjoint slots, so the hot path takes no locks.
//
// # Basic Usage
//
//	sorted, err := psrs.Sort(data, 8)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// With per-phase timing capture for scaling studies:
//
//	var t psrs.PhaseTimings
//	sorted, err := psrs.Sort(data, 8, psrs.WithTimings(&t))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(t.Microseconds())
//
// # Package Structure
//
//   - Public API: psrs.go (Sort), options.go (Option, With* functions)
//   - Algorithm: phases.go (the four phase routines), merge.go + heap.go
//     (k-way ordered merge), shared.go (cooperating state), worker.go,
//     coordinator.go (fork-join driver)
//   - Timing: timing.go (PhaseTimings)
//   - Platform: affinity_*.go (optional round-robin CPU pinning)
//   - Harness support: internal/datagen (deterministic datasets),
//     internal/dataio (dataset files), cmd/psrsbench (benchmark CLI)
package psrs
