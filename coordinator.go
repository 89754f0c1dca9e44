package psrs

import (
	"time"

	"golang.org/x/sync/errgroup"
)

// runParallel is the fork-join coordinator: it prepares the shared state
// and per-worker payloads, spawns p-1 workers, acts as worker 0 itself,
// joins, and concatenates the per-worker results in worker order.
func runParallel(input []int32, threads int, cfg *sortConfig) ([]int32, error) {
	prepStart := time.Now()

	n := len(input)
	chunk := n / threads
	stride := n / (threads * threads)

	shared := newSharedState(threads)
	workers := make([]*worker, threads)
	for i := range workers {
		lo := i * chunk
		hi := lo + chunk
		if i == threads-1 {
			// The last worker absorbs the remainder
			hi = n
		}
		data := make([]int32, hi-lo)
		copy(data, input[lo:hi])
		workers[i] = &worker{
			id:     i,
			data:   data,
			stride: stride,
			shared: shared,
			cfg:    cfg,
		}
	}

	var g errgroup.Group
	for _, w := range workers[1:] {
		g.Go(w.run)
	}
	prep := time.Since(prepStart)

	err := workers[0].run()

	// Join, then concatenate R_0..R_{p-1} strictly by worker index. The
	// result buffer is sized to exactly n up front so concatenation never
	// reallocates.
	collectStart := time.Now()
	if gerr := g.Wait(); err == nil {
		err = gerr
	}
	if err != nil {
		return nil, err
	}
	result := make([]int32, 0, n)
	for _, w := range workers {
		result = append(result, w.result...)
	}
	collect := time.Since(collectStart)

	if t := cfg.timings; t != nil {
		*t = PhaseTimings{Prep: prep, Collect: collect}
		t.fold(workers)
	}
	return result, nil
}
