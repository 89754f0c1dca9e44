package psrs

import (
	"fmt"
	"time"

	psrserrors "github.com/tamirms/psrs/errors"
)

// worker carries one party's private state through the four phases.
// data is the worker's exclusively owned copy of its input slice; it is
// sorted in place during phase 1 and never mutated again, which is what
// lets phase 3 hand out sub-slice views instead of copies.
type worker struct {
	id     int
	data   []int32
	stride int
	shared *sharedState
	cfg    *sortConfig

	result []int32
	phase  [4]time.Duration
	err    error
}

// run executes the four-phase protocol. Every worker arrives at every
// barrier exactly once regardless of errors: an invariant violation is
// recorded and reported after join rather than escalated mid-protocol,
// because a missing party would deadlock the remaining barriers.
func (w *worker) run() error {
	if w.cfg.affinity == AffinityRoundRobin {
		unpin := pinThread(w.id)
		defer unpin()
	}

	s := w.shared
	s.b[0].wait()

	// Phase 1: local sort + regular sample
	start := time.Now()
	s.samples[w.id] = localSortAndSample(w.data, w.stride)
	w.phase[0] = time.Since(start)
	w.tracePhase(1)
	s.b[1].wait()

	// Phase 2: pivot selection, worker 0 only
	if w.id == 0 {
		start = time.Now()
		selectPivots(s.samples, s.pivots)
		w.phase[1] = time.Since(start)
		if w.cfg.checkInvariants {
			w.checkPivotOrder(s.pivots)
		}
		w.tracePhase(2)
	}
	s.b[2].wait()

	// Phase 3: partition the local run and publish column id of the
	// exchange matrix
	start = time.Now()
	runs := splitByPivots(w.data, s.pivots)
	for j, r := range runs {
		s.exchange[j][w.id] = r
	}
	w.phase[2] = time.Since(start)
	if w.cfg.checkInvariants {
		w.checkPartitionCount(runs)
	}
	w.tracePhase(3)
	s.b[3].wait()

	// Phase 4: merge row id of the exchange matrix
	start = time.Now()
	w.result = mergeRuns(s.exchange[w.id])
	w.phase[3] = time.Since(start)
	w.tracePhase(4)
	s.b[4].wait()

	return w.err
}

func (w *worker) tracePhase(phase int) {
	if w.cfg.trace != nil {
		w.cfg.trace(w.id, phase)
	}
}

func (w *worker) checkPivotOrder(pivots []int32) {
	for i := 1; i < len(pivots); i++ {
		if pivots[i] < pivots[i-1] {
			w.setErr(fmt.Errorf("%w: pivots[%d]=%d > pivots[%d]=%d",
				psrserrors.ErrPivotOrder, i-1, pivots[i-1], i, pivots[i]))
			return
		}
	}
}

func (w *worker) checkPartitionCount(runs [][]int32) {
	total := 0
	for _, r := range runs {
		total += len(r)
	}
	if total != len(w.data) {
		w.setErr(fmt.Errorf("%w: worker %d partitioned %d of %d elements",
			psrserrors.ErrPartitionCount, w.id, total, len(w.data)))
	}
}

func (w *worker) setErr(err error) {
	if w.err == nil {
		w.err = err
	}
}
