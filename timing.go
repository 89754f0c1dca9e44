package psrs

import "time"

// PhaseTimings records the wall-clock cost of one Sort call, broken down
// the way scaling studies want it: per-phase critical paths plus the
// serial prologue and epilogue.
//
//   - Prep: from entry until the last worker has been spawned.
//   - Phase1, Phase3, Phase4: the maximum across workers of that worker's
//     phase duration, i.e. the critical path: a phase only ends when its
//     slowest worker reaches the barrier.
//   - Phase2: worker 0's pivot-selection duration; the other workers are
//     parked at the barrier and contribute nothing.
//   - Collect: join plus concatenation of the per-worker results.
//
// Per-worker durations are accumulated in private slots and folded in after
// join, so timing capture adds no shared-state traffic to the hot path.
type PhaseTimings struct {
	Prep    time.Duration
	Phase1  time.Duration
	Phase2  time.Duration
	Phase3  time.Duration
	Phase4  time.Duration
	Collect time.Duration
}

// Microseconds returns the six phase values in order, in microseconds.
// This is the record format consumed by the benchmark harness logs.
func (t *PhaseTimings) Microseconds() [6]int64 {
	return [6]int64{
		t.Prep.Microseconds(),
		t.Phase1.Microseconds(),
		t.Phase2.Microseconds(),
		t.Phase3.Microseconds(),
		t.Phase4.Microseconds(),
		t.Collect.Microseconds(),
	}
}

// Total returns the sum of all six phase values.
func (t *PhaseTimings) Total() time.Duration {
	return t.Prep + t.Phase1 + t.Phase2 + t.Phase3 + t.Phase4 + t.Collect
}

// fold aggregates the per-worker phase durations into the record.
func (t *PhaseTimings) fold(workers []*worker) {
	for _, w := range workers {
		if w.phase[0] > t.Phase1 {
			t.Phase1 = w.phase[0]
		}
		if w.phase[2] > t.Phase3 {
			t.Phase3 = w.phase[2]
		}
		if w.phase[3] > t.Phase4 {
			t.Phase4 = w.phase[3]
		}
	}
	t.Phase2 = workers[0].phase[1]
}
