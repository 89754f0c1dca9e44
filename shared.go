package psrs

// sharedState holds everything the p workers cooperate on. It is built in
// full by the coordinator before any worker starts and destroyed only after
// all workers have joined, so no field is ever resized concurrently.
//
// Write/read disciplines (all ordering comes from the barrier chain, no
// locks are involved on the hot path):
//
//   - samples[i] is written only by worker i (phase 1) and read only by
//     worker 0 (phase 2); barrier b[1] orders the two.
//   - pivots is written only by worker 0 (phase 2) and read by every worker
//     (phase 3); barrier b[2] orders the two.
//   - exchange[j][i] is written only by worker i (phase 3, column-disjoint)
//     and read only by worker j (phase 4, row-disjoint); barrier b[3]
//     orders the two. No cell is ever written and read concurrently.
type sharedState struct {
	// b[0] fences state publication before phase 1; b[1..4] fence between
	// the four phases. Each admits exactly p parties.
	b [5]*barrier

	samples  [][]int32   // samples[i]: worker i's regular sample
	pivots   []int32     // p-1 partition boundary keys
	exchange [][][]int32 // exchange[j][i]: worker i's j-th partition, merged by worker j
}

func newSharedState(parties int) *sharedState {
	s := &sharedState{
		samples: make([][]int32, parties),
		pivots:  make([]int32, parties-1),
	}
	for i := range s.b {
		s.b[i] = newBarrier(parties)
	}
	s.exchange = make([][][]int32, parties)
	for j := range s.exchange {
		s.exchange[j] = make([][]int32, parties)
	}
	return s
}
