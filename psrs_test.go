package psrs

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	psrserrors "github.com/tamirms/psrs/errors"
)

func TestSortSeedScenarios(t *testing.T) {
	cases := []struct {
		name    string
		input   []int32
		threads int
	}{
		{"small shuffle", []int32{5, 2, 8, 1, 9, 3, 7, 4, 6, 0}, 2},
		{"all equal", []int32{7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7}, 4},
		{"already sorted", []int32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, 4},
		{"reversed", []int32{15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0}, 4},
		{"extreme values", extremes(64), 8},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := slices.Clone(tc.input)
			got, err := Sort(input, tc.threads, WithInvariantChecks())
			if err != nil {
				t.Fatalf("Sort: %v", err)
			}
			assertSortedPermutation(t, got, tc.input)
			if !slices.Equal(input, tc.input) {
				t.Fatal("Sort mutated its input")
			}
		})
	}
}

func TestSortLargeRandom(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large sort in short mode")
	}
	rng := newTestRNG(t)
	input := randomInt32s(rng, 1_000_000)

	got, err := Sort(input, 8, WithInvariantChecks())
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}
	if !slices.Equal(got, sortedReference(input)) {
		t.Fatal("parallel sort differs from reference sort")
	}
}

// TestSortThreadCountIndependence verifies determinism with respect to the
// thread count: every p produces exactly the sequential result.
func TestSortThreadCountIndependence(t *testing.T) {
	rng := newTestRNG(t)
	input := randomInt32s(rng, 10_000)
	want := sortedReference(input)

	for _, threads := range []int{1, 2, 3, 4, 7, 8, 16} {
		t.Run(fmt.Sprintf("threads=%d", threads), func(t *testing.T) {
			got, err := Sort(input, threads, WithInvariantChecks())
			if err != nil {
				t.Fatalf("Sort: %v", err)
			}
			if !slices.Equal(got, want) {
				t.Fatalf("output with %d threads differs from sequential sort", threads)
			}
		})
	}
}

func TestSortIdempotence(t *testing.T) {
	rng := newTestRNG(t)
	input := randomInt32s(rng, 5_000)

	once, err := Sort(input, 4)
	if err != nil {
		t.Fatalf("first Sort: %v", err)
	}
	twice, err := Sort(once, 4)
	if err != nil {
		t.Fatalf("second Sort: %v", err)
	}
	if !slices.Equal(once, twice) {
		t.Fatal("sorting a sorted sequence changed it")
	}
}

// TestSortRandomised runs the property checks across random lengths and the
// full thread-count grid, repeatedly, to catch scheduling-dependent
// non-determinism.
func TestSortRandomised(t *testing.T) {
	rng := newTestRNG(t)
	threadChoices := []int{1, 2, 3, 4, 7, 8, 16}

	iterations := 100
	if testing.Short() {
		iterations = 10
	}
	for i := 0; i < iterations; i++ {
		threads := threadChoices[rng.IntN(len(threadChoices))]
		minLen := threads * threads
		if minLen < 64 {
			minLen = 64
		}
		input := randomInt32s(rng, minLen+rng.IntN(4096))

		got, err := Sort(input, threads, WithInvariantChecks())
		if err != nil {
			t.Fatalf("iteration %d (n=%d, threads=%d): %v", i, len(input), threads, err)
		}
		assertSortedPermutation(t, got, input)
	}
}

// TestSortExactSquareLength hits the n == p² boundary, where every sample
// row has only p-1 entries and the pivot index formula must clamp.
func TestSortExactSquareLength(t *testing.T) {
	rng := newTestRNG(t)
	for _, threads := range []int{2, 3, 4, 8} {
		t.Run(fmt.Sprintf("threads=%d", threads), func(t *testing.T) {
			input := randomInt32s(rng, threads*threads)
			got, err := Sort(input, threads, WithInvariantChecks())
			if err != nil {
				t.Fatalf("Sort: %v", err)
			}
			assertSortedPermutation(t, got, input)
		})
	}
}

func TestSortInputErrors(t *testing.T) {
	cases := []struct {
		name    string
		length  int
		threads int
		wantErr error
	}{
		{"zero threads", 16, 0, psrserrors.ErrZeroThreads},
		{"negative threads", 16, -3, psrserrors.ErrZeroThreads},
		{"input below threads squared", 15, 4, psrserrors.ErrInputTooSmall},
		{"empty input multi thread", 0, 2, psrserrors.ErrInputTooSmall},
		{"empty input single thread", 0, 1, psrserrors.ErrInputTooSmall},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Sort(make([]int32, tc.length), tc.threads)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestSortTimings(t *testing.T) {
	rng := newTestRNG(t)
	input := randomInt32s(rng, 100_000)

	var timings PhaseTimings
	if _, err := Sort(input, 4, WithTimings(&timings)); err != nil {
		t.Fatalf("Sort: %v", err)
	}

	micros := timings.Microseconds()
	for i, v := range micros {
		if v < 0 {
			t.Errorf("phase %d: negative duration %d", i, v)
		}
	}
	// Phase 1 sorts 25k elements per worker; it cannot plausibly be zero
	if timings.Phase1 == 0 {
		t.Error("phase 1 duration is zero")
	}
	if timings.Total() <= 0 {
		t.Error("total duration is zero")
	}

	// The sink must be overwritten, not accumulated, on reuse
	timings.Prep = time.Hour
	if _, err := Sort(input, 4, WithTimings(&timings)); err != nil {
		t.Fatalf("second Sort: %v", err)
	}
	if timings.Prep >= time.Hour {
		t.Error("timing sink was not overwritten on reuse")
	}
}

func TestSortTimingsSingleThread(t *testing.T) {
	rng := newTestRNG(t)
	input := randomInt32s(rng, 10_000)

	var timings PhaseTimings
	if _, err := Sort(input, 1, WithTimings(&timings)); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	if timings.Phase2 != 0 || timings.Phase3 != 0 || timings.Phase4 != 0 {
		t.Errorf("degenerate sort reported exchange-phase durations: %+v", timings)
	}
}

func TestSortTrace(t *testing.T) {
	rng := newTestRNG(t)
	input := randomInt32s(rng, 10_000)

	const threads = 4
	var mu sync.Mutex
	seen := make(map[[2]int]int)
	hook := func(workerID, phase int) {
		mu.Lock()
		seen[[2]int{workerID, phase}]++
		mu.Unlock()
	}

	if _, err := Sort(input, threads, WithTrace(hook)); err != nil {
		t.Fatalf("Sort: %v", err)
	}

	for id := 0; id < threads; id++ {
		for _, phase := range []int{1, 3, 4} {
			if seen[[2]int{id, phase}] != 1 {
				t.Errorf("worker %d phase %d: traced %d times, want 1", id, phase, seen[[2]int{id, phase}])
			}
		}
	}
	// Only worker 0 performs phase 2
	if seen[[2]int{0, 2}] != 1 {
		t.Error("worker 0 phase 2 not traced")
	}
	for id := 1; id < threads; id++ {
		if seen[[2]int{id, 2}] != 0 {
			t.Errorf("worker %d traced phase 2", id)
		}
	}
}

func TestSortAffinityOption(t *testing.T) {
	rng := newTestRNG(t)
	input := randomInt32s(rng, 10_000)

	// Pinning is advisory; the observable contract is unchanged
	got, err := Sort(input, 4, WithAffinity(AffinityRoundRobin))
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}
	assertSortedPermutation(t, got, input)
}

func TestAffinityPolicyString(t *testing.T) {
	cases := []struct {
		policy AffinityPolicy
		want   string
	}{
		{AffinityNone, "none"},
		{AffinityRoundRobin, "round-robin"},
		{AffinityPolicy(99), "unknown"},
	}
	for _, tc := range cases {
		if got := tc.policy.String(); got != tc.want {
			t.Errorf("%d.String(): got %q, want %q", tc.policy, got, tc.want)
		}
	}
}

// TestSortConcurrentCalls runs independent sorts in parallel to shake out
// any accidental sharing between Sort invocations.
func TestSortConcurrentCalls(t *testing.T) {
	rng := newTestRNG(t)
	inputs := make([][]int32, 8)
	for i := range inputs {
		inputs[i] = randomInt32s(rng, 20_000)
	}

	var failures atomic.Int32
	var wg sync.WaitGroup
	for _, input := range inputs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Sort(input, 4)
			if err != nil || !slices.Equal(got, sortedReference(input)) {
				failures.Add(1)
			}
		}()
	}
	wg.Wait()
	if n := failures.Load(); n > 0 {
		t.Fatalf("%d of %d concurrent sorts failed", n, len(inputs))
	}
}

// TestPartitionOrdering checks the global partition contract directly: with
// lower-bound semantics, everything routed to worker j is <= everything
// routed to worker j+1.
func TestPartitionOrdering(t *testing.T) {
	rng := newTestRNG(t)

	parties := 4
	shared := newSharedState(parties)
	chunks := make([][]int32, parties)
	for i := range chunks {
		chunk := randomInt32s(rng, 256)
		slices.Sort(chunk)
		chunks[i] = chunk
		shared.samples[i] = localSortAndSample(slices.Clone(chunk), 256/parties)
	}
	selectPivots(shared.samples, shared.pivots)
	for i, chunk := range chunks {
		runs := splitByPivots(chunk, shared.pivots)
		for j, r := range runs {
			shared.exchange[j][i] = r
		}
	}

	var prevMax int32
	havePrev := false
	for j := 0; j < parties; j++ {
		var col []int32
		for i := 0; i < parties; i++ {
			col = append(col, shared.exchange[j][i]...)
		}
		if len(col) == 0 {
			continue
		}
		minVal := slices.Min(col)
		if havePrev && minVal < prevMax {
			t.Fatalf("partition %d min %d < partition %d max %d", j, minVal, j-1, prevMax)
		}
		prevMax = slices.Max(col)
		havePrev = true
	}
}
