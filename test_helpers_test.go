package psrs

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	randv2 "math/rand/v2"
	"slices"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

func newTestRNG(t testing.TB) *randv2.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return randv2.New(randv2.NewPCG(testSeed1^s1, testSeed2^s2))
}

// randomInt32s generates n values spanning the full int32 range.
func randomInt32s(rng *randv2.Rand, n int) []int32 {
	data := make([]int32, n)
	for i := range data {
		data[i] = int32(rng.Uint32())
	}
	return data
}

// sortedReference returns an independently sorted copy of data.
func sortedReference(data []int32) []int32 {
	ref := slices.Clone(data)
	slices.Sort(ref)
	return ref
}

// assertSortedPermutation checks that got is sorted, has the input's
// length, and carries the input's multiset.
func assertSortedPermutation(t *testing.T, got, input []int32) {
	t.Helper()
	if len(got) != len(input) {
		t.Fatalf("length: got %d, want %d", len(got), len(input))
	}
	if !slices.IsSorted(got) {
		t.Fatal("output is not sorted")
	}
	if want := sortedReference(input); !slices.Equal(got, want) {
		t.Fatal("output is not a permutation of the input")
	}
}

// extremes builds a dataset cycling through INT32_MIN, 0 and INT32_MAX.
func extremes(n int) []int32 {
	vals := [3]int32{math.MinInt32, 0, math.MaxInt32}
	data := make([]int32, n)
	for i := range data {
		data[i] = vals[i%3]
	}
	return data
}
