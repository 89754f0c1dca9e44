package psrs

import (
	"slices"
	"sort"
)

// localSortAndSample implements phase 1: sort the local slice in place,
// then collect the regular sample at 1-origin positions 1, 1+stride,
// 1+2*stride, … within the sorted slice.
//
// The caller guarantees stride >= 1 (enforced by the n >= p*p entry check).
func localSortAndSample(data []int32, stride int) []int32 {
	slices.Sort(data)
	samples := make([]int32, 0, (len(data)+stride-1)/stride)
	for i := 1; i < len(data); i += stride {
		samples = append(samples, data[i])
	}
	return samples
}

// selectPivots implements phase 2, performed by worker 0 only: merge the p
// sample runs into one sorted sample space and pick the p-1 regular pivots
// from it. The sample space is logically p rows of p samples each; pivot k
// is the centre element (offset ⌊p/2⌋) of row k.
//
// When n is not an exact multiple of p² the tail rows can fall short of p
// samples, so the row index is clamped to the last sample rather than
// assuming exact geometry.
func selectPivots(samples [][]int32, pivots []int32) {
	parties := len(samples)
	space := mergeRuns(samples)
	offset := parties / 2
	for k := 1; k < parties; k++ {
		idx := k*parties + offset
		if idx > len(space)-1 {
			idx = len(space) - 1
		}
		pivots[k-1] = space[idx]
	}
}

// splitByPivots implements the partitioning half of phase 3: slice the
// sorted local run into len(pivots)+1 contiguous sub-runs at the lower-bound
// position of each pivot. A value equal to a pivot always lands in the upper
// partition; every worker applies the same rule so the global partition
// ordering at pivot boundaries stays consistent.
//
// The sub-runs are views into data, not copies: data is never mutated after
// phase 1, and each view is consumed by exactly one reader in phase 4.
func splitByPivots(data []int32, pivots []int32) [][]int32 {
	runs := make([][]int32, 0, len(pivots)+1)
	lo := 0
	for _, pv := range pivots {
		cut := lo + lowerBound(data[lo:], pv)
		runs = append(runs, data[lo:cut])
		lo = cut
	}
	return append(runs, data[lo:])
}

// lowerBound returns the index of the first element >= v, or len(s) when no
// such element exists. s must be sorted ascending.
func lowerBound(s []int32, v int32) int {
	return sort.Search(len(s), func(i int) bool { return s[i] >= v })
}
