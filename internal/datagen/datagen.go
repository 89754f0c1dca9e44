// Package datagen produces deterministic pseudo-random int32 datasets for
// benchmarks and tests.
//
// Values are drawn in counter mode: element i is the low 32 bits of
// xxHash3-64 over the little-endian encoding of i, keyed by the stream
// seed. The hash output is uniform over the full int32 range, the stream
// is reproducible from the seed alone, and any sub-range of a dataset can
// be regenerated without materialising the prefix.
package datagen

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// Stream is a deterministic int32 source. The zero value is a valid
// stream with seed 0.
type Stream struct {
	seed uint64
}

// New returns a stream keyed by seed.
func New(seed uint64) *Stream {
	return &Stream{seed: seed}
}

// At returns element i of the stream.
func (s *Stream) At(i int) int32 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(i))
	return int32(uint32(xxh3.HashSeed(buf[:], s.seed)))
}

// Fill overwrites dst with elements [offset, offset+len(dst)) of the stream.
func (s *Stream) Fill(dst []int32, offset int) {
	var buf [8]byte
	for i := range dst {
		binary.LittleEndian.PutUint64(buf[:], uint64(offset+i))
		dst[i] = int32(uint32(xxh3.HashSeed(buf[:], s.seed)))
	}
}

// Generate returns the first n elements of the stream keyed by seed.
func Generate(seed uint64, n int) []int32 {
	data := make([]int32, n)
	New(seed).Fill(data, 0)
	return data
}
