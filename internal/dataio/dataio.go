// Package dataio reads and writes int32 dataset files for the benchmark
// harness. A dataset file is the raw little-endian encoding of its
// elements, 4 bytes each, with no header.
package dataio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"

	psrserrors "github.com/tamirms/psrs/errors"
)

// Load reads a dataset file into memory. The file is memory-mapped
// read-only for the decode pass, so loading a multi-gigabyte dataset does
// not double-buffer it through the page cache.
func Load(path string) ([]int32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat dataset: %w", err)
	}
	if info.Size()%4 != 0 {
		return nil, fmt.Errorf("%w: %s is %d bytes", psrserrors.ErrBadDatasetSize, path, info.Size())
	}
	if info.Size() == 0 {
		return []int32{}, nil
	}

	fadviseSequential(int(f.Fd()), 0, info.Size())
	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap dataset: %w", err)
	}
	defer func() { _ = mm.Unmap() }()

	data := make([]int32, len(mm)/4)
	for i := range data {
		data[i] = int32(binary.LittleEndian.Uint32(mm[i*4:]))
	}
	return data, nil
}

// Store writes a dataset file. An existing file at path is truncated.
func Store(path string, data []int32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset: %w", err)
	}

	w := bufio.NewWriterSize(f, 1<<20)
	var buf [4]byte
	for _, v := range data {
		binary.LittleEndian.PutUint32(buf[:], uint32(v))
		if _, err := w.Write(buf[:]); err != nil {
			_ = f.Close()
			return fmt.Errorf("write dataset: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush dataset: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close dataset: %w", err)
	}
	return nil
}
