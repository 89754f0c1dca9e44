package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"slices"
	"syscall"
	"time"

	"github.com/aclements/go-moremath/stats"
	"github.com/cespare/xxhash/v2"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spaolacci/murmur3"

	"github.com/tamirms/psrs"
	"github.com/tamirms/psrs/internal/datagen"
	"github.com/tamirms/psrs/internal/dataio"
)

var phaseNames = [6]string{"prep", "phase 1", "phase 2", "phase 3", "phase 4", "collect"}

type benchConfig struct {
	size       int
	threads    int
	runs       int
	seed       uint64
	affinity   string
	check      bool
	logDir     string
	cpuProfile string
}

// report holds one configuration's measurements, in microseconds.
type report struct {
	size    int
	threads int
	runs    int

	fingerprintHi uint64 // murmur3-128 of the dataset, for reproducibility
	fingerprintLo uint64

	sequentialRuns []int64    // per-run sequential sort time
	sequentialMean int64      // mean of the second half (warmed up)
	phaseRuns      [6][]int64 // per-phase, per-run parallel timings
	phaseMean      [6]int64
	phaseStddev    [6]int64
	parallelMean   int64 // sum of phase means
	peakRSS        uint64
}

func (r *report) speedup() float64 {
	if r.parallelMean == 0 {
		return 0
	}
	return float64(r.sequentialMean) / float64(r.parallelMean)
}

// loadOrGenerate produces the dataset for a benchmark: from a file when
// input is set, otherwise from the deterministic generator. The dataset is
// optionally dumped back out for later --input runs.
func loadOrGenerate(cfg *benchConfig, input, dump string) ([]int32, error) {
	var data []int32
	if input != "" {
		fmt.Printf("Loading dataset from %s...\n", input)
		var err error
		data, err = dataio.Load(input)
		if err != nil {
			return nil, err
		}
		cfg.size = len(data)
	} else {
		fmt.Printf("Generating %d elements (seed %#x)...\n", cfg.size, cfg.seed)
		data = datagen.Generate(cfg.seed, cfg.size)
	}
	if dump != "" {
		if err := dataio.Store(dump, data); err != nil {
			return nil, err
		}
		fmt.Printf("Dataset written to %s\n", dump)
	}
	return data, nil
}

// benchmark measures the sequential baseline and the parallel sort on the
// same dataset, then verifies the parallel output against the sequential
// clone via xxhash digests.
func benchmark(data []int32, cfg *benchConfig) (*report, error) {
	affinity, err := parseAffinity(cfg.affinity)
	if err != nil {
		return nil, err
	}

	rep := &report{size: len(data), threads: cfg.threads, runs: cfg.runs}
	rep.fingerprintHi, rep.fingerprintLo = murmurFingerprint(data)

	// Sequential baseline: re-sort a fresh clone each run. The mean of the
	// second half of the runs discards cache and allocator warmup.
	fmt.Printf("Sequential sorting started (%d times)...\n", cfg.runs)
	reference := make([]int32, len(data))
	rep.sequentialRuns = make([]int64, cfg.runs)
	for i := 0; i < cfg.runs; i++ {
		copy(reference, data)
		start := time.Now()
		slices.Sort(reference)
		rep.sequentialRuns[i] = time.Since(start).Microseconds()
	}
	rep.sequentialMean = meanInt64(rep.sequentialRuns[cfg.runs/2:])
	referenceDigest := xxhashOfInt32s(reference)

	opts := []psrs.Option{psrs.WithAffinity(affinity)}
	if cfg.check {
		opts = append(opts, psrs.WithInvariantChecks())
	}

	if cfg.cpuProfile != "" {
		f, err := os.Create(cfg.cpuProfile)
		if err != nil {
			return nil, fmt.Errorf("create cpu profile: %w", err)
		}
		defer func() { _ = f.Close() }()
		if err := pprof.StartCPUProfile(f); err != nil {
			return nil, fmt.Errorf("start cpu profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	fmt.Printf("Parallel sorting started (%d times, %d threads)...\n", cfg.runs, cfg.threads)
	var timings psrs.PhaseTimings
	for i := 0; i < cfg.runs; i++ {
		result, err := psrs.Sort(data, cfg.threads, append(opts, psrs.WithTimings(&timings))...)
		if err != nil {
			return nil, err
		}
		for j, v := range timings.Microseconds() {
			rep.phaseRuns[j] = append(rep.phaseRuns[j], v)
		}
		if i == cfg.runs-1 {
			if got := xxhashOfInt32s(result); got != referenceDigest {
				return nil, fmt.Errorf("parallel result digest %#x does not match sequential %#x",
					got, referenceDigest)
			}
		}
	}

	for j := range rep.phaseRuns {
		s := stats.Sample{Xs: float64s(rep.phaseRuns[j])}
		rep.phaseMean[j] = int64(s.Mean())
		rep.phaseStddev[j] = int64(s.StdDev())
		rep.parallelMean += rep.phaseMean[j]
	}
	rep.peakRSS = getMaxRSS()
	return rep, nil
}

// render prints the phase table and the headline comparison.
func (r *report) render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Phase", "Mean (µs)", "Stddev (µs)"})
	for i, name := range phaseNames {
		t.AppendRow(table.Row{name, r.phaseMean[i], r.phaseStddev[i]})
	}
	t.AppendFooter(table.Row{"parallel total", r.parallelMean, ""})
	t.AppendFooter(table.Row{"sequential", r.sequentialMean, ""})
	t.AppendFooter(table.Row{fmt.Sprintf("speedup (%d threads)", r.threads),
		fmt.Sprintf("%.2fx", r.speedup()), ""})
	t.Render()

	fmt.Fprintf(w, "dataset: %d elements, fingerprint %016x%016x\n",
		r.size, r.fingerprintHi, r.fingerprintLo)
	fmt.Fprintf(w, "peak RSS: %.1f MB\n", float64(r.peakRSS)/1_000_000)
}

// writeLog writes the configuration's log file in the same line format the
// plotting scripts consume: one "s:" baseline line, one "p.N:" line per
// phase, and a final "p:" total line.
func (r *report) writeLog(dir string) error {
	path := filepath.Join(dir, fmt.Sprintf("psrs_%d_%d.log", r.size, r.threads))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create log: %w", err)
	}
	fmt.Fprintf(f, "s: %d\n", r.sequentialMean)
	for i, mean := range r.phaseMean {
		fmt.Fprintf(f, "p.%d: %d\n", i, mean)
	}
	fmt.Fprintf(f, "p: %d\n", r.parallelMean)
	if err := f.Close(); err != nil {
		return fmt.Errorf("close log: %w", err)
	}
	return nil
}

// xxhashOfInt32s digests a slice as little-endian bytes. Used to compare
// sorted outputs without holding both around for element-wise comparison.
func xxhashOfInt32s(data []int32) uint64 {
	d := xxhash.New()
	var buf [4096]byte
	for len(data) > 0 {
		n := min(len(data), len(buf)/4)
		for i := 0; i < n; i++ {
			binary.LittleEndian.PutUint32(buf[i*4:], uint32(data[i]))
		}
		_, _ = d.Write(buf[:n*4])
		data = data[n:]
	}
	return d.Sum64()
}

// murmurFingerprint labels a dataset with its murmur3-128 digest so log
// files from different hosts can be matched to the same input.
func murmurFingerprint(data []int32) (uint64, uint64) {
	h := murmur3.New128()
	var buf [4096]byte
	for len(data) > 0 {
		n := min(len(data), len(buf)/4)
		for i := 0; i < n; i++ {
			binary.LittleEndian.PutUint32(buf[i*4:], uint32(data[i]))
		}
		_, _ = h.Write(buf[:n*4])
		data = data[n:]
	}
	return h.Sum128()
}

func float64s(xs []int64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

func meanInt64(xs []int64) int64 {
	if len(xs) == 0 {
		return 0
	}
	var sum int64
	for _, x := range xs {
		sum += x
	}
	return sum / int64(len(xs))
}

// getMaxRSS returns the peak resident set size in bytes.
// Uses getrusage(RUSAGE_SELF) which tracks peak RSS since process start.
func getMaxRSS() uint64 {
	var rusage syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &rusage); err != nil {
		return 0
	}
	// On macOS, MaxRss is in bytes. On Linux, it's in kilobytes.
	maxRSS := uint64(rusage.Maxrss)
	if runtime.GOOS == "linux" {
		maxRSS *= 1024
	}
	return maxRSS
}
