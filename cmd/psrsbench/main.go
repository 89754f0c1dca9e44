// Psrsbench measures PSRS sort performance against a sequential baseline.
//
// Usage:
//
//	go run ./cmd/psrsbench run --size 32000000 --threads 8
//	go run ./cmd/psrsbench sweep --sizes 8000000,16000000 --threads-list 2,4,8
//
// Each benchmark repeats the sequential sort and the parallel sort, averages
// the per-phase timings, verifies the parallel result against the sequential
// clone, and writes a log file per configuration. run prints a phase table;
// sweep prints a one-line summary per configuration.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tamirms/psrs"
)

func main() {
	root := &cobra.Command{
		Use:           "psrsbench",
		Short:         "Benchmark harness for the psrs sort kernel",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newSweepCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "psrsbench: %v\n", err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var cfg benchConfig
	var input, dump string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Benchmark one size/thread configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loadOrGenerate(&cfg, input, dump)
			if err != nil {
				return err
			}
			rep, err := benchmark(data, &cfg)
			if err != nil {
				return err
			}
			rep.render(os.Stdout)
			return rep.writeLog(cfg.logDir)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&cfg.size, "size", 1_000_000, "number of elements to sort")
	flags.IntVar(&cfg.threads, "threads", 4, "number of worker threads")
	flags.IntVar(&cfg.runs, "runs", 10, "repetitions per measurement")
	flags.Uint64Var(&cfg.seed, "seed", 0x5eed, "dataset generator seed")
	flags.StringVar(&cfg.affinity, "affinity", "none", "worker placement: none or round-robin")
	flags.BoolVar(&cfg.check, "check", false, "enable internal invariant checks")
	flags.StringVar(&cfg.logDir, "log-dir", ".", "directory for benchmark log files")
	flags.StringVar(&cfg.cpuProfile, "cpuprofile", "", "write a CPU profile of the parallel runs")
	flags.StringVar(&input, "input", "", "load the dataset from a file instead of generating it")
	flags.StringVar(&dump, "dump", "", "write the generated dataset to a file")
	return cmd
}

func newSweepCmd() *cobra.Command {
	var cfg benchConfig
	var sizes, threadsList string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Benchmark a size × thread-count grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			sizeVals, err := parseIntList(sizes)
			if err != nil {
				return fmt.Errorf("invalid --sizes: %w", err)
			}
			threadVals, err := parseIntList(threadsList)
			if err != nil {
				return fmt.Errorf("invalid --threads-list: %w", err)
			}
			for _, size := range sizeVals {
				c := cfg
				c.size = size
				data, err := loadOrGenerate(&c, "", "")
				if err != nil {
					return err
				}
				for _, threads := range threadVals {
					c.threads = threads
					rep, err := benchmark(data, &c)
					if err != nil {
						return fmt.Errorf("size %d threads %d: %w", size, threads, err)
					}
					fmt.Printf("size %d threads %d: sequential %d µs, parallel %d µs (%.2fx)\n",
						size, threads, rep.sequentialMean, rep.parallelMean, rep.speedup())
					if err := rep.writeLog(c.logDir); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&sizes, "sizes", "1000000,4000000,16000000", "comma-separated element counts")
	flags.StringVar(&threadsList, "threads-list", "2,4,8,16", "comma-separated thread counts")
	flags.IntVar(&cfg.runs, "runs", 10, "repetitions per measurement")
	flags.Uint64Var(&cfg.seed, "seed", 0x5eed, "dataset generator seed")
	flags.StringVar(&cfg.affinity, "affinity", "none", "worker placement: none or round-robin")
	flags.StringVar(&cfg.logDir, "log-dir", ".", "directory for benchmark log files")
	return cmd
}

func parseIntList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	vals := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		if v <= 0 {
			return nil, fmt.Errorf("value %d is not positive", v)
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func parseAffinity(s string) (psrs.AffinityPolicy, error) {
	switch s {
	case "none":
		return psrs.AffinityNone, nil
	case "round-robin":
		return psrs.AffinityRoundRobin, nil
	default:
		return psrs.AffinityNone, fmt.Errorf("unknown affinity policy %q (use none or round-robin)", s)
	}
}
