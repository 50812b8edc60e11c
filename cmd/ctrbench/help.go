package main

import (
	"fmt"

	"github.com/fatih/color"
	flag "github.com/spf13/pflag"
)

var (
	flagSizes       []float64
	flagWorkers     []int
	flagIterations  int
	flagStrategies  []string
	flagJoins       []string
	flagConfig      string
	flagCSV         string
	flagMetricsAddr string
	flagCheckSize   int
	flagSkipBench   bool
	flagHelp        bool
	flagVersion     bool
)

func init() {
	flag.Float64SliceVarP(&flagSizes, "sizes", "s", nil, "Data sizes, in MB")
	flag.IntSliceVarP(&flagWorkers, "workers", "w", nil, "Worker counts")
	flag.IntVarP(&flagIterations, "iterations", "n", 0, "Timed iterations per configuration")
	flag.StringSliceVar(&flagStrategies, "strategies", nil, "Resource strategies")
	flag.StringSliceVar(&flagJoins, "joins", nil, "Join policies")
	flag.StringVarP(&flagConfig, "config", "c", "", "YAML benchmark plan")
	flag.StringVarP(&flagCSV, "csv", "o", "benchmark_results.csv", "CSV output file")
	flag.StringVar(&flagMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	flag.IntVar(&flagCheckSize, "check-size", 1<<20, "Correctness test size, in bytes")
	flag.BoolVar(&flagSkipBench, "check-only", false, "Run the correctness test and exit")

	flag.BoolVarP(&flagHelp, "help", "h", false, "Print usage information and exit")
	flag.BoolVarP(&flagVersion, "version", "v", false, "Print version information and exit")
}

const helpString = `Parallel AES-CTR throughput benchmark

Usage: ctrbench [OPTION]...

Runs the correctness test (every strategy against the serial reference),
then sweeps data sizes, strategies and worker counts.

Plan:
  -c, --config=FILE      YAML plan; flags below override it
  -s, --sizes=MB,...     Data sizes (default: 1,10,100)
  -w, --workers=N,...    Worker counts (default: 1,2,4,8,16)
  -n, --iterations=NUM   Timed iterations per configuration (default: 5)
      --strategies=LIST  private, shared, unpadded, padded (default: all)
      --joins=LIST       barrier, nowait (default: barrier)

Output:
  -o, --csv=FILE         CSV results (default: benchmark_results.csv,
                         empty to disable)
      --metrics-addr=ADDR
                         Serve Prometheus metrics, e.g. :9100
      --check-size=BYTES Correctness test size (default: 1048576)
      --check-only       Exit after the correctness test

Miscellaneous:
  -h, --help             Prints this help message and exits
  -v, --version          Prints version information and exits

Logging is controlled by LOGLEVEL, e.g. LOGLEVEL=info,ctr=debug,bench=debug`

var banner = []string{
	"      _        ",
	"  ___| |_ _ __ ",
	" / __| __| '__|",
	"| (__| |_| |   ",
	" \\___|\\__|_|   ",
}

// Help information is printed and program exits
func help() {
	letters := []struct {
		from, to int
		c        *color.Color
	}{
		{0, 5, color.New(color.FgRed)},
		{5, 9, color.New(color.FgYellow)},
		{9, 15, color.New(color.FgCyan)},
	}

	for _, line := range banner {
		for _, l := range letters {
			l.c.Print(line[l.from:l.to])
		}
		fmt.Println()
	}

	fmt.Println(helpString)
}
