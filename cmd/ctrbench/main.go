package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"

	"github.com/lanikai/alohactr"
	"github.com/lanikai/alohactr/internal/aes"
	"github.com/lanikai/alohactr/internal/bench"
	"github.com/lanikai/alohactr/internal/logging"
	"github.com/lanikai/alohactr/internal/oracle"
)

// Populated via -ldflags="-X ...".
var GitRevisionId string

var log = logging.DefaultLogger.WithTag("ctrbench")

// version displays information and exits successfully (GNU convention)
func version() {
	fmt.Println("ctrbench", GitRevisionId)
	fmt.Println("Copyright 2019 Lanikai Labs LLC. All rights reserved.")
}

func main() {
	flag.Parse()

	if flagHelp {
		help()
		os.Exit(0)
	}
	if flagVersion {
		version()
		os.Exit(0)
	}

	plan, err := buildPlan()
	if err != nil {
		log.Fatalf("%v", err)
	}

	engine, err := alohactr.NewEngine(alohactr.DefaultConfig())
	if err != nil {
		log.Fatalf("%v", err)
	}

	fmt.Println("=======================================================")
	fmt.Println("  AES-CTR Parallel Benchmark")
	fmt.Println("=======================================================")
	fmt.Printf("AES backend: %s (hardware AES: %v)\n", aes.Backend, aes.HardwareAccelerated())
	fmt.Printf("Block size: %d bytes\n", alohactr.BlockSize)
	fmt.Printf("GOMAXPROCS: %d, CPUs: %d\n", runtime.GOMAXPROCS(0), runtime.NumCPU())

	if !checkCorrectness(engine) {
		fmt.Println("\nAborting benchmarks due to correctness test failure.")
		os.Exit(1)
	}
	if flagSkipBench {
		return
	}

	reporters := []bench.Reporter{bench.NewTextReporter(color.Output)}
	if flagCSV != "" {
		f, err := os.Create(flagCSV)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer f.Close()

		csvRep, err := bench.NewCSVReporter(f)
		if err != nil {
			log.Fatalf("%v", err)
		}
		reporters = append(reporters, csvRep)
		fmt.Println("CSV output will be written to:", flagCSV)
	}

	runner := bench.NewRunner(engine, reporters...)
	if flagMetricsAddr != "" {
		reg := prometheus.NewRegistry()
		if runner.Metrics, err = bench.NewMetrics(reg); err != nil {
			log.Fatalf("%v", err)
		}
		go serveMetrics(flagMetricsAddr, reg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err := runner.Run(ctx, plan); err != nil {
		log.Error("benchmark stopped: %v", err)
		os.Exit(1)
	}

	if flagCSV != "" {
		fmt.Println("\nBenchmark results saved to:", flagCSV)
	}
}

// buildPlan starts from the YAML plan, if any, and applies flag overrides.
func buildPlan() (bench.Plan, error) {
	plan := bench.DefaultPlan()
	if flagConfig != "" {
		var err error
		if plan, err = bench.LoadPlan(flagConfig); err != nil {
			return plan, err
		}
	}

	if flag.CommandLine.Changed("sizes") {
		plan.SizesMB = flagSizes
	}
	if flag.CommandLine.Changed("workers") {
		plan.Workers = flagWorkers
	}
	if flag.CommandLine.Changed("iterations") {
		plan.Iterations = flagIterations
		plan.LargeIterations = flagIterations
	}
	if flag.CommandLine.Changed("strategies") {
		plan.Strategies = flagStrategies
	}
	if flag.CommandLine.Changed("joins") {
		plan.Joins = flagJoins
	}
	return plan, plan.Validate()
}

func checkCorrectness(engine *alohactr.Engine) bool {
	fmt.Println("\n=== Correctness Test ===")

	c := oracle.StandardCase(flagCheckSize, 1)
	report, err := oracle.Verify(engine, c, oracle.DefaultMatrix())
	if err != nil {
		log.Error("%v", err)
		return false
	}

	pass := color.New(color.FgGreen)
	fail := color.New(color.FgRed, color.Bold)
	for i := range report.Runs {
		run := &report.Runs[i]
		if run.Passed() {
			pass.Printf("✓ %v\n", run)
		} else {
			fail.Printf("✗ %v\n", run)
		}
	}

	if err := report.Err(); err != nil {
		log.Error("%v", err)
		return false
	}
	return true
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	log.Info("serving metrics on %s/metrics", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("metrics server: %v", err)
	}
}
