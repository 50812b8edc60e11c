// Package bench sweeps the CTR engine across data sizes, strategies and
// worker counts and reports throughput.
package bench

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/lanikai/alohactr"
	"github.com/lanikai/alohactr/internal/logging"
	"github.com/lanikai/alohactr/internal/oracle"
)

var log = logging.DefaultLogger.WithTag("bench")

const bytesPerMB = 1024 * 1024

// SequentialType labels rows measured with the serial reference.
const SequentialType = "Sequential"

// Result is the averaged measurement of one configuration at one size.
type Result struct {
	SizeMB     float64
	Type       string // SequentialType or "strategy/join"
	Workers    int
	Iterations int
	AvgTime    time.Duration

	ThroughputMBs float64

	// Speedups are ratios of average times; zero when there is no baseline.
	VsSequential float64 // sequential / this
	VsOneWorker  float64 // same configuration at one worker / this
	VsPrivate    float64 // this / PrivateCopy with the same join and workers
}

// Reporter receives results as the sweep produces them.
type Reporter interface {
	BeginSize(sizeMB float64, maxWorkers int) error
	BeginGroup(name string) error
	Report(r Result) error
}

type Runner struct {
	Engine    *alohactr.Engine
	Inputs    *InputCache
	Metrics   *Metrics // optional
	Reporters []Reporter
}

func NewRunner(engine *alohactr.Engine, reporters ...Reporter) *Runner {
	return &Runner{
		Engine:    engine,
		Inputs:    NewInputCache(2, time.Now().UnixNano()),
		Reporters: reporters,
	}
}

// Run executes plan and returns every result in report order. It stops at
// the first error, including cancellation of ctx between iterations.
func (r *Runner) Run(ctx context.Context, plan Plan) ([]Result, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	strategies, _ := plan.strategies()
	joins, _ := plan.joins()
	workers := plan.workerCounts()

	maxWorkers := plan.maxWorkers()
	if m := r.Engine.MaxWorkers(); m < maxWorkers {
		maxWorkers = m
	}

	var results []Result
	emit := func(res Result) error {
		results = append(results, res)
		for _, rep := range r.Reporters {
			if err := rep.Report(res); err != nil {
				return errors.Wrap(err, "report")
			}
		}
		return nil
	}

	for _, sizeMB := range plan.SizesMB {
		size := int(sizeMB * bytesPerMB)
		data := r.Inputs.Get(size)
		iters := plan.iterationsFor(sizeMB)
		log.Info("%g MB: %d iterations, up to %d workers", sizeMB, iters, maxWorkers)

		for _, rep := range r.Reporters {
			if err := rep.BeginSize(sizeMB, maxWorkers); err != nil {
				return results, errors.Wrap(err, "report")
			}
		}

		seq, err := r.measure(ctx, iters, SequentialType, 1, data, func(c *alohactr.Context) error {
			c.XORKeyStream(data)
			return nil
		})
		if err != nil {
			return results, err
		}
		if err := emit(newResult(sizeMB, SequentialType, 1, iters, seq, seq, seq, 0)); err != nil {
			return results, err
		}

		private := make(map[alohactr.JoinPolicy]map[int]time.Duration)
		for _, s := range strategies {
			for _, j := range joins {
				typ := s.String() + "/" + j.String()
				for _, rep := range r.Reporters {
					if err := rep.BeginGroup(typ); err != nil {
						return results, errors.Wrap(err, "report")
					}
				}

				var one time.Duration
				for _, w := range workers {
					if w > maxWorkers {
						break
					}
					s, j, w := s, j, w
					avg, err := r.measure(ctx, iters, typ, w, data, func(c *alohactr.Context) error {
						return r.Engine.Transform(c, s, j, w, data)
					})
					if err != nil {
						return results, err
					}
					if w == 1 {
						one = avg
					}

					var vsPrivate time.Duration
					if s == alohactr.PrivateCopy {
						if private[j] == nil {
							private[j] = make(map[int]time.Duration)
						}
						private[j][w] = avg
					} else {
						vsPrivate = private[j][w]
					}

					if err := emit(newResult(sizeMB, typ, w, iters, avg, seq, one, vsPrivate)); err != nil {
						return results, err
					}
				}
			}
		}
	}
	return results, nil
}

// measure returns the average wall time of fn over iters runs, each on a
// freshly initialized context.
func (r *Runner) measure(ctx context.Context, iters int, typ string, workers int, data []byte,
	fn func(*alohactr.Context) error) (time.Duration, error) {
	var total time.Duration
	for i := 0; i < iters; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		c, err := alohactr.NewContext(oracle.StandardKey, oracle.StandardIV)
		if err != nil {
			return 0, err
		}

		start := time.Now()
		if err := fn(c); err != nil {
			return 0, errors.Wrapf(err, "%s with %d workers", typ, workers)
		}
		elapsed := time.Since(start)

		total += elapsed
		r.Metrics.observe(typ, workers, elapsed, len(data))
	}
	return total / time.Duration(iters), nil
}

func newResult(sizeMB float64, typ string, workers, iters int, avg, seq, one, private time.Duration) Result {
	res := Result{
		SizeMB:     sizeMB,
		Type:       typ,
		Workers:    workers,
		Iterations: iters,
		AvgTime:    avg,
	}
	if avg > 0 {
		res.ThroughputMBs = sizeMB / avg.Seconds()
		res.VsSequential = ratio(seq, avg)
		res.VsOneWorker = ratio(one, avg)
	}
	res.VsPrivate = ratio(avg, private)
	return res
}

func ratio(a, b time.Duration) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	return float64(a) / float64(b)
}
