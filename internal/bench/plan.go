package bench

import (
	"io/ioutil"
	"runtime"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lanikai/alohactr"
)

// Plan describes one benchmark sweep. Zero fields in a YAML plan keep their
// DefaultPlan values.
type Plan struct {
	SizesMB []float64 `yaml:"sizes_mb"`
	Workers []int     `yaml:"workers"`

	// Timed repetitions per configuration. Sizes of at least LargeThresholdMB
	// use LargeIterations instead.
	Iterations       int     `yaml:"iterations"`
	LargeIterations  int     `yaml:"large_iterations"`
	LargeThresholdMB float64 `yaml:"large_threshold_mb"`

	Strategies []string `yaml:"strategies"`
	Joins      []string `yaml:"joins"`

	// Worker counts above this are skipped. Zero means GOMAXPROCS.
	MaxWorkers int `yaml:"max_workers"`
}

func DefaultPlan() Plan {
	return Plan{
		SizesMB:          []float64{1, 10, 100},
		Workers:          []int{1, 2, 4, 8, 16},
		Iterations:       5,
		LargeIterations:  3,
		LargeThresholdMB: 64,
		Strategies:       []string{"private", "shared", "unpadded", "padded"},
		Joins:            []string{"barrier"},
	}
}

// LoadPlan reads a YAML plan from path on top of DefaultPlan.
func LoadPlan(path string) (Plan, error) {
	plan := DefaultPlan()
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return plan, errors.Wrap(err, "read plan")
	}
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return plan, errors.Wrapf(err, "parse plan %s", path)
	}
	return plan, plan.Validate()
}

func (p Plan) Validate() error {
	if len(p.SizesMB) == 0 {
		return errors.New("plan has no sizes")
	}
	for _, s := range p.SizesMB {
		if s < 0 {
			return errors.Errorf("negative size %g MB", s)
		}
	}
	if len(p.Workers) == 0 {
		return errors.New("plan has no worker counts")
	}
	for _, w := range p.Workers {
		if w < 1 {
			return errors.Wrapf(alohactr.ErrInvalidWorkerCount, "plan lists %d", w)
		}
	}
	if p.Iterations < 1 || p.LargeIterations < 1 {
		return errors.Errorf("iterations must be positive (got %d, %d)", p.Iterations, p.LargeIterations)
	}
	if _, err := p.strategies(); err != nil {
		return err
	}
	if _, err := p.joins(); err != nil {
		return err
	}
	return nil
}

func (p Plan) iterationsFor(sizeMB float64) int {
	if sizeMB >= p.LargeThresholdMB {
		return p.LargeIterations
	}
	return p.Iterations
}

func (p Plan) maxWorkers() int {
	if p.MaxWorkers > 0 {
		return p.MaxWorkers
	}
	return runtime.GOMAXPROCS(0)
}

// workerCounts returns the plan's worker counts in ascending order without
// duplicates, so one worker is always measured before the speedups that use it.
func (p Plan) workerCounts() []int {
	out := append([]int(nil), p.Workers...)
	sort.Ints(out)
	n := 0
	for i, w := range out {
		if i == 0 || w != out[n-1] {
			out[n] = w
			n++
		}
	}
	return out[:n]
}

func (p Plan) strategies() ([]alohactr.Strategy, error) {
	out := make([]alohactr.Strategy, 0, len(p.Strategies))
	for _, name := range p.Strategies {
		s, err := alohactr.ParseStrategy(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (p Plan) joins() ([]alohactr.JoinPolicy, error) {
	out := make([]alohactr.JoinPolicy, 0, len(p.Joins))
	for _, name := range p.Joins {
		j, err := alohactr.ParseJoinPolicy(name)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, nil
}
