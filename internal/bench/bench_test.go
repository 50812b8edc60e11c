package bench

import (
	"bytes"
	"context"
	"encoding/csv"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanikai/alohactr"
)

func init() {
	color.NoColor = true
}

func smallPlan() Plan {
	p := DefaultPlan()
	p.SizesMB = []float64{1.0 / 64, 1.0 / 32}
	p.Workers = []int{1, 2, 4}
	p.Iterations = 2
	p.Joins = []string{"barrier", "nowait"}
	p.MaxWorkers = 4
	return p
}

func newEngine(t *testing.T) *alohactr.Engine {
	e, err := alohactr.NewEngine(alohactr.Config{})
	require.NoError(t, err)
	return e
}

func TestDefaultPlan(t *testing.T) {
	p := DefaultPlan()
	require.NoError(t, p.Validate())
	assert.Equal(t, 5, p.iterationsFor(10))
	assert.Equal(t, 3, p.iterationsFor(100))
}

func TestLoadPlan(t *testing.T) {
	dir, err := ioutil.TempDir("", "plan")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "plan.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte(`
sizes_mb: [0.5, 2]
workers: [1, 3]
strategies: [unpadded, padded]
max_workers: 3
`), 0644))

	p, err := LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 2}, p.SizesMB)
	assert.Equal(t, []int{1, 3}, p.Workers)
	assert.Equal(t, 3, p.maxWorkers())
	assert.Equal(t, 5, p.Iterations)
	assert.Equal(t, []string{"barrier"}, p.Joins)

	s, err := p.strategies()
	require.NoError(t, err)
	assert.Equal(t, []alohactr.Strategy{alohactr.UnpaddedArray, alohactr.PaddedArray}, s)
}

func TestLoadPlanRejectsBadPlans(t *testing.T) {
	dir, err := ioutil.TempDir("", "plan")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	for name, body := range map[string]string{
		"strategy": "strategies: [striped]\n",
		"join":     "joins: [spin]\n",
		"workers":  "workers: [0]\n",
		"syntax":   "sizes_mb: [1,\n",
	} {
		path := filepath.Join(dir, name+".yaml")
		require.NoError(t, ioutil.WriteFile(path, []byte(body), 0644))
		_, err := LoadPlan(path)
		assert.Error(t, err, name)
	}

	_, err = LoadPlan(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestInputCache(t *testing.T) {
	c := NewInputCache(2, 1)
	a := c.Get(100)
	assert.Len(t, a, 100)
	assert.Same(t, &a[0], &c.Get(100)[0], "cached buffer should be reused")

	c.Get(200)
	c.Get(300)
	assert.Equal(t, 2, c.Len())

	// Evicted sizes regenerate the same contents.
	assert.Equal(t, a, NewInputCache(1, 1).Get(100))
}

func TestRunnerSweep(t *testing.T) {
	var text, table bytes.Buffer
	csvRep, err := NewCSVReporter(&table)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	r := NewRunner(newEngine(t), csvRep, NewTextReporter(&text))
	r.Metrics = metrics

	plan := smallPlan()
	results, err := r.Run(context.Background(), plan)
	require.NoError(t, err)

	perSize := 1 + len(plan.Strategies)*len(plan.Joins)*len(plan.Workers)
	require.Len(t, results, len(plan.SizesMB)*perSize)

	seq := results[0]
	assert.Equal(t, SequentialType, seq.Type)
	assert.Equal(t, 2, seq.Iterations)
	assert.True(t, seq.ThroughputMBs > 0)

	for _, res := range results {
		if res.Type == "shared/nowait" && res.Workers == 2 {
			assert.True(t, res.VsPrivate > 0, "missing comparison with private: %+v", res)
		}
		if res.Type == "private/barrier" {
			assert.Zero(t, res.VsPrivate)
		}
	}

	rows, err := csv.NewReader(&table).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1+len(results))
	assert.Equal(t, CSVHeader, rows[0])
	assert.Equal(t, []string{"0.015625", "Sequential", "1"}, rows[1][:3])

	assert.Contains(t, text.String(), "=== Benchmark: 0.015625 MB data ===")
	assert.Contains(t, text.String(), "--- unpadded/barrier ---")
	assert.Contains(t, text.String(), "padded/nowait (4 workers)")

	// Two sizes, two iterations each.
	size := float64(len(r.Inputs.Get(bytesPerMB/64)) + len(r.Inputs.Get(bytesPerMB/32)))
	assert.Equal(t, 2*size, testutil.ToFloat64(metrics.bytes.WithLabelValues("padded/barrier", "4")))
}

func TestRunnerSkipsWorkersAboveMax(t *testing.T) {
	plan := smallPlan()
	plan.SizesMB = []float64{1.0 / 64}
	plan.Strategies = []string{"private"}
	plan.Joins = []string{"barrier"}
	plan.Workers = []int{1, 2, 8, 16}
	plan.MaxWorkers = 2

	results, err := NewRunner(newEngine(t)).Run(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 2, results[2].Workers)
}

func TestRunnerOrdersWorkerCounts(t *testing.T) {
	plan := smallPlan()
	plan.SizesMB = []float64{1.0 / 64}
	plan.Strategies = []string{"private"}
	plan.Joins = []string{"nowait"}
	plan.Workers = []int{16, 2, 1, 8, 2}
	plan.MaxWorkers = 2

	results, err := NewRunner(newEngine(t)).Run(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 1, results[1].Workers)
	assert.Equal(t, 2, results[2].Workers)
	assert.True(t, results[2].VsOneWorker > 0)
	assert.Equal(t, []int{16, 2, 1, 8, 2}, plan.Workers)
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(newEngine(t)).Run(ctx, smallPlan())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewMetricsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)
	_, err = NewMetrics(reg)
	assert.Error(t, err)
}
