package bench

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports per-configuration transform timings.
type Metrics struct {
	duration *prometheus.HistogramVec
	bytes    *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "alohactr",
			Name:      "transform_seconds",
			Help:      "Wall time of one CTR transform call.",
			Buckets:   prometheus.ExponentialBuckets(1e-4, 2, 18),
		}, []string{"type", "workers"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "alohactr",
			Name:      "transform_bytes_total",
			Help:      "Bytes processed by CTR transform calls.",
		}, []string{"type", "workers"}),
	}
	for _, c := range []prometheus.Collector{m.duration, m.bytes} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(typ string, workers int, d time.Duration, n int) {
	if m == nil {
		return
	}
	w := strconv.Itoa(workers)
	m.duration.WithLabelValues(typ, w).Observe(d.Seconds())
	m.bytes.WithLabelValues(typ, w).Add(float64(n))
}
