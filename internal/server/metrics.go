package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/KaiSMsa/Nord-H2UB-dss/pkg/planner"
)

type metrics struct {
	solves   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		// Labels: status (solver status name, or "error")
		solves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tankplanner",
			Name:      "solves_total",
			Help:      "Planning requests by outcome",
		}, []string{"status"}),
		// Labels: variant (single, multi)
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tankplanner",
			Name:      "solve_duration_seconds",
			Help:      "Build, solve and extract latency in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"variant"}),
	}
}

func (m *metrics) observe(variant planner.Variant, res *planner.Result, err error, elapsed time.Duration) {
	status := "error"
	if err == nil && res != nil {
		status = res.StatusName
	}
	if variant == "" {
		variant = planner.SingleSlot
	}
	m.solves.WithLabelValues(status).Inc()
	m.duration.WithLabelValues(string(variant)).Observe(elapsed.Seconds())
}
