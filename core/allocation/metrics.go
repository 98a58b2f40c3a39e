package allocation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	runLatency      prometheus.Histogram
	roundsTotal     prometheus.Counter
	unassignedTasks prometheus.Gauge
	truncatedRuns   prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (prometheus.Histogram, prometheus.Counter, prometheus.Gauge, prometheus.Counter) {
	lat := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "allocation_run_duration_seconds",
		Help:    "Wall-clock duration of a greedy allocation run",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	})
	rounds := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "allocation_rounds_total",
		Help: "Number of greedy rounds executed across all runs",
	})
	left := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "allocation_last_unassigned_tasks",
		Help: "Tasks left in the pool at the end of the last run",
	})
	trunc := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "allocation_truncated_runs_total",
		Help: "Runs stopped by the round cap",
	})
	return lat, rounds, left, trunc
}

func init() {
	runLatency, roundsTotal, unassignedTasks, truncatedRuns = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers allocation metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(runLatency, roundsTotal, unassignedTasks, truncatedRuns)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	runLatency, roundsTotal, unassignedTasks, truncatedRuns = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}

func observeRun(res Result, left int, elapsed time.Duration) {
	runLatency.Observe(elapsed.Seconds())
	roundsTotal.Add(float64(res.Rounds))
	unassignedTasks.Set(float64(left))
	if res.Truncated {
		truncatedRuns.Inc()
	}
}
