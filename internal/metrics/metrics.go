// Package metrics exposes Prometheus collectors for schedule runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "prodsched"

// Run outcomes used as the status label.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusBusy    = "busy"
)

// Recorder owns the run collectors. Each Recorder registers on its own
// registry so several can coexist in one process.
type Recorder struct {
	registry *prometheus.Registry

	runsTotal   *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
	entries     *prometheus.GaugeVec
	warnings    prometheus.Counter
	makespan    prometheus.Gauge
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "schedule_runs_total",
				Help:      "Schedule generation attempts by outcome",
			},
			[]string{"status"},
		),
		runDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "schedule_run_duration_seconds",
				Help:      "Wall time of schedule generation",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
			[]string{"status"},
		),
		entries: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "schedule_entries",
				Help:      "Entries in the current schedule by kind",
			},
			[]string{"kind"},
		),
		warnings: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_warnings_total",
			Help:      "Warnings emitted while planning",
		}),
		makespan: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "schedule_makespan_timestamp_seconds",
			Help:      "Planned end of the last entry of the current schedule",
		}),
	}
}

// RunResult is what a completed run reports.
type RunResult struct {
	Constrained   int
	Unconstrained int
	Warnings      int
	Makespan      *time.Time
}

// RecordRun records a committed run and replaces the current-schedule
// gauges.
func (r *Recorder) RecordRun(duration time.Duration, res RunResult) {
	r.runsTotal.WithLabelValues(StatusSuccess).Inc()
	r.runDuration.WithLabelValues(StatusSuccess).Observe(duration.Seconds())
	r.warnings.Add(float64(res.Warnings))
	r.SetCurrent(res)
}

// SetCurrent sets the current-schedule gauges without counting a run. It
// seeds a fresh process from the stored schedule.
func (r *Recorder) SetCurrent(res RunResult) {
	r.entries.WithLabelValues("constrained").Set(float64(res.Constrained))
	r.entries.WithLabelValues("unconstrained").Set(float64(res.Unconstrained))
	if res.Makespan != nil {
		r.makespan.Set(float64(res.Makespan.Unix()))
	} else {
		r.makespan.Set(0)
	}
}

// RecordFailure records a run that did not commit. status is one of the
// Status constants.
func (r *Recorder) RecordFailure(status string, duration time.Duration) {
	r.runsTotal.WithLabelValues(status).Inc()
	r.runDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordCleared zeroes the current-schedule gauges.
func (r *Recorder) RecordCleared() {
	r.entries.WithLabelValues("constrained").Set(0)
	r.entries.WithLabelValues("unconstrained").Set(0)
	r.makespan.Set(0)
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the recorder's metrics in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
