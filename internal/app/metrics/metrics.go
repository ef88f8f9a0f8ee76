package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	jobsStartedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "v2q_jobs_started_total",
			Help: "Total number of pipeline runs started.",
		},
	)

	jobsFinishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "v2q_jobs_finished_total",
			Help: "Total number of pipeline runs finished, labeled by terminal status.",
		},
		[]string{"status"}, // 'completed', 'failed'
	)

	jobsRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "v2q_jobs_rejected_total",
			Help: "Total number of pipeline runs rejected by admission control.",
		},
	)

	stageDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "v2q_stage_duration_seconds",
			Help:    "Wall-clock duration of stage client calls.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		},
		[]string{"stage", "outcome"}, // outcome: 'success', 'failure'
	)
)

// MustRegister registers all pipeline collectors exactly once.
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			jobsStartedTotal,
			jobsFinishedTotal,
			jobsRejectedTotal,
			stageDurationSeconds,
		)
	})
}

func IncJobStarted() { jobsStartedTotal.Inc() }

func IncJobFinished(status string) { jobsFinishedTotal.WithLabelValues(status).Inc() }

func IncJobRejected() { jobsRejectedTotal.Inc() }

func ObserveStage(stage string, d time.Duration, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	stageDurationSeconds.WithLabelValues(stage, outcome).Observe(d.Seconds())
}
