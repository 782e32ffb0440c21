// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	CategoryLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gift_search_category_lookups_total",
			Help: "Per-category product lookups by outcome",
		},
		[]string{"status"},
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gift_search_duration_seconds",
			Help:    "Wall-clock duration of a multi-category search",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gift_search_results_total",
			Help:    "Products returned per multi-category search",
			Buckets: prometheus.LinearBuckets(0, 4, 6),
		},
	)
)

// Lookup outcome labels.
const (
	LookupSuccess = "success"
	LookupFailure = "failure"
	LookupTimeout = "timeout"
)

// RecordLookup counts a single category lookup.
func RecordLookup(status string) {
	CategoryLookups.WithLabelValues(status).Inc()
}

// ObserveSearch records one completed multi-category search.
func ObserveSearch(elapsed time.Duration, totalResults int) {
	SearchDuration.Observe(elapsed.Seconds())
	SearchResults.Observe(float64(totalResults))
}

// ObserveJob records a finished worker job.
func ObserveJob(taskType string, elapsed time.Duration, errorCode string) {
	WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
	if errorCode == "" {
		WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		return
	}
	WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
}
