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
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: prometheus.DefBuckets,
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

	ValidationFindings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_validation_findings_total",
			Help: "Validation findings reported, by entity kind and finding kind",
		},
		[]string{"entity_kind", "kind", "severity"},
	)

	SuggestionsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_suggestions_generated_total",
			Help: "Correction suggestions produced, by category",
		},
		[]string{"category"},
	)

	CorrectionsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_corrections_applied_total",
			Help: "Correction suggestions merged into datasets",
		},
		[]string{"category"},
	)

	RulesParsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nl_rules_parsed_total",
			Help: "Natural-language rule parses, by resulting rule type",
		},
		[]string{"rule_type", "can_apply"},
	)

	RecordsIndexed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "export_records_indexed_total",
			Help: "Cleaned records written to the search index",
		},
		[]string{"entity_kind"},
	)
)

// ObserveJob records the outcome of one job. errorCode is empty on success.
func ObserveJob(taskType string, started time.Time, errorCode string) {
	WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(started).Seconds())
	if errorCode == "" {
		WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		return
	}
	WorkerJobsFailed.WithLabelValues(taskType, errorCode).Inc()
}
