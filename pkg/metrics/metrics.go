package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	formAnalyzer = "form_analyzer"

	// Job metrics
	jobsTotal           = "jobs_total"
	pipelineDuration    = "pipeline_duration_seconds"
	framesProcessed     = "frames_processed_total"
	classificationTotal = "classifications_total"

	// Labels
	jobOutcomeLabel           = "outcome"
	classificationSourceLabel = "source"
	activityLabel             = "activity"
)

// Job outcome label values.
const (
	JobOutcomeCompleted = "completed"
	JobOutcomeFailed    = "failed"
)

var jobsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: formAnalyzer,
		Name:      jobsTotal,
		Help:      "number of analysis jobs by terminal outcome",
	},
	[]string{jobOutcomeLabel},
)

var pipelineDurationMetric = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Subsystem: formAnalyzer,
		Name:      pipelineDuration,
		Help:      "wall time of a full pipeline run",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60},
	},
)

var framesProcessedMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: formAnalyzer,
		Name:      framesProcessed,
		Help:      "number of sampled frames with a detected pose",
	},
)

var classificationsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: formAnalyzer,
		Name:      classificationTotal,
		Help:      "number of clip classifications by activity and strategy",
	},
	[]string{activityLabel, classificationSourceLabel},
)

func IncreaseJobsTotalMetric(outcome string) {
	jobsTotalMetric.With(prometheus.Labels{jobOutcomeLabel: outcome}).Inc()
}

func ObservePipelineDurationMetric(seconds float64) {
	pipelineDurationMetric.Observe(seconds)
}

func AddFramesProcessedMetric(count int) {
	framesProcessedMetric.Add(float64(count))
}

func IncreaseClassificationsTotalMetric(activity, source string) {
	labels := prometheus.Labels{
		activityLabel:             activity,
		classificationSourceLabel: source,
	}
	classificationsTotalMetric.With(labels).Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(jobsTotalMetric)
	prometheus.MustRegister(pipelineDurationMetric)
	prometheus.MustRegister(framesProcessedMetric)
	prometheus.MustRegister(classificationsTotalMetric)
}
