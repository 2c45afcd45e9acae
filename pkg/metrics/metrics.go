package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "docsite"

	metricLabelHandler = "handler"
	metricLabelStatus  = "status"
	metricLabelSource  = "source"
	metricLabelRemote  = "remote"
	metricLabelKind    = "kind"
)

// Metrics is the structure that holds all prometheus metrics
var (
	// InvalidConfigCounter counts site configs that were rejected by validation
	InvalidConfigCounter = newCounterVec(
		"invalid_config_count",
		"Number of loaded site configs that failed validation",
	)
	// ServiceRequestCounter count the number of requests for each service function
	ServiceRequestCounter = newCounterVec(
		"service_request_count",
		"Count of requests for each handler",
		metricLabelHandler, metricLabelStatus, metricLabelSource,
	)
	// ServiceRequestDuration observe the duration of requests for each service function
	ServiceRequestDuration = newSummaryVec(
		"service_request_duration_seconds",
		"Seconds to unmarshal requests, execute a service function and marshal its reponses",
		metricLabelHandler, metricLabelStatus, metricLabelSource,
	)
	// UpdatesCompletedCounter count the number of completed updates
	UpdatesCompletedCounter = newCounterVec(
		"updates_completed_count",
		"Number of updates that were successfully completed",
	)
	// UpdatesFailedCounter count the number of updates that had an error
	UpdatesFailedCounter = newCounterVec(
		"updates_failed_count",
		"Number of updates that failed due to an error",
	)
	// UpdatesRejectedCounter count the number of updates rejected while another one was running
	UpdatesRejectedCounter = newCounterVec(
		"updates_rejected_count",
		"Number of updates rejected because another update was in progress",
	)
	// UpdateDuration observe the duration of each repo.update() call
	UpdateDuration = newSummaryVec(
		"update_duration_seconds",
		"Duration in seconds for each repo.update() call",
	)
	// NavRequestCounter count the total number of navigation requests
	NavRequestCounter = newCounterVec(
		"nav_request_count",
		"Number of requests for navigation data",
		metricLabelSource,
	)
	// PageRenderDuration observe the duration of on demand page renders
	PageRenderDuration = newSummaryVec(
		"page_render_duration_seconds",
		"Duration in seconds to render a markdown page through the theme",
		metricLabelKind, metricLabelStatus,
	)
	// NumSocketsGauge keep track of the total number of open sockets
	NumSocketsGauge = newGaugeVec(
		"num_sockets_total",
		"Total number of currently open socket connections",
		metricLabelRemote,
	)
	// HistoryPersistFailedCounter count the number of failed attempts to persist the config history
	HistoryPersistFailedCounter = newCounterVec(
		"history_persist_failed_count",
		"Number of failures to store the config history",
	)
)

func newSummaryVec(name, help string, labels ...string) *prometheus.SummaryVec {
	vec := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newCounterVec(name, help string, labels ...string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newGaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	vec := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}
