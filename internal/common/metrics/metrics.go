// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_requests_total",
			Help: "Total number of chat requests by outcome",
		},
		[]string{"outcome"},
	)

	IntentMatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_intent_matches_total",
			Help: "Total number of intent matches by preset name",
		},
		[]string{"preset"},
	)

	ReportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "chat_report_duration_seconds",
			Help: "Duration of report query execution in seconds",
		},
		[]string{"report"},
	)

	DocumentJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_document_jobs_total",
			Help: "Total number of PDF generation requests by status",
		},
		[]string{"status"},
	)
)
