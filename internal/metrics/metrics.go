package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geoalert_events_ingested_total",
		Help: "Total number of validated pings appended to the event log.",
	})

	AlertsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geoalert_alerts_sent_total",
		Help: "Total number of alert emails handed to the SMTP transport.",
	})

	AlertsSuppressed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geoalert_alerts_suppressed_total",
		Help: "Total number of alerts suppressed by the gate, labelled by reason.",
	}, []string{"reason"})

	NotifyFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geoalert_notify_failures_total",
		Help: "Total number of alert sends that failed after the event was persisted.",
	})

	TokensIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "geoalert_tokens_issued_total",
		Help: "Total number of capability tokens minted.",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "geoalert_http_request_duration_ms",
		Help:    "HTTP request latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}, []string{"path", "method", "status"})
)
