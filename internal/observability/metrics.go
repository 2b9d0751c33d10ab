// Package observability provides prometheus metrics for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedbacknexus_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// MessagesSubmitted counts accepted anonymous submissions.
	MessagesSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedbacknexus_messages_submitted_total",
		Help: "Total number of anonymous messages accepted",
	})

	// MessagesRejected counts rejected submissions by reason.
	MessagesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedbacknexus_messages_rejected_total",
		Help: "Total number of anonymous messages rejected by reason",
	}, []string{"reason"})

	// PagesCreated counts feedback pages created.
	PagesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feedbacknexus_pages_created_total",
		Help: "Total number of feedback pages created",
	})

	// AIRequests counts AI provider calls by operation and outcome.
	AIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedbacknexus_ai_requests_total",
		Help: "Total number of AI provider requests by operation and outcome",
	}, []string{"operation", "outcome"})

	// AIRequestDuration records AI provider call latency by operation.
	AIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "feedbacknexus_ai_request_duration_seconds",
		Help:    "AI provider request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)
