// Package metrics defines and registers all custom Prometheus metrics for the
// KYC verification service. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kyc"

// StepsProcessedTotal counts verification step attempts.
// Labels:
//   - step: "step_one", "step_two", "step_three"
//   - outcome: "approved", "invalid_input", "forbidden", "conflict",
//     "rejected", "provider_error", "error"
var StepsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "steps_processed_total",
		Help:      "Total number of verification step attempts, by step and outcome.",
	},
	[]string{"step", "outcome"},
)

// ProviderRequestsTotal counts calls to the external identity provider.
// Labels:
//   - capability: "ocr" or "face_match"
//   - outcome: "ok" or "error"
var ProviderRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_requests_total",
		Help:      "Total number of identity provider calls, by capability and outcome.",
	},
	[]string{"capability", "outcome"},
)

// ProviderRequestDuration measures end-to-end latency of provider calls.
// Label:
//   - capability: "ocr" or "face_match"
var ProviderRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_request_duration_seconds",
		Help:      "Duration of identity provider calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"capability"},
)

// AuditQueueDepth tracks the number of audit entries waiting in each worker
// channel of the audit dispatcher.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AttemptsLimitedTotal counts step submissions refused by the per-user
// attempt limiter.
var AttemptsLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attempts_limited_total",
		Help:      "Total number of step submissions rejected by the attempt limiter.",
	},
)
