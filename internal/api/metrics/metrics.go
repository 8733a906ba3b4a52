// Package metrics defines and registers all custom Prometheus metrics for the
// appointments API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// init through promauto and exposed on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "appointments"

// Auth metrics

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - operation: "register" or "login"
//   - result: "success", or the error code on failure (e.g. "invalid_credentials")
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register/login attempts, by result.",
	},
	[]string{"operation", "result"},
)

// GraphQL metrics

// GraphQLRequestsTotal counts executed GraphQL requests.
// Labels:
//   - operation: the operation type ("query", "mutation", "subscription"), or "unknown"
//   - result: "ok" or "error" (any entry in the errors array)
var GraphQLRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "graphql_requests_total",
		Help:      "Total number of GraphQL requests executed.",
	},
	[]string{"operation", "result"},
)

// GraphQLDuration measures GraphQL execution time.
var GraphQLDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "graphql_duration_seconds",
		Help:      "Duration of GraphQL execution from parse to result.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// Appointment metrics

// AppointmentMutationsTotal counts successful appointment writes.
// Label:
//   - operation: "create", "update" or "delete"
var AppointmentMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointment_mutations_total",
		Help:      "Total number of successful appointment mutations.",
	},
	[]string{"operation"},
)

// Audit pipeline metrics

// AuditEventsTotal counts audit events by outcome: "recorded", "failed", "dropped".
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of appointment audit events, by outcome.",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks the number of events waiting in each worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
