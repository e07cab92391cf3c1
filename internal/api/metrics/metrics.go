// Package metrics defines and registers all custom Prometheus metrics for
// the seller system. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry via promauto at package
// init; the /metrics endpoint is mounted by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sellers"

// ── Identity metrics ──────────────────────────────────────────────────────────

// RegistrationsTotal counts successfully created seller accounts.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of seller accounts created.",
	},
)

// LoginsTotal counts authentication attempts.
// Label:
//   - result: "success", "failure" or "blocked" (throttled before the
//     password was even checked)
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// TokenValidationsTotal counts bearer token checks performed by the auth
// middleware.
// Label:
//   - result: "ok" or "invalid" (forged, malformed and expired tokens are
//     deliberately not distinguished)
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of bearer token validations, labelled by result.",
	},
	[]string{"result"},
)

// ── Audit trail metrics ───────────────────────────────────────────────────────

// AuditEventsProcessedTotal counts lifecycle events persisted to the audit
// trail.
// Label:
//   - action: "registered", "updated" or "deleted"
var AuditEventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_processed_total",
		Help:      "Total number of seller lifecycle events written to the audit trail.",
	},
	[]string{"action"},
)

// AuditErrorsTotal counts audit events that failed to persist.
var AuditErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_errors_total",
		Help:      "Total number of audit trail writes that failed.",
	},
)

// AuditQueueDepth tracks the number of events waiting in each dispatcher
// worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
