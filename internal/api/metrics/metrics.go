// Package metrics defines and registers all custom Prometheus metrics for the
// workforce API. It is the single source of truth for metric names, labels,
// and help strings. Registration happens at import time via promauto against
// the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "workforce"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "invalid_credentials", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthzDeniedTotal counts authorization rejections at the boundary.
// Label:
//   - kind: "unauthenticated" or "forbidden"
var AuthzDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denied_total",
		Help:      "Total number of rejected requests, by rejection kind.",
	},
	[]string{"kind"},
)

// ── Attendance metrics ────────────────────────────────────────────────────────

// AttendanceOpsTotal counts time-clock mutations.
// Labels:
//   - op: "clock_in", "clock_out", or "mark_absent"
//   - result: "ok" or "conflict"
var AttendanceOpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "attendance_ops_total",
		Help:      "Total number of attendance mutations, by operation and result.",
	},
	[]string{"op", "result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events that reached the store.
// Label:
//   - result: "ok" or "error"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of attendance audit events persisted, by result.",
	},
	[]string{"result"},
)

// AuditDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new event, persisted)
var AuditDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dedup_total",
		Help:      "Total number of audit deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
