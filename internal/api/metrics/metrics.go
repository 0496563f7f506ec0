// Package metrics defines and registers all custom Prometheus metrics for the
// marketplace API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// init through promauto, and exposed by the echoprometheus handler on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "failed" (bad credentials), "inactive" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenVerificationsTotal counts bearer tokens examined by the authentication gate.
// Label:
//   - result: "ok", "invalid", "expired" or "unknown_account"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer tokens verified by the authentication gate.",
	},
	[]string{"result"},
)

// AuthorizationDenialsTotal counts requests refused by an authorization rule.
// Label:
//   - code: the stable error code (e.g. "FORBIDDEN", "OPERATION_NOT_ALLOWED")
var AuthorizationDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denials_total",
		Help:      "Total number of requests denied by role, ownership or self-action rules.",
	},
	[]string{"code"},
)

// ── Lifecycle metrics ─────────────────────────────────────────────────────────

// AccountsCreatedTotal counts new accounts.
// Label:
//   - role: "ADMIN", "DEALER" or "CLIENT"
var AccountsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_created_total",
		Help:      "Total number of accounts created, by role.",
	},
	[]string{"role"},
)

// StatusTogglesTotal counts successful status toggles.
// Labels:
//   - resource: "account" or "product"
//   - status: the status after the toggle
var StatusTogglesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_toggles_total",
		Help:      "Total number of account and product status toggles.",
	},
	[]string{"resource", "status"},
)

// ── Activity trail metrics ────────────────────────────────────────────────────

// ActivityQueueDepth tracks the number of activity events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityDeliveriesTotal counts activity events handed to the downstream sink.
// Label:
//   - result: "ok", "error" or "dropped" (worker channel full or dispatcher stopped)
var ActivityDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_deliveries_total",
		Help:      "Total number of activity events delivered to the activity stream.",
	},
	[]string{"result"},
)
