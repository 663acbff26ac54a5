// Package metrics defines and registers all custom Prometheus metrics for the
// enrollment pipeline. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "enrollment"

// ── Purchase metrics ──────────────────────────────────────────────────────────

// PurchasesProcessedTotal counts purchase events that completed processing.
// Label:
//   - outcome: "new_account_enrolled", "existing_account_enrolled",
//     "already_enrolled" or "already_processed"
var PurchasesProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchases_processed_total",
		Help:      "Total number of purchase events processed, by outcome.",
	},
	[]string{"outcome"},
)

// PurchasesErrorsTotal counts purchase events that failed processing.
// Label:
//   - reason: "validation", "course_not_found", "storage" or "internal"
var PurchasesErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchases_errors_total",
		Help:      "Total number of purchase events that failed processing.",
	},
	[]string{"reason"},
)

// PurchaseProcessingDuration measures how long a single purchase takes to
// process end-to-end.
// Label:
//   - outcome: the resulting outcome kind, or "error" on failure
var PurchaseProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "purchase_processing_duration_seconds",
		Help:      "Duration of purchase processing from request to ledger commit.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// ── Ledger metrics ────────────────────────────────────────────────────────────

// LedgerCacheTotal counts ledger cache lookups.
// Label:
//   - result: "hit" or "miss"
var LedgerCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_cache_total",
		Help:      "Total number of ledger cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts welcome notifications.
// Label:
//   - result: "sent", "failed" or "dropped" (queue full)
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of welcome notifications, by delivery result.",
	},
	[]string{"result"},
)

// NotificationQueueDepth tracks the number of welcome messages waiting in each
// worker channel.
// Label:
//   - worker_id: numeric worker index
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of welcome messages pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
