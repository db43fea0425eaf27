// Package metrics defines and registers all custom Prometheus metrics for the
// personnel API. It is the single source of truth for metric names, labels,
// and help strings; metrics register with the default registry at import time
// via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "personnel"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "bad_credentials", "invalid_input", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts completed registrations by role.
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of successful registrations, by role.",
	},
	[]string{"role"},
)

// TokenVerificationsTotal counts bearer-token verifications at the middleware.
// Label:
//   - result: "ok", "missing", or "invalid"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token verifications, by result.",
	},
	[]string{"result"},
)

// ── Login feed metrics ────────────────────────────────────────────────────────

// LoginFeedQueueDepth tracks the number of login events waiting in each
// dispatcher worker channel.
var LoginFeedQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "login_feed_queue_depth",
		Help:      "Current number of login events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// LoginFeedErrorsTotal counts login events that never reached the feed.
// Label:
//   - reason: "queue_full" or "record_failed"
var LoginFeedErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_feed_errors_total",
		Help:      "Total number of login events dropped or failed before reaching the feed.",
	},
	[]string{"reason"},
)
