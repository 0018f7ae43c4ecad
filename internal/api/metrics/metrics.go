// Package metrics defines the custom Prometheus metrics of the tutor API.
// HTTP request metrics come from the echoprometheus middleware; the ones here
// count domain outcomes. All are registered on the default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tutor"

// RegistrationsTotal counts created accounts.
// Label:
//   - method: "password" or the federated provider name (e.g. "google")
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created, by sign-up method.",
	},
	[]string{"method"},
)

// LoginsTotal counts token requests.
// Labels:
//   - method: "password" or the federated provider name
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by method and result.",
	},
	[]string{"method", "result"},
)

// AuthRejectionsTotal counts requests refused by the bearer middleware.
// Label:
//   - reason: "missing_header", "malformed_header" or "invalid_token"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected for missing or invalid credentials.",
	},
	[]string{"reason"},
)

// SyncItemsTotal counts progress items received on /sync/push.
// Label:
//   - outcome: "inserted", "completed" or "unchanged"
var SyncItemsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_items_total",
		Help:      "Total number of pushed progress items, by merge outcome.",
	},
	[]string{"outcome"},
)

// ChatRequestsTotal counts proxied chat calls.
// Label:
//   - result: "ok", "no_credential", "upstream_error" or "error"
var ChatRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_requests_total",
		Help:      "Total number of chat proxy requests, by result.",
	},
	[]string{"result"},
)

// ChatDuration measures the time spent waiting on the upstream provider.
var ChatDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "chat_upstream_duration_seconds",
		Help:      "Duration of chat proxy calls including the upstream round trip.",
		Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 20, 45},
	},
)
