// Package metrics defines the Prometheus metrics of the client: outbound calls
// to the users service and session lifecycle events seen by the console.
//
// All metrics register with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ams_client"

// ── Gateway metrics ───────────────────────────────────────────────────────────

// GatewayRequestsTotal counts calls to the users service.
// Labels:
//   - operation: "register", "authenticate" or "dashboard"
//   - outcome: "ok" or the error kind (e.g. "network", "unauthorized")
var GatewayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Total number of requests issued to the users service, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// GatewayRequestDuration measures round-trip latency to the users service.
// Label:
//   - operation: "register", "authenticate" or "dashboard"
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of requests to the users service.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionEventsTotal counts session lifecycle transitions.
// Label:
//   - event: "login", "logout", "rejected" (401 from the server),
//     "redirected" (guard sent the browser to login), "stale" (response discarded)
var SessionEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_total",
		Help:      "Total number of session lifecycle events, by event.",
	},
	[]string{"event"},
)

// DashboardViewsTotal counts rendered dashboards.
// Label:
//   - role: the session role, or "none" for the fallback view
var DashboardViewsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dashboard_views_total",
		Help:      "Total number of dashboards rendered, by role.",
	},
	[]string{"role"},
)
