// Package metrics defines and registers the custom Prometheus metrics of the
// trading shell. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tradeshift"

// ── Gateway metrics ───────────────────────────────────────────────────────────

// GatewayRequestDuration measures outgoing API calls.
// Labels:
//   - method: HTTP method
//   - status: status class ("2xx", "4xx", "5xx") or "network_error"
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of requests sent to the trading API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "status"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// GuardDecisionsTotal counts route guard verdicts.
// Label:
//   - outcome: "allowed" or "redirected"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of protected navigations, by outcome.",
	},
	[]string{"outcome"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersSubmittedTotal counts order submissions that reached the network.
// Labels:
//   - side: "BUY" or "SELL"
//   - result: "success" or "failure"
var OrdersSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_submitted_total",
		Help:      "Total number of orders sent to the trading API.",
	},
	[]string{"side", "result"},
)

// OrdersRejectedLocallyTotal counts submissions blocked before the network.
var OrdersRejectedLocallyTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_rejected_locally_total",
		Help:      "Total number of order submissions blocked by client-side validation.",
	},
)

// StreamsActive tracks open live-price websocket streams.
// Label:
//   - view: "dashboard" or "analytics"
var StreamsActive = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "streams_active",
		Help:      "Current number of open live-data streams.",
	},
	[]string{"view"},
)

// StatusClass buckets an HTTP status for the status label.
func StatusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	}
	return "1xx"
}
