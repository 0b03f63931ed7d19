// Package metrics defines and registers all custom Prometheus metrics for the
// delivery map API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Collectors register with the default Prometheus registry on import; the
// router exposes them on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "delivery_map"

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts served requests.
// Labels:
//   - method: HTTP method
//   - route: the route template (e.g. "/data/:recId"), never the raw path
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests served.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request latency end-to-end.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests, including the record store round trip.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ── Geometry metrics ──────────────────────────────────────────────────────────

// FeaturesEmittedTotal counts GeoJSON features returned to clients.
// Label:
//   - event: properties.event of the feature ("delivered", "route_stolen", …),
//     or "none" for legacy points
var FeaturesEmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "features_emitted_total",
		Help:      "Total number of GeoJSON features emitted, by event.",
	},
	[]string{"event"},
)

// ── Record store metrics ──────────────────────────────────────────────────────

// StoreErrorsTotal counts failed record store calls.
// Labels:
//   - operation: "find" or "list"
//   - kind: "not_found", "unauthorized" or "upstream"
var StoreErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_errors_total",
		Help:      "Total number of record store failures, by operation and kind.",
	},
	[]string{"operation", "kind"},
)
