// Package metrics defines and registers all custom Prometheus metrics for the
// homeworks API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "homeworks"

// ── Store metrics ─────────────────────────────────────────────────────────────

// StoreErrorsTotal counts failed store calls surfaced to a user action.
// Labels:
//   - store: "history", "taxonomy", "profile" or "identity"
//   - kind: "read" or "write"
var StoreErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_errors_total",
		Help:      "Total number of failed store calls, by store and kind.",
	},
	[]string{"store", "kind"},
)

// ChoresRecordedTotal counts completion records written.
var ChoresRecordedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chores_recorded_total",
		Help:      "Total number of completion records inserted.",
	},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// ActiveSessions tracks the number of live per-user session states.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Current number of in-memory user sessions.",
	},
)

// StaleFetchesTotal counts fetch results discarded because the list they were
// issued for changed while they were in flight.
// Label:
//   - list: "history" or "taxonomy"
var StaleFetchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_fetches_total",
		Help:      "Total number of superseded fetch results that were discarded.",
	},
	[]string{"list"},
)

// FetchDuration measures a window or taxonomy fetch end-to-end.
var FetchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Duration of session list fetches.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"list"},
)

// ── Event broker metrics ──────────────────────────────────────────────────────

// EventsPublishedTotal counts change events handed to the broker.
// Label:
//   - type: the event type (e.g. "history.created")
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of change events published.",
	},
	[]string{"type"},
)

// EventsDroppedTotal counts deliveries skipped because a subscriber's buffer was full.
var EventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_dropped_total",
		Help:      "Total number of change event deliveries dropped on a full subscriber queue.",
	},
)

// EventsQueueDepth tracks the events waiting across all subscriber queues.
var EventsQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of change events pending delivery.",
	},
)

// FeedConnections tracks open websocket change feeds.
var FeedConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "feed_connections",
		Help:      "Current number of open live change feed connections.",
	},
)
