// Package metrics defines the custom Prometheus metrics of the HBnB API.
// Metrics register with the default registry on import through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hbnb"

// ── Object lifecycle ──────────────────────────────────────────────────────────

// ObjectsWrittenTotal counts committed object changes.
// Labels:
//   - kind: Amenity, User, State or City
//   - op: "create", "update" or "delete" (cascaded deletes included)
var ObjectsWrittenTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "objects_written_total",
		Help:      "Total number of objects created, updated or deleted.",
	},
	[]string{"kind", "op"},
)

// StorageSaveDuration measures how long a session commit takes.
var StorageSaveDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "storage_save_duration_seconds",
		Help:      "Duration of storage session commits.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"op"},
)

// ── Requests ──────────────────────────────────────────────────────────────────

// IdempotencyTotal counts idempotency key lookups.
// Label:
//   - result: "hit" (replayed) or "miss"
var IdempotencyTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotency_total",
		Help:      "Total number of idempotency key checks, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts by result ("success" or "failure").
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts.",
	},
	[]string{"result"},
)
