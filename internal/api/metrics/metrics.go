// Package metrics defines the custom Prometheus metrics of the storefront
// API. It is the single source of truth for metric names, labels and help
// strings. Metrics register with the default registry on package init.
package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Fritte91/247LocalFinest/internal/core/session"
)

const namespace = "localfinest"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionLoadsTotal counts session loads from the persistence bridge.
// Labels:
//   - key: "user" or "cart"
//   - result: found, absent, corrupt, failed
var SessionLoadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_loads_total",
		Help:      "Total number of session blobs read at session load, by key and result.",
	},
	[]string{"key", "result"},
)

// CartOperationsTotal counts cart mutations.
// Label:
//   - op: add, remove, update, clear
var CartOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_operations_total",
		Help:      "Total number of cart mutations, by operation.",
	},
	[]string{"op"},
)

// PersistenceFailuresTotal counts writes the bridge rejected.
// Labels:
//   - key: "user" or "cart"
//   - path: "sync" for write-through, "async" for write-behind flushes
var PersistenceFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_persistence_failures_total",
		Help:      "Total number of session writes the persistence bridge rejected.",
	},
	[]string{"key", "path"},
)

// ── Commerce metrics ──────────────────────────────────────────────────────────

// OrdersPlacedTotal counts placed orders.
// Label:
//   - result: "created" or "replayed"
var OrdersPlacedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Total number of checkout requests that produced an order.",
	},
	[]string{"result"},
)

var ProductsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_created_total",
		Help:      "Total number of catalog products created, by category.",
	},
	[]string{"category"},
)

var ImagesUploadedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "images_uploaded_total",
		Help:      "Total number of product images uploaded.",
	},
)

// ── Gauges backed by live components ──────────────────────────────────────────

var gaugeOnce sync.Map

// RegisterGaugeFunc exposes fn as a gauge. Registering the same name twice
// keeps the first function.
func RegisterGaugeFunc(name, help string, fn func() float64) {
	if _, loaded := gaugeOnce.LoadOrStore(name, struct{}{}); loaded {
		return
	}
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, fn)
}

// SessionObserver feeds session load results into SessionLoadsTotal.
type SessionObserver struct{}

func (SessionObserver) SessionLoaded(r session.LoadReport) {
	SessionLoadsTotal.WithLabelValues(session.KeyUser, string(r.User)).Inc()
	SessionLoadsTotal.WithLabelValues(session.KeyCart, string(r.Cart)).Inc()
}

// WriteBehindFailed is the write-behind failure hook. Keys arrive fully
// namespaced, so only the final segment is used as label.
func WriteBehindFailed(key string, _ error) {
	PersistenceFailuresTotal.WithLabelValues(blobKind(key), "async").Inc()
}

func blobKind(key string) string {
	if i := strings.LastIndexByte(key, ':'); i >= 0 {
		return key[i+1:]
	}
	return key
}
