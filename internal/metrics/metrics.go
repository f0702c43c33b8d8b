// Package metrics exposes the Prometheus counters of the identity core.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "locus"

type Metrics struct {
	logins       *prometheus.CounterVec
	handshakes   *prometheus.CounterVec
	identifiers  *prometheus.CounterVec
	cacheSweeps  *prometheus.CounterVec
	sweepLatency prometheus.Observer
}

var (
	once     sync.Once
	instance *Metrics
)

// Default returns the process-wide metrics, registering them on first use.
func Default() *Metrics {
	once.Do(func() {
		instance = newMetrics()
	})
	return instance
}

func newMetrics() *Metrics {
	return &Metrics{
		logins: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Authentication attempts, labeled by result",
		}, []string{"result"}),
		handshakes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "handshakes_total",
			Help:      "Handshake tokens issued and redeemed, labeled by operation and result",
		}, []string{"operation", "result"}),
		identifiers: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "idgen",
			Name:      "identifiers_total",
			Help:      "Identifiers minted, labeled by table and result",
		}, []string{"table", "result"}),
		cacheSweeps: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "sweeps_total",
			Help:      "Scheduled cache sweeps, labeled by result",
		}, []string{"result"}),
		sweepLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "sweep_duration_seconds",
			Help:      "Duration of scheduled cache sweeps",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

func (m *Metrics) RecordLogin(ok bool) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result(ok)).Inc()
}

func (m *Metrics) RecordHandshakeIssued(ok bool) {
	if m == nil {
		return
	}
	m.handshakes.WithLabelValues("issue", result(ok)).Inc()
}

func (m *Metrics) RecordHandshakeRedeemed(ok bool) {
	if m == nil {
		return
	}
	m.handshakes.WithLabelValues("redeem", result(ok)).Inc()
}

func (m *Metrics) RecordIdentifier(table string, ok bool) {
	if m == nil {
		return
	}
	m.identifiers.WithLabelValues(table, result(ok)).Inc()
}

// RecordSweep counts a sweep and returns a func that observes its duration.
func (m *Metrics) RecordSweep() func(ok bool) {
	if m == nil {
		return func(bool) {}
	}
	timer := prometheus.NewTimer(m.sweepLatency)
	return func(ok bool) {
		timer.ObserveDuration()
		m.cacheSweeps.WithLabelValues(result(ok)).Inc()
	}
}
