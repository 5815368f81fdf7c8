package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SettlementMetrics records cross-ledger call activity: every dispatched call
// and every delivery outcome.
type SettlementMetrics struct {
	dispatched *prometheus.CounterVec
	delivered  *prometheus.CounterVec
}

// LedgerMetrics records JSON-RPC ledger operation activity.
type LedgerMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

var (
	settlementOnce sync.Once
	settlementReg  *SettlementMetrics

	ledgerOnce sync.Once
	ledgerReg  *LedgerMetrics
)

// Settlement returns the lazily-initialised settlement metrics registry.
func Settlement() *SettlementMetrics {
	settlementOnce.Do(func() {
		settlementReg = &SettlementMetrics{
			dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "artledger",
				Subsystem: "settlement",
				Name:      "dispatched_total",
				Help:      "Cross-ledger calls entering the dispatch queue.",
			}, []string{"target", "method"}),
			delivered: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "artledger",
				Subsystem: "settlement",
				Name:      "delivered_total",
				Help:      "Cross-ledger call deliveries segmented by outcome.",
			}, []string{"target", "method", "outcome"}),
		}
		prometheus.MustRegister(settlementReg.dispatched, settlementReg.delivered)
	})
	return settlementReg
}

// Dispatched counts a call entering the queue.
func (m *SettlementMetrics) Dispatched(target, method string) {
	if m == nil {
		return
	}
	m.dispatched.WithLabelValues(target, method).Inc()
}

// Delivered counts a delivery attempt and its outcome.
func (m *SettlementMetrics) Delivered(target, method string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.delivered.WithLabelValues(target, method, outcome).Inc()
}

// Ledger returns the lazily-initialised ledger RPC metrics registry.
func Ledger() *LedgerMetrics {
	ledgerOnce.Do(func() {
		ledgerReg = &LedgerMetrics{
			requests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "artledger",
				Subsystem: "rpc",
				Name:      "requests_total",
				Help:      "JSON-RPC requests segmented by method and outcome.",
			}, []string{"method", "outcome"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "artledger",
				Subsystem: "rpc",
				Name:      "request_seconds",
				Help:      "JSON-RPC request latency in seconds.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"method"}),
		}
		prometheus.MustRegister(ledgerReg.requests, ledgerReg.latency)
	})
	return ledgerReg
}

// Observe records one request with its latency and outcome.
func (m *LedgerMetrics) Observe(method string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.requests.WithLabelValues(method, outcome).Inc()
	m.latency.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
