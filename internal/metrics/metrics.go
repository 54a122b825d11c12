// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	rpcTotal         *prometheus.CounterVec
	rpcDuration      *prometheus.HistogramVec
	settlementSize   prometheus.Histogram
	ledgerCache      *prometheus.CounterVec
	expensesRecorded *prometheus.CounterVec
	membersChanged   *prometheus.CounterVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		rpcTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitly_rpc_requests_total",
				Help: "Total number of RPC requests handled",
			},
			[]string{"procedure", "code"},
		),
		rpcDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "splitly_rpc_duration_milliseconds",
				Help:    "RPC handling duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"procedure"},
		),
		settlementSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "splitly_settlement_transactions",
				Help:    "Number of transactions in computed settlement plans",
				Buckets: prometheus.LinearBuckets(0, 2, 10),
			},
		),
		ledgerCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitly_ledger_cache_lookups_total",
				Help: "Ledger report cache lookups by result",
			},
			[]string{"result"},
		),
		expensesRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitly_expenses_recorded_total",
				Help: "Total number of expenses recorded, by category",
			},
			[]string{"category"},
		),
		membersChanged: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitly_member_changes_total",
				Help: "Members added or removed",
			},
			[]string{"action"},
		),
	}
}

// RecordRPC records one handled RPC.
func (m *Metrics) RecordRPC(procedure, code string, duration time.Duration) {
	if m == nil {
		return
	}
	m.rpcTotal.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(float64(duration.Milliseconds()))
}

// RecordSettlement records the size of a computed settlement plan.
func (m *Metrics) RecordSettlement(transactions int) {
	if m == nil {
		return
	}
	m.settlementSize.Observe(float64(transactions))
}

// RecordCacheLookup records a ledger cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.ledgerCache.WithLabelValues(result).Inc()
}

// RecordExpense records a newly added expense.
func (m *Metrics) RecordExpense(category string) {
	if m == nil {
		return
	}
	m.expensesRecorded.WithLabelValues(category).Inc()
}

// RecordMemberChange records a member being added or removed.
func (m *Metrics) RecordMemberChange(action string) {
	if m == nil {
		return
	}
	m.membersChanged.WithLabelValues(action).Inc()
}
