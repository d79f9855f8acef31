// Package metrics defines the Prometheus counters for ledger activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ledger"

// Settlement modes for SharesSettled.
const (
	ModeFull    = "full"
	ModePartial = "partial"
)

// Metrics holds the ledger counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	ExpensesCreated     prometheus.Counter
	SharesCreated       prometheus.Counter
	Payments            prometheus.Counter
	SharesSettled       *prometheus.CounterVec
	PaymentsUnapplied   prometheus.Counter
	SettlementConflicts prometheus.Counter
}

// New registers the ledger counters with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ExpensesCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_created_total",
			Help:      "Expenses persisted with their shares.",
		}),
		SharesCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shares_created_total",
			Help:      "Obligation rows created by the share calculator.",
		}),
		Payments: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_total",
			Help:      "Payments recorded and settled.",
		}),
		SharesSettled: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shares_settled_total",
			Help:      "Shares closed by payments, by mode (full or partial).",
		}, []string{"mode"}),
		PaymentsUnapplied: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_unapplied_total",
			Help:      "Payments that exceeded the outstanding debt and left a surplus.",
		}),
		SettlementConflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_conflicts_total",
			Help:      "Settlements aborted by a concurrent modification.",
		}),
	}
}

// ExpenseCreated records one expense and its share rows.
func (m *Metrics) ExpenseCreated(shares int) {
	if m == nil {
		return
	}
	m.ExpensesCreated.Inc()
	m.SharesCreated.Add(float64(shares))
}

// PaymentSettled records one payment's effect on the ledger.
func (m *Metrics) PaymentSettled(full int, partial bool, surplus bool) {
	if m == nil {
		return
	}
	m.Payments.Inc()
	if full > 0 {
		m.SharesSettled.WithLabelValues(ModeFull).Add(float64(full))
	}
	if partial {
		m.SharesSettled.WithLabelValues(ModePartial).Inc()
	}
	if surplus {
		m.PaymentsUnapplied.Inc()
	}
}

// SettlementConflict records a settlement rolled back by a version check.
func (m *Metrics) SettlementConflict() {
	if m == nil {
		return
	}
	m.SettlementConflicts.Inc()
}
