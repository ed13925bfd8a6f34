package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

var _ Ledger = (*ledgerMetrics)(nil)

type ledgerMetrics struct {
	paymentsCreated     *prometheus.CounterVec
	transitions         *prometheus.CounterVec
	transitionsRejected *prometheus.CounterVec
	entriesAppended     *prometheus.CounterVec
	integrityChecks     *prometheus.CounterVec
}

func newLedgerMetrics(registry *promRegistry) *ledgerMetrics {
	paymentsCreated := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_payments_created_total",
			Help: "Total number of payments accepted into the ledger",
		},
		[]string{"method", "currency"},
	)

	transitions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_status_transitions_total",
			Help: "Total number of successful payment status transitions",
		},
		[]string{"from", "to"},
	)

	transitionsRejected := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_status_transitions_rejected_total",
			Help: "Total number of rejected payment status transitions",
		},
		[]string{"from", "to"},
	)

	entriesAppended := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_log_entries_total",
			Help: "Total number of transaction log entries appended",
		},
		[]string{"type"},
	)

	integrityChecks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_integrity_checks_total",
			Help: "Total number of log integrity verifications by result",
		},
		[]string{"result"},
	)

	registry.registry.MustRegister(
		paymentsCreated,
		transitions,
		transitionsRejected,
		entriesAppended,
		integrityChecks,
	)

	return &ledgerMetrics{
		paymentsCreated:     paymentsCreated,
		transitions:         transitions,
		transitionsRejected: transitionsRejected,
		entriesAppended:     entriesAppended,
		integrityChecks:     integrityChecks,
	}
}

func (m *ledgerMetrics) PaymentCreated(method, currency string) {
	m.paymentsCreated.WithLabelValues(method, currency).Add(1)
}

func (m *ledgerMetrics) Transition(from, to string) {
	m.transitions.WithLabelValues(from, to).Add(1)
}

func (m *ledgerMetrics) TransitionRejected(from, to string) {
	m.transitionsRejected.WithLabelValues(from, to).Add(1)
}

func (m *ledgerMetrics) EntryAppended(entryType string) {
	m.entriesAppended.WithLabelValues(entryType).Add(1)
}

func (m *ledgerMetrics) IntegrityCheck(ok bool) {
	result := "ok"
	if !ok {
		result = "mismatch"
	}
	m.integrityChecks.WithLabelValues(result).Add(1)
}
