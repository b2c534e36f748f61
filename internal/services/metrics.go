package services

import (
	"sync/atomic"

	"github.com/MohdAnasQureshi/groceryshop/pkg/prom"
)

// LedgerMetrics mirrors the prometheus ledger counters with local atomics so
// tests and the health endpoint can read them without a registry scrape.
type LedgerMetrics struct {
	recorded int64
	edited   int64
	deleted  int64
	drift    int64
}

func NewLedgerMetrics() *LedgerMetrics {
	return &LedgerMetrics{}
}

func (m *LedgerMetrics) TransactionRecorded(txnType string) {
	atomic.AddInt64(&m.recorded, 1)
	prom.IncCounterVec(prom.SystemLedger, prom.MetricTransactionsRecorded, txnType)
}

func (m *LedgerMetrics) TransactionEdited() {
	atomic.AddInt64(&m.edited, 1)
}

func (m *LedgerMetrics) TransactionDeleted() {
	atomic.AddInt64(&m.deleted, 1)
}

func (m *LedgerMetrics) DriftDetected(operation string) {
	atomic.AddInt64(&m.drift, 1)
	prom.IncCounterVec(prom.SystemLedger, prom.MetricBalanceDriftDetected, operation)
}

func (m *LedgerMetrics) Stats() map[string]int64 {
	return map[string]int64{
		"transactions_recorded": atomic.LoadInt64(&m.recorded),
		"transactions_edited":   atomic.LoadInt64(&m.edited),
		"transactions_deleted":  atomic.LoadInt64(&m.deleted),
		"balance_drift":         atomic.LoadInt64(&m.drift),
	}
}
