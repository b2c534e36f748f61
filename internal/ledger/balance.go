// Package ledger holds the balance recomputation engine: a pure fold over a
// customer's transaction history plus the O(1) single-transaction deltas.
//
// The fold is the ground truth. The incremental forms exist so callers can
// cross-check a stored balance against the authoritative recompute without a
// second table scan; they are proven equivalent to the fold by the tests in
// this package. All amounts are paise.
package ledger

import "github.com/MohdAnasQureshi/groceryshop/internal/model"

// Effect returns the signed contribution of a single transaction:
// +amount for a debt, -amount for a payment.
func Effect(t *model.Transaction) int64 {
	if t.Type == model.TransactionDebt {
		return t.Amount
	}
	return -t.Amount
}

// Balance folds a customer's live transactions into the outstanding debt.
// Addition is commutative, so the order of the slice does not matter.
func Balance(transactions []*model.Transaction) int64 {
	var total int64
	for _, t := range transactions {
		total += Effect(t)
	}
	return total
}

// ApplyAdd adjusts a balance for a newly appended transaction.
func ApplyAdd(current int64, added *model.Transaction) int64 {
	return current + Effect(added)
}

// ApplyEdit reverses the old transaction's effect and applies the new one as
// a single combined delta.
func ApplyEdit(current int64, old, updated *model.Transaction) int64 {
	return current - Effect(old) + Effect(updated)
}

// ApplyDelete undoes a transaction's effect.
func ApplyDelete(current int64, removed *model.Transaction) int64 {
	return current - Effect(removed)
}
