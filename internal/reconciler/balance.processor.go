package reconciler

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/MohdAnasQureshi/groceryshop/internal/queue"
	"github.com/MohdAnasQureshi/groceryshop/internal/repository"
	"github.com/MohdAnasQureshi/groceryshop/internal/services"
	"github.com/MohdAnasQureshi/groceryshop/pkg/logger"
	"github.com/MohdAnasQureshi/groceryshop/pkg/prom"
)

// BalanceSource re-derives a customer's outstanding balance from the full
// transaction history.
type BalanceSource interface {
	OutstandingDebt(ctx context.Context, customerID int64) (int64, error)
}

// BalanceRepairer writes a repaired balance under the customer row lock.
type BalanceRepairer interface {
	SetOutstandingDebtLocked(ctx context.Context, customerID int64, balance int64) error
}

// BalanceProcessor consumes reconcile jobs and rewrites the stored balance
// from the transaction history. Jobs are enqueued by the ledger whenever a
// stored balance disagrees with the incremental expectation.
type BalanceProcessor struct {
	source   BalanceSource
	repairer BalanceRepairer
	metrics  *ServiceMetrics
}

func NewBalanceProcessor(source BalanceSource, repairer BalanceRepairer, metrics *ServiceMetrics) *BalanceProcessor {
	return &BalanceProcessor{
		source:   source,
		repairer: repairer,
		metrics:  metrics,
	}
}

func (p *BalanceProcessor) GetType() string {
	return "balance"
}

// Process recomputes and repairs one customer's balance.
func (p *BalanceProcessor) Process(ctx context.Context, queueMessage *queue.Message) error {
	start := time.Now()

	var job services.ReconcileJob
	if err := json.Unmarshal(queueMessage.Data, &job); err != nil {
		logger.Error("Failed to unmarshal reconcile job", "error", err)
		prom.IncCounterVec(prom.SystemReconcile, prom.MetricJobsProcessed, "invalid")
		return err // move to DLQ
	}

	balance, err := p.source.OutstandingDebt(ctx, job.CustomerID)
	if err != nil {
		logger.Error("Failed to recompute balance", "customer_id", job.CustomerID, "error", err)
		prom.IncCounterVec(prom.SystemReconcile, prom.MetricJobsProcessed, "failed")
		return err // NACK to retry
	}

	if err := p.repairer.SetOutstandingDebtLocked(ctx, job.CustomerID, balance); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			// Customer was deleted after the job was enqueued. Nothing to
			// repair, ACK the job.
			logger.Info("Customer gone, skipping reconcile", "customer_id", job.CustomerID)
			prom.IncCounterVec(prom.SystemReconcile, prom.MetricJobsProcessed, "skipped")
			return nil
		}
		logger.Error("Failed to write repaired balance", "customer_id", job.CustomerID, "error", err)
		prom.IncCounterVec(prom.SystemReconcile, prom.MetricJobsProcessed, "failed")
		return err
	}

	p.metrics.RecordRepair()
	prom.IncCounter(prom.SystemReconcile, prom.MetricBalanceRepaired)
	prom.IncCounterVec(prom.SystemReconcile, prom.MetricJobsProcessed, "repaired")
	prom.AddReconcileJobDuration(time.Since(start).Seconds())

	logger.Info("Balance reconciled",
		"customer_id", job.CustomerID,
		"balance", balance,
		"reason", job.Reason,
		"duration_ms", time.Since(start).Milliseconds())

	return nil
}
