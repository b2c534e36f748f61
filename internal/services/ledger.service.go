package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/MohdAnasQureshi/groceryshop/internal/ledger"
	"github.com/MohdAnasQureshi/groceryshop/internal/model"
	"github.com/MohdAnasQureshi/groceryshop/internal/repository"
	"github.com/MohdAnasQureshi/groceryshop/pkg/logger"
)

var (
	ErrCustomerNotFound    = errors.New("customer not found or not authorized")
	ErrTransactionNotFound = errors.New("transaction not found for this customer")
	ErrUnauthorized        = errors.New("caller does not own this customer")
)

type TransactionRepository interface {
	Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
	GetByCustomer(ctx context.Context, customerID, transactionID int64) (*model.Transaction, error)
	Update(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
	Delete(ctx context.Context, customerID, transactionID int64) error
	DeleteByCustomer(ctx context.Context, customerID int64) error
	ListByCustomer(ctx context.Context, customerID int64, f model.TransactionFilter) ([]*model.Transaction, error)
	ListAllForBalance(ctx context.Context, customerID int64) ([]*model.Transaction, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) (*model.Customer, error)
	GetOwned(ctx context.Context, customerID, shopOwnerID int64) (*model.Customer, error)
	GetOwnedForUpdate(ctx context.Context, customerID, shopOwnerID int64) (*model.Customer, error)
	SetOutstandingDebt(ctx context.Context, customerID int64, balance int64) error
	Update(ctx context.Context, c *model.Customer) (*model.Customer, error)
	Delete(ctx context.Context, customerID, shopOwnerID int64) error
	ListByOwner(ctx context.Context, shopOwnerID int64) ([]*model.Customer, error)
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReconcilePublisher enqueues a customer id for background balance repair.
type ReconcilePublisher interface {
	PublishJSON(ctx context.Context, data interface{}, metadata map[string]string) (string, error)
}

// ReconcileJob is the payload carried on the reconcile stream.
type ReconcileJob struct {
	CustomerID int64  `json:"customer_id"`
	Reason     string `json:"reason"`
}

// LedgerService owns the transaction lifecycle for a customer's ledger.
//
// Every mutation runs inside one database transaction: the customer row is
// locked first (serializing concurrent mutations per customer), the
// transaction record is written, and the outstanding balance is rewritten
// from a full fold over the live history. The incremental delta is computed
// alongside purely as a drift check against the previously stored balance;
// when the two disagree the stored value had drifted, the fold wins, and the
// customer is queued for reconciliation bookkeeping.
type LedgerService struct {
	transactionRepo TransactionRepository
	customerRepo    CustomerRepository
	reconcileQueue  ReconcilePublisher
	metrics         *LedgerMetrics
}

func NewLedgerService(transactionRepo TransactionRepository, customerRepo CustomerRepository, reconcileQueue ReconcilePublisher) *LedgerService {
	return &LedgerService{
		transactionRepo: transactionRepo,
		customerRepo:    customerRepo,
		reconcileQueue:  reconcileQueue,
		metrics:         NewLedgerMetrics(),
	}
}

func (s *LedgerService) AddTransaction(ctx context.Context, p model.TransactionCreateRequest) (*model.Transaction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var created *model.Transaction
	err := s.customerRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		customer, err := s.customerRepo.GetOwnedForUpdate(ctx, p.CustomerID, p.ShopOwnerID)
		if err != nil {
			return mapCustomerErr(err)
		}

		created, err = s.transactionRepo.Create(ctx, &model.Transaction{
			CustomerID:  p.CustomerID,
			ShopOwnerID: p.ShopOwnerID,
			Type:        p.Type,
			Amount:      p.Amount,
			Details:     p.Details,
		})
		if err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}

		expected := ledger.ApplyAdd(customer.TotalOutstandingDebt, created)
		return s.writeBalance(ctx, customer, expected, "add")
	})
	if err != nil {
		return nil, err
	}

	s.metrics.TransactionRecorded(string(created.Type))
	return created, nil
}

func (s *LedgerService) ListTransactions(ctx context.Context, shopOwnerID, customerID int64, f model.TransactionFilter) ([]*model.Transaction, error) {
	if customerID == 0 {
		return nil, model.ErrMissingCustomerID
	}
	if _, err := s.customerRepo.GetOwned(ctx, customerID, shopOwnerID); err != nil {
		return nil, mapCustomerErr(err)
	}
	return s.transactionRepo.ListByCustomer(ctx, customerID, f)
}

func (s *LedgerService) EditTransaction(ctx context.Context, p model.TransactionUpdateRequest) (*model.Transaction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var updated *model.Transaction
	err := s.customerRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		customer, err := s.customerRepo.GetOwnedForUpdate(ctx, p.CustomerID, p.ShopOwnerID)
		if err != nil {
			return mapCustomerErr(err)
		}

		old, err := s.transactionRepo.GetByCustomer(ctx, p.CustomerID, p.TransactionID)
		if err != nil {
			return mapTransactionErr(err)
		}

		updated, err = s.transactionRepo.Update(ctx, &model.Transaction{
			ID:         p.TransactionID,
			CustomerID: p.CustomerID,
			Type:       p.Type,
			Amount:     p.Amount,
			Details:    p.Details,
		})
		if err != nil {
			return mapTransactionErr(err)
		}

		expected := ledger.ApplyEdit(customer.TotalOutstandingDebt, old, updated)
		return s.writeBalance(ctx, customer, expected, "edit")
	})
	if err != nil {
		return nil, err
	}

	s.metrics.TransactionEdited()
	return updated, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, shopOwnerID, customerID, transactionID int64) error {
	if customerID == 0 {
		return model.ErrMissingCustomerID
	}

	err := s.customerRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		customer, err := s.customerRepo.GetOwnedForUpdate(ctx, customerID, shopOwnerID)
		if err != nil {
			return mapCustomerErr(err)
		}

		removed, err := s.transactionRepo.GetByCustomer(ctx, customerID, transactionID)
		if err != nil {
			return mapTransactionErr(err)
		}

		if err := s.transactionRepo.Delete(ctx, customerID, transactionID); err != nil {
			return mapTransactionErr(err)
		}

		expected := ledger.ApplyDelete(customer.TotalOutstandingDebt, removed)
		return s.writeBalance(ctx, customer, expected, "delete")
	})
	if err != nil {
		return err
	}

	s.metrics.TransactionDeleted()
	return nil
}

// OutstandingDebt re-derives a customer's balance from the transaction log,
// ignoring the stored accumulator. The reconciler uses this as ground truth.
func (s *LedgerService) OutstandingDebt(ctx context.Context, customerID int64) (int64, error) {
	transactions, err := s.transactionRepo.ListAllForBalance(ctx, customerID)
	if err != nil {
		return 0, err
	}
	return ledger.Balance(transactions), nil
}

// writeBalance persists the full-recompute balance for the locked customer
// and cross-checks it against the incremental expectation. The two differ
// only when the stored balance had already drifted before this operation.
func (s *LedgerService) writeBalance(ctx context.Context, customer *model.Customer, expected int64, op string) error {
	transactions, err := s.transactionRepo.ListAllForBalance(ctx, customer.ID)
	if err != nil {
		return fmt.Errorf("load transactions for recompute: %w", err)
	}
	balance := ledger.Balance(transactions)

	if balance != expected {
		logger.Warn("stored balance had drifted, repaired by recompute",
			"customer_id", customer.ID,
			"operation", op,
			"stored_derived", expected,
			"recomputed", balance,
		)
		s.metrics.DriftDetected(op)
		s.enqueueReconcile(ctx, customer.ID, op)
	}

	if err := s.customerRepo.SetOutstandingDebt(ctx, customer.ID, balance); err != nil {
		return fmt.Errorf("write customer balance: %w", err)
	}
	return nil
}

// enqueueReconcile is bookkeeping only; the drifted balance was already
// repaired by the fold in the same transaction. Queue errors are logged,
// never propagated.
func (s *LedgerService) enqueueReconcile(ctx context.Context, customerID int64, reason string) {
	if s.reconcileQueue == nil {
		return
	}
	_, err := s.reconcileQueue.PublishJSON(ctx, ReconcileJob{CustomerID: customerID, Reason: reason}, nil)
	if err != nil {
		logger.Error("failed to enqueue reconcile job", "customer_id", customerID, "error", err)
	}
}

func mapCustomerErr(err error) error {
	if errors.Is(err, repository.ErrCustomerNotFound) {
		return ErrCustomerNotFound
	}
	return err
}

func mapTransactionErr(err error) error {
	if errors.Is(err, repository.ErrTransactionNotFound) {
		return ErrTransactionNotFound
	}
	return err
}
