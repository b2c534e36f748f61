package repository

import (
	"context"
	"errors"

	"github.com/MohdAnasQureshi/groceryshop/internal/model"
	"github.com/MohdAnasQureshi/groceryshop/pkg/pg"
	"gorm.io/gorm"
)

var ErrTransactionNotFound = errors.New("transaction not found for this customer")

type TransactionRepository struct {
	*pg.DB
}

func NewTransactionRepository(db *pg.DB) *TransactionRepository {
	return &TransactionRepository{
		db,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	entity := toTransactionEntity(txn)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toTransactionModel(entity), nil
}

func (r *TransactionRepository) GetByCustomer(ctx context.Context, customerID, transactionID int64) (*model.Transaction, error) {
	var entity TransactionEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ? AND customer_id = ?", transactionID, customerID).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return toTransactionModel(&entity), nil
}

// Update rewrites amount, type and details in place; identity and dates are
// immutable.
func (r *TransactionRepository) Update(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	result := r.Write(ctx).WithContext(ctx).
		Model(&TransactionEntity{}).
		Where("id = ? AND customer_id = ?", txn.ID, txn.CustomerID).
		Updates(map[string]interface{}{
			"amount":              txn.Amount,
			"transaction_type":    string(txn.Type),
			"transaction_details": txn.Details,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrTransactionNotFound
	}
	return r.getForWrite(ctx, txn.CustomerID, txn.ID)
}

// getForWrite rereads through the write connection so an uncommitted update
// inside WithinTransaction is visible.
func (r *TransactionRepository) getForWrite(ctx context.Context, customerID, transactionID int64) (*model.Transaction, error) {
	var entity TransactionEntity
	err := r.Write(ctx).WithContext(ctx).
		Where("id = ? AND customer_id = ?", transactionID, customerID).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return toTransactionModel(&entity), nil
}

func (r *TransactionRepository) Delete(ctx context.Context, customerID, transactionID int64) error {
	result := r.Write(ctx).WithContext(ctx).
		Where("id = ? AND customer_id = ?", transactionID, customerID).
		Delete(&TransactionEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// DeleteByCustomer removes a customer's whole history (cascade on customer
// delete).
func (r *TransactionRepository) DeleteByCustomer(ctx context.Context, customerID int64) error {
	return r.Write(ctx).WithContext(ctx).
		Where("customer_id = ?", customerID).
		Delete(&TransactionEntity{}).
		Error
}

// ListByCustomer returns a customer's transactions ordered by transaction
// date, ascending unless f.Desc is set.
func (r *TransactionRepository) ListByCustomer(ctx context.Context, customerID int64, f model.TransactionFilter) ([]*model.Transaction, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&TransactionEntity{}).
		Where("customer_id = ?", customerID)

	if f.From != nil {
		q = q.Where("transaction_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("transaction_date < ?", *f.To)
	}

	order := "transaction_date ASC, id ASC"
	if f.Desc {
		order = "transaction_date DESC, id DESC"
	}
	q = q.Order(order)

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var entities []*TransactionEntity
	if err := q.Find(&entities).Error; err != nil {
		return nil, err
	}
	return toTransactionModels(entities), nil
}

// ListAllForBalance reads the full live history through the write
// connection, so a recompute inside a mutating transaction sees its own
// uncommitted writes.
func (r *TransactionRepository) ListAllForBalance(ctx context.Context, customerID int64) ([]*model.Transaction, error) {
	var entities []*TransactionEntity
	err := r.Write(ctx).WithContext(ctx).
		Where("customer_id = ?", customerID).
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toTransactionModels(entities), nil
}
