package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MohdAnasQureshi/groceryshop/internal/model"
	"github.com/MohdAnasQureshi/groceryshop/pkg/pg"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCustomerNotFound   = errors.New("customer not found or not authorized")
	ErrCustomerExists     = errors.New("customer with this name already exists")
	ErrConcurrentUpdate   = errors.New("concurrent update detected")
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

type CustomerRepository struct {
	*pg.DB
}

func NewCustomerRepository(db *pg.DB) *CustomerRepository {
	return &CustomerRepository{
		db,
	}
}

func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	existing := &CustomerEntity{}
	err := r.Write(ctx).WithContext(ctx).
		Where("shop_owner_id = ? AND customer_name = ?", c.ShopOwnerID, c.Name).
		First(existing).
		Error
	if err == nil {
		return nil, ErrCustomerExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	entity := toCustomerEntity(c)
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toCustomerModel(entity), nil
}

// GetOwned resolves a customer by id scoped to its owning shop owner. A
// customer belonging to a different owner is indistinguishable from an
// absent one.
func (r *CustomerRepository) GetOwned(ctx context.Context, customerID, shopOwnerID int64) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ? AND shop_owner_id = ?", customerID, shopOwnerID).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return toCustomerModel(&entity), nil
}

// GetOwnedForUpdate is GetOwned with a SELECT FOR UPDATE lock on the row.
// Called inside WithinTransaction it serializes every ledger mutation for
// the customer until the surrounding transaction commits.
func (r *CustomerRepository) GetOwnedForUpdate(ctx context.Context, customerID, shopOwnerID int64) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.Write(ctx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND shop_owner_id = ?", customerID, shopOwnerID).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return toCustomerModel(&entity), nil
}

// SetOutstandingDebt writes the recomputed balance. The caller is expected
// to hold the row lock via GetOwnedForUpdate in the same transaction.
func (r *CustomerRepository) SetOutstandingDebt(ctx context.Context, customerID int64, balance int64) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&CustomerEntity{}).
		Where("id = ?", customerID).
		Update("total_outstanding_debt", balance)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// SetOutstandingDebtLocked acquires the row lock itself and then writes the
// balance, retrying on transient failures. Used by the reconciler, which
// runs outside a ledger operation.
func (r *CustomerRepository) SetOutstandingDebtLocked(ctx context.Context, customerID int64, balance int64) error {
	const maxRetries = 3
	const baseDelay = 2 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := r.setOutstandingDebtAttempt(ctx, customerID, balance)

		if err == nil {
			return nil
		}

		if errors.Is(err, ErrCustomerNotFound) {
			return err
		}

		if attempt < maxRetries {
			delay := baseDelay * time.Duration(1<<attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				continue
			}
		}
	}

	return fmt.Errorf("%w: failed after %d attempts", ErrMaxRetriesExceeded, maxRetries+1)
}

func (r *CustomerRepository) setOutstandingDebtAttempt(ctx context.Context, customerID int64, balance int64) error {
	return r.WithinTransaction(ctx, func(ctx context.Context) error {
		var entity CustomerEntity
		err := r.Write(ctx).WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", customerID).
			First(&entity).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return err
		}

		return r.SetOutstandingDebt(ctx, customerID, balance)
	})
}

// Update changes name/contact only. Balance fields are never touched here.
func (r *CustomerRepository) Update(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	result := r.Write(ctx).WithContext(ctx).
		Model(&CustomerEntity{}).
		Where("id = ? AND shop_owner_id = ?", c.ID, c.ShopOwnerID).
		Updates(map[string]interface{}{
			"customer_name":    c.Name,
			"customer_contact": c.Contact,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrCustomerNotFound
	}
	return r.GetOwned(ctx, c.ID, c.ShopOwnerID)
}

func (r *CustomerRepository) Delete(ctx context.Context, customerID, shopOwnerID int64) error {
	result := r.Write(ctx).WithContext(ctx).
		Where("id = ? AND shop_owner_id = ?", customerID, shopOwnerID).
		Delete(&CustomerEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (r *CustomerRepository) ListByOwner(ctx context.Context, shopOwnerID int64) ([]*model.Customer, error) {
	var entities []*CustomerEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("shop_owner_id = ?", shopOwnerID).
		Order("customer_name ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toCustomerModels(entities), nil
}
