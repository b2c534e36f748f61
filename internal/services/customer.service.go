package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/MohdAnasQureshi/groceryshop/internal/model"
	"github.com/MohdAnasQureshi/groceryshop/internal/repository"
)

var ErrCustomerExists = errors.New("customer with this name already exists")

type CustomerService struct {
	customerRepo    CustomerRepository
	transactionRepo TransactionRepository
}

func NewCustomerService(customerRepo CustomerRepository, transactionRepo TransactionRepository) *CustomerService {
	return &CustomerService{
		customerRepo:    customerRepo,
		transactionRepo: transactionRepo,
	}
}

func (s *CustomerService) Add(ctx context.Context, p model.CustomerCreateRequest) (*model.Customer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	created, err := s.customerRepo.Create(ctx, &model.Customer{
		ShopOwnerID:          p.ShopOwnerID,
		Name:                 model.NormalizeCustomerName(p.Name),
		Contact:              p.Contact,
		TotalOutstandingDebt: p.TotalOutstandingDebt,
		TotalPaid:            p.TotalPaid,
	})
	if err != nil {
		if errors.Is(err, repository.ErrCustomerExists) {
			return nil, ErrCustomerExists
		}
		return nil, err
	}
	return created, nil
}

func (s *CustomerService) Get(ctx context.Context, customerID, shopOwnerID int64) (*model.Customer, error) {
	customer, err := s.customerRepo.GetOwned(ctx, customerID, shopOwnerID)
	if err != nil {
		return nil, mapCustomerErr(err)
	}
	return customer, nil
}

func (s *CustomerService) List(ctx context.Context, shopOwnerID int64) ([]*model.Customer, error) {
	return s.customerRepo.ListByOwner(ctx, shopOwnerID)
}

// Edit changes name and contact only; balance fields are owned by the
// ledger service.
func (s *CustomerService) Edit(ctx context.Context, p model.CustomerUpdateRequest) (*model.Customer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.customerRepo.Update(ctx, &model.Customer{
		ID:          p.CustomerID,
		ShopOwnerID: p.ShopOwnerID,
		Name:        model.NormalizeCustomerName(p.Name),
		Contact:     p.Contact,
	})
	if err != nil {
		return nil, mapCustomerErr(err)
	}
	return updated, nil
}

// Delete removes a customer and its whole transaction history in one
// database transaction.
func (s *CustomerService) Delete(ctx context.Context, customerID, shopOwnerID int64) error {
	if customerID == 0 {
		return model.ErrMissingCustomerID
	}

	return s.customerRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.customerRepo.GetOwnedForUpdate(ctx, customerID, shopOwnerID); err != nil {
			return mapCustomerErr(err)
		}
		if err := s.transactionRepo.DeleteByCustomer(ctx, customerID); err != nil {
			return fmt.Errorf("delete customer transactions: %w", err)
		}
		if err := s.customerRepo.Delete(ctx, customerID, shopOwnerID); err != nil {
			return mapCustomerErr(err)
		}
		return nil
	})
}
