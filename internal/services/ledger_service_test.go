package services

import (
	"context"
	"testing"

	"github.com/MohdAnasQureshi/groceryshop/internal/model"
	"github.com/MohdAnasQureshi/groceryshop/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	args := m.Called(ctx, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByCustomer(ctx context.Context, customerID, transactionID int64) (*model.Transaction, error) {
	args := m.Called(ctx, customerID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Update(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	args := m.Called(ctx, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, customerID, transactionID int64) error {
	args := m.Called(ctx, customerID, transactionID)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteByCustomer(ctx context.Context, customerID int64) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListByCustomer(ctx context.Context, customerID int64, f model.TransactionFilter) ([]*model.Transaction, error) {
	args := m.Called(ctx, customerID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListAllForBalance(ctx context.Context, customerID int64) ([]*model.Transaction, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetOwned(ctx context.Context, customerID, shopOwnerID int64) (*model.Customer, error) {
	args := m.Called(ctx, customerID, shopOwnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) GetOwnedForUpdate(ctx context.Context, customerID, shopOwnerID int64) (*model.Customer, error) {
	args := m.Called(ctx, customerID, shopOwnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) SetOutstandingDebt(ctx context.Context, customerID int64, balance int64) error {
	args := m.Called(ctx, customerID, balance)
	return args.Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, customerID, shopOwnerID int64) error {
	args := m.Called(ctx, customerID, shopOwnerID)
	return args.Error(0)
}

func (m *MockCustomerRepository) ListByOwner(ctx context.Context, shopOwnerID int64) ([]*model.Customer, error) {
	args := m.Called(ctx, shopOwnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

type MockReconcilePublisher struct {
	mock.Mock
}

func (m *MockReconcilePublisher) PublishJSON(ctx context.Context, data interface{}, metadata map[string]string) (string, error) {
	args := m.Called(ctx, data, metadata)
	return args.String(0), args.Error(1)
}

func TestLedgerService_AddTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("debt raises the stored balance", func(t *testing.T) {
		txnRepo := new(MockTransactionRepository)
		custRepo := new(MockCustomerRepository)
		service := NewLedgerService(txnRepo, custRepo, nil)

		customer := &model.Customer{ID: 7, ShopOwnerID: 1, TotalOutstandingDebt: 0}
		created := &model.Transaction{ID: 42, CustomerID: 7, ShopOwnerID: 1, Type: model.TransactionDebt, Amount: 5000}

		custRepo.On("WithinTransaction", ctx, mock.AnythingOfType("func(context.Context) error")).Return(nil)
		custRepo.On("GetOwnedForUpdate", ctx, int64(7), int64(1)).Return(customer, nil)
		txnRepo.On("Create", ctx, mock.AnythingOfType("*model.Transaction")).Return(created, nil)
		txnRepo.On("ListAllForBalance", ctx, int64(7)).Return([]*model.Transaction{created}, nil)
		custRepo.On("SetOutstandingDebt", ctx, int64(7), int64(5000)).Return(nil)

		result, err := service.AddTransaction(ctx, model.TransactionCreateRequest{
			ShopOwnerID: 1,
			CustomerID:  7,
			Amount:      5000,
			Type:        model.TransactionDebt,
		})

		require.NoError(t, err)
		assert.Equal(t, int64(42), result.ID)
		custRepo.AssertExpectations(t)
		txnRepo.AssertExpectations(t)
	})

	t.Run("payment lowers the stored balance", func(t *testing.T) {
		txnRepo := new(MockTransactionRepository)
		custRepo := new(MockCustomerRepository)
		service := NewLedgerService(txnRepo, custRepo, nil)

		customer := &model.Customer{ID: 7, ShopOwnerID: 1, TotalOutstandingDebt: 5000}
		existing := &model.Transaction{ID: 42, CustomerID: 7, Type: model.TransactionDebt, Amount: 5000}
		created := &model.Transaction{ID: 43, CustomerID: 7, Type: model.TransactionPayment, Amount: 2000}

		custRepo.On("WithinTransaction", ctx, mock.Anything).Return(nil)
		custRepo.On("GetOwnedForUpdate", ctx, int64(7), int64(1)).Return(customer, nil)
		txnRepo.On("Create", ctx, mock.Anything).Return(created, nil)
		txnRepo.On("ListAllForBalance", ctx, int64(7)).Return([]*model.Transaction{existing, created}, nil)
		custRepo.On("SetOutstandingDebt", ctx, int64(7), int64(3000)).Return(nil)

		_, err := service.AddTransaction(ctx, model.TransactionCreateRequest{
			ShopOwnerID: 1,
			CustomerID:  7,
			Amount:      2000,
			Type:        model.TransactionPayment,
		})

		require.NoError(t, err)
		custRepo.AssertExpectations(t)
	})

	t.Run("validation rejects before any write", func(t *testing.T) {
		txnRepo := new(MockTransactionRepository)
		custRepo := new(MockCustomerRepository)
		service := NewLedgerService(txnRepo, custRepo, nil)

		_, err := service.AddTransaction(ctx, model.TransactionCreateRequest{
			ShopOwnerID: 1,
			CustomerID:  7,
			Amount:      -100,
			Type:        model.TransactionDebt,
		})
		assert.ErrorIs(t, err, model.ErrInvalidAmount)

		_, err = service.AddTransaction(ctx, model.TransactionCreateRequest{
			ShopOwnerID: 1,
			CustomerID:  7,
			Amount:      100,
			Type:        "loan",
		})
		assert.ErrorIs(t, err, model.ErrInvalidTransactionType)

		custRepo.AssertNotCalled(t, "WithinTransaction")
		txnRepo.AssertNotCalled(t, "Create")
	})

	t.Run("foreign customer is invisible", func(t *testing.T) {
		txnRepo := new(MockTransactionRepository)
		custRepo := new(MockCustomerRepository)
		service := NewLedgerService(txnRepo, custRepo, nil)

		custRepo.On("WithinTransaction", ctx, mock.Anything).Return(nil)
		custRepo.On("GetOwnedForUpdate", ctx, int64(7), int64(2)).Return(nil, repository.ErrCustomerNotFound)

		_, err := service.AddTransaction(ctx, model.TransactionCreateRequest{
			ShopOwnerID: 2,
			CustomerID:  7,
			Amount:      100,
			Type:        model.TransactionDebt,
		})

		assert.ErrorIs(t, err, ErrCustomerNotFound)
		txnRepo.AssertNotCalled(t, "Create")
	})

	t.Run("drifted stored balance enqueues reconcile", func(t *testing.T) {
		txnRepo := new(MockTransactionRepository)
		custRepo := new(MockCustomerRepository)
		publisher := new(MockReconcilePublisher)
		service := NewLedgerService(txnRepo, custRepo, publisher)

		// Stored balance says 9900, but history folds to 5000 after the new
		// debt: the stored value had drifted before this call.
		customer := &model.Customer{ID: 7, ShopOwnerID: 1, TotalOutstandingDebt: 4900}
		created := &model.Transaction{ID: 42, CustomerID: 7, Type: model.TransactionDebt, Amount: 5000}

		custRepo.On("WithinTransaction", ctx, mock.Anything).Return(nil)
		custRepo.On("GetOwnedForUpdate", ctx, int64(7), int64(1)).Return(customer, nil)
		txnRepo.On("Create", ctx, mock.Anything).Return(created, nil)
		txnRepo.On("ListAllForBalance", ctx, int64(7)).Return([]*model.Transaction{created}, nil)
		publisher.On("PublishJSON", ctx, ReconcileJob{CustomerID: 7, Reason: "add"}, map[string]string(nil)).
			Return("1-0", nil)
		// The fold wins over the drifted accumulator.
		custRepo.On("SetOutstandingDebt", ctx, int64(7), int64(5000)).Return(nil)

		_, err := service.AddTransaction(ctx, model.TransactionCreateRequest{
			ShopOwnerID: 1,
			CustomerID:  7,
			Amount:      5000,
			Type:        model.TransactionDebt,
		})

		require.NoError(t, err)
		publisher.AssertExpectations(t)
		custRepo.AssertExpectations(t)
	})
}

func TestLedgerService_EditTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("debt turned into payment flips the balance", func(t *testing.T) {
		txnRepo := new(MockTransactionRepository)
		custRepo := new(MockCustomerRepository)
		service := NewLedgerService(txnRepo, custRepo, nil)

		customer := &model.Customer{ID: 7, ShopOwnerID: 1, TotalOutstandingDebt: 5000}
		old := &model.Transaction{ID: 42, CustomerID: 7, Type: model.TransactionDebt, Amount: 5000}
		updated := &model.Transaction{ID: 42, CustomerID: 7, Type: model.TransactionPayment, Amount: 3000}

		custRepo.On("WithinTransaction", ctx, mock.Anything).Return(nil)
		custRepo.On("GetOwnedForUpdate", ctx, int64(7), int64(1)).Return(customer, nil)
		txnRepo.On("GetByCustomer", ctx, int64(7), int64(42)).Return(old, nil)
		txnRepo.On("Update", ctx, mock.AnythingOfType("*model.Transaction")).Return(updated, nil)
		txnRepo.On("ListAllForBalance", ctx, int64(7)).Return([]*model.Transaction{updated}, nil)
		custRepo.On("SetOutstandingDebt", ctx, int64(7), int64(-3000)).Return(nil)

		result, err := service.EditTransaction(ctx, model.TransactionUpdateRequest{
			ShopOwnerID:   1,
			CustomerID:    7,
			TransactionID: 42,
			Amount:        3000,
			Type:          model.TransactionPayment,
		})

		require.NoError(t, err)
		assert.Equal(t, model.TransactionPayment, result.Type)
		custRepo.AssertExpectations(t)
		txnRepo.AssertExpectations(t)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		txnRepo := new(MockTransactionRepository)
		custRepo := new(MockCustomerRepository)
		service := NewLedgerService(txnRepo, custRepo, nil)

		customer := &model.Customer{ID: 7, ShopOwnerID: 1}

		custRepo.On("WithinTransaction", ctx, mock.Anything).Return(nil)
		custRepo.On("GetOwnedForUpdate", ctx, int64(7), int64(1)).Return(customer, nil)
		txnRepo.On("GetByCustomer", ctx, int64(7), int64(999)).Return(nil, repository.ErrTransactionNotFound)

		_, err := service.EditTransaction(ctx, model.TransactionUpdateRequest{
			ShopOwnerID:   1,
			CustomerID:    7,
			TransactionID: 999,
			Amount:        3000,
			Type:          model.TransactionPayment,
		})

		assert.ErrorIs(t, err, ErrTransactionNotFound)
		txnRepo.AssertNotCalled(t, "Update")
	})
}

func TestLedgerService_DeleteTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("delete reverts the balance", func(t *testing.T) {
		txnRepo := new(MockTransactionRepository)
		custRepo := new(MockCustomerRepository)
		service := NewLedgerService(txnRepo, custRepo, nil)

		customer := &model.Customer{ID: 7, ShopOwnerID: 1, TotalOutstandingDebt: 5000}
		removed := &model.Transaction{ID: 42, CustomerID: 7, Type: model.TransactionDebt, Amount: 5000}

		custRepo.On("WithinTransaction", ctx, mock.Anything).Return(nil)
		custRepo.On("GetOwnedForUpdate", ctx, int64(7), int64(1)).Return(customer, nil)
		txnRepo.On("GetByCustomer", ctx, int64(7), int64(42)).Return(removed, nil)
		txnRepo.On("Delete", ctx, int64(7), int64(42)).Return(nil)
		txnRepo.On("ListAllForBalance", ctx, int64(7)).Return([]*model.Transaction{}, nil)
		custRepo.On("SetOutstandingDebt", ctx, int64(7), int64(0)).Return(nil)

		err := service.DeleteTransaction(ctx, 1, 7, 42)

		require.NoError(t, err)
		custRepo.AssertExpectations(t)
		txnRepo.AssertExpectations(t)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		txnRepo := new(MockTransactionRepository)
		custRepo := new(MockCustomerRepository)
		service := NewLedgerService(txnRepo, custRepo, nil)

		customer := &model.Customer{ID: 7, ShopOwnerID: 1}

		custRepo.On("WithinTransaction", ctx, mock.Anything).Return(nil)
		custRepo.On("GetOwnedForUpdate", ctx, int64(7), int64(1)).Return(customer, nil)
		txnRepo.On("GetByCustomer", ctx, int64(7), int64(999)).Return(nil, repository.ErrTransactionNotFound)

		err := service.DeleteTransaction(ctx, 1, 7, 999)

		assert.ErrorIs(t, err, ErrTransactionNotFound)
		txnRepo.AssertNotCalled(t, "Delete")
	})
}

func TestLedgerService_ListTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("owned customer lists", func(t *testing.T) {
		txnRepo := new(MockTransactionRepository)
		custRepo := new(MockCustomerRepository)
		service := NewLedgerService(txnRepo, custRepo, nil)

		expected := []*model.Transaction{
			{ID: 1, CustomerID: 7, Type: model.TransactionDebt, Amount: 5000},
		}

		custRepo.On("GetOwned", ctx, int64(7), int64(1)).Return(&model.Customer{ID: 7}, nil)
		txnRepo.On("ListByCustomer", ctx, int64(7), model.TransactionFilter{}).Return(expected, nil)

		items, err := service.ListTransactions(ctx, 1, 7, model.TransactionFilter{})

		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("foreign customer", func(t *testing.T) {
		txnRepo := new(MockTransactionRepository)
		custRepo := new(MockCustomerRepository)
		service := NewLedgerService(txnRepo, custRepo, nil)

		custRepo.On("GetOwned", ctx, int64(7), int64(2)).Return(nil, repository.ErrCustomerNotFound)

		_, err := service.ListTransactions(ctx, 2, 7, model.TransactionFilter{})

		assert.ErrorIs(t, err, ErrCustomerNotFound)
		txnRepo.AssertNotCalled(t, "ListByCustomer")
	})
}

func TestLedgerService_OutstandingDebt(t *testing.T) {
	ctx := context.Background()

	txnRepo := new(MockTransactionRepository)
	custRepo := new(MockCustomerRepository)
	service := NewLedgerService(txnRepo, custRepo, nil)

	txnRepo.On("ListAllForBalance", ctx, int64(7)).Return([]*model.Transaction{
		{Type: model.TransactionDebt, Amount: 5000},
		{Type: model.TransactionPayment, Amount: 2000},
		{Type: model.TransactionDebt, Amount: 700},
	}, nil)

	balance, err := service.OutstandingDebt(ctx, 7)

	require.NoError(t, err)
	assert.Equal(t, int64(3700), balance)
}
