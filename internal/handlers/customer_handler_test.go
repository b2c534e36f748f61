package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/MohdAnasQureshi/groceryshop/internal/model"
	"github.com/MohdAnasQureshi/groceryshop/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) Add(ctx context.Context, p model.CustomerCreateRequest) (*model.Customer, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerService) Get(ctx context.Context, customerID, shopOwnerID int64) (*model.Customer, error) {
	args := m.Called(ctx, customerID, shopOwnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerService) List(ctx context.Context, shopOwnerID int64) ([]*model.Customer, error) {
	args := m.Called(ctx, shopOwnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Customer), args.Error(1)
}

func (m *MockCustomerService) Edit(ctx context.Context, p model.CustomerUpdateRequest) (*model.Customer, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerService) Delete(ctx context.Context, customerID, shopOwnerID int64) error {
	args := m.Called(ctx, customerID, shopOwnerID)
	return args.Error(0)
}

func TestCustomerHandler_AddCustomer(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		body, _ := json.Marshal(customerRequest{Name: "Ramesh", Contact: "9876543210"})

		svc.On("Add", mock.Anything, mock.MatchedBy(func(p model.CustomerCreateRequest) bool {
			return p.ShopOwnerID == 1 && p.Name == "Ramesh" && p.Contact == "9876543210"
		})).Return(&model.Customer{ID: 7, Name: "ramesh"}, nil)

		ctx := setupAuthedContext("POST", "/customers/add-customer", body, 1)
		handler.AddCustomer(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())

		var resp model.Customer
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
		assert.Equal(t, int64(7), resp.ID)
		svc.AssertExpectations(t)
	})

	t.Run("duplicate name", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		body, _ := json.Marshal(customerRequest{Name: "Ramesh"})
		svc.On("Add", mock.Anything, mock.Anything).Return(nil, services.ErrCustomerExists)

		ctx := setupAuthedContext("POST", "/customers/add-customer", body, 1)
		handler.AddCustomer(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("missing auth", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		body, _ := json.Marshal(customerRequest{Name: "Ramesh"})
		ctx := setupTestContext("POST", "/customers/add-customer", body)
		handler.AddCustomer(ctx)

		assert.Equal(t, 401, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "Add")
	})
}

func TestCustomerHandler_GetCustomer(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		svc.On("Get", mock.Anything, int64(7), int64(1)).Return(&model.Customer{ID: 7, Name: "ramesh"}, nil)

		ctx := setupAuthedContext("GET", "/customers/7", nil, 1)
		ctx.SetUserValue("customerId", "7")
		handler.GetCustomer(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
	})

	t.Run("foreign customer reads as not found", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		svc.On("Get", mock.Anything, int64(7), int64(2)).Return(nil, services.ErrCustomerNotFound)

		ctx := setupAuthedContext("GET", "/customers/7", nil, 2)
		ctx.SetUserValue("customerId", "7")
		handler.GetCustomer(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})

	t.Run("bad id", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		ctx := setupAuthedContext("GET", "/customers/abc", nil, 1)
		ctx.SetUserValue("customerId", "abc")
		handler.GetCustomer(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "Get")
	})
}

func TestCustomerHandler_ListCustomers(t *testing.T) {
	svc := new(MockCustomerService)
	handler := NewCustomerHandler(svc)

	svc.On("List", mock.Anything, int64(1)).Return([]*model.Customer{
		{ID: 7, Name: "ramesh"},
		{ID: 8, Name: "suresh"},
	}, nil)

	ctx := setupAuthedContext("GET", "/customers/customers-list", nil, 1)
	handler.ListCustomers(ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())

	var resp customerListResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Len(t, resp.Items, 2)
}

func TestCustomerHandler_EditCustomer(t *testing.T) {
	svc := new(MockCustomerService)
	handler := NewCustomerHandler(svc)

	body, _ := json.Marshal(customerRequest{Name: "Suresh", Contact: "9000000000"})

	svc.On("Edit", mock.Anything, mock.MatchedBy(func(p model.CustomerUpdateRequest) bool {
		return p.ShopOwnerID == 1 && p.CustomerID == 7 && p.Name == "Suresh"
	})).Return(&model.Customer{ID: 7, Name: "suresh"}, nil)

	ctx := setupAuthedContext("PUT", "/customers/edit-customer/7", body, 1)
	ctx.SetUserValue("customerId", "7")
	handler.EditCustomer(ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())
	svc.AssertExpectations(t)
}

func TestCustomerHandler_DeleteCustomer(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		svc.On("Delete", mock.Anything, int64(7), int64(1)).Return(nil)

		ctx := setupAuthedContext("DELETE", "/customers/delete-customer/7", nil, 1)
		ctx.SetUserValue("customerId", "7")
		handler.DeleteCustomer(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
	})

	t.Run("unknown customer", func(t *testing.T) {
		svc := new(MockCustomerService)
		handler := NewCustomerHandler(svc)

		svc.On("Delete", mock.Anything, int64(99), int64(1)).Return(services.ErrCustomerNotFound)

		ctx := setupAuthedContext("DELETE", "/customers/delete-customer/99", nil, 1)
		ctx.SetUserValue("customerId", "99")
		handler.DeleteCustomer(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})
}
