package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/MohdAnasQureshi/groceryshop/internal/model"
	"github.com/MohdAnasQureshi/groceryshop/internal/services"
	xhttp "github.com/MohdAnasQureshi/groceryshop/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) AddTransaction(ctx context.Context, p model.TransactionCreateRequest) (*model.Transaction, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockLedgerService) ListTransactions(ctx context.Context, shopOwnerID, customerID int64, f model.TransactionFilter) ([]*model.Transaction, error) {
	args := m.Called(ctx, shopOwnerID, customerID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Transaction), args.Error(1)
}

func (m *MockLedgerService) EditTransaction(ctx context.Context, p model.TransactionUpdateRequest) (*model.Transaction, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockLedgerService) DeleteTransaction(ctx context.Context, shopOwnerID, customerID, transactionID int64) error {
	args := m.Called(ctx, shopOwnerID, customerID, transactionID)
	return args.Error(0)
}

func setupTestContext(method, path string, body []byte) *xhttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	return ctx
}

func setupAuthedContext(method, path string, body []byte, ownerID int64) *xhttp.RequestCtx {
	ctx := setupTestContext(method, path, body)
	ctx.SetUserValue("shop_owner_id", ownerID)
	return ctx
}

func TestTransactionHandler_AddTransaction(t *testing.T) {
	t.Run("successful debt creation", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		reqBody := transactionRequest{
			Amount:  5000,
			Type:    "debt",
			Details: "rice and sugar",
		}
		bodyBytes, _ := json.Marshal(reqBody)

		expected := &model.Transaction{
			ID:         42,
			CustomerID: 7,
			Amount:     5000,
			Type:       model.TransactionDebt,
			Details:    "rice and sugar",
		}

		svc.On("AddTransaction", mock.Anything, mock.MatchedBy(func(p model.TransactionCreateRequest) bool {
			return p.ShopOwnerID == 1 && p.CustomerID == 7 && p.Amount == 5000 && p.Type == model.TransactionDebt
		})).Return(expected, nil)

		ctx := setupAuthedContext("POST", "/transactions/add-transaction/7", bodyBytes, 1)
		ctx.SetUserValue("customerId", "7")
		handler.AddTransaction(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())

		var response model.Transaction
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Equal(t, int64(42), response.ID)
		assert.Equal(t, model.TransactionDebt, response.Type)

		svc.AssertExpectations(t)
	})

	t.Run("missing auth", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		ctx := setupTestContext("POST", "/transactions/add-transaction/7", []byte(`{}`))
		ctx.SetUserValue("customerId", "7")
		handler.AddTransaction(ctx)

		assert.Equal(t, 401, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "AddTransaction")
	})

	t.Run("invalid customer id", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		ctx := setupAuthedContext("POST", "/transactions/add-transaction/abc", []byte(`{}`), 1)
		ctx.SetUserValue("customerId", "abc")
		handler.AddTransaction(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("invalid JSON", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		ctx := setupAuthedContext("POST", "/transactions/add-transaction/7", []byte("not json"), 1)
		ctx.SetUserValue("customerId", "7")
		handler.AddTransaction(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())

		var response map[string]string
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Contains(t, response["error"], "invalid JSON")
	})

	t.Run("validation error maps to 400", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		bodyBytes, _ := json.Marshal(transactionRequest{Amount: -5, Type: "debt"})

		svc.On("AddTransaction", mock.Anything, mock.Anything).Return(nil, model.ErrInvalidAmount)

		ctx := setupAuthedContext("POST", "/transactions/add-transaction/7", bodyBytes, 1)
		ctx.SetUserValue("customerId", "7")
		handler.AddTransaction(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("unknown customer maps to 404", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		bodyBytes, _ := json.Marshal(transactionRequest{Amount: 100, Type: "debt"})

		svc.On("AddTransaction", mock.Anything, mock.Anything).Return(nil, services.ErrCustomerNotFound)

		ctx := setupAuthedContext("POST", "/transactions/add-transaction/999", bodyBytes, 1)
		ctx.SetUserValue("customerId", "999")
		handler.AddTransaction(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("unexpected error maps to 500", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		bodyBytes, _ := json.Marshal(transactionRequest{Amount: 100, Type: "debt"})

		svc.On("AddTransaction", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

		ctx := setupAuthedContext("POST", "/transactions/add-transaction/7", bodyBytes, 1)
		ctx.SetUserValue("customerId", "7")
		handler.AddTransaction(ctx)

		assert.Equal(t, 500, ctx.Response.StatusCode())

		var response map[string]string
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Equal(t, "internal error", response["error"])
	})
}

func TestTransactionHandler_ListTransactions(t *testing.T) {
	t.Run("successful list", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		expected := []*model.Transaction{
			{ID: 1, CustomerID: 7, Amount: 5000, Type: model.TransactionDebt},
			{ID: 2, CustomerID: 7, Amount: 2000, Type: model.TransactionPayment},
		}

		svc.On("ListTransactions", mock.Anything, int64(1), int64(7), mock.AnythingOfType("model.TransactionFilter")).
			Return(expected, nil)

		ctx := setupAuthedContext("GET", "/transactions/all-transactions/7", nil, 1)
		ctx.SetUserValue("customerId", "7")
		handler.ListTransactions(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response transactionListResponse
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Len(t, response.Items, 2)

		svc.AssertExpectations(t)
	})

	t.Run("list with window and pagination", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		svc.On("ListTransactions", mock.Anything, int64(1), int64(7), mock.MatchedBy(func(f model.TransactionFilter) bool {
			return f.From != nil && f.To != nil && f.Limit == 5 && f.Offset == 10
		})).Return([]*model.Transaction{}, nil)

		ctx := setupAuthedContext("GET", "/transactions/all-transactions/7?from=2024-01-01&to=2024-12-31&limit=5&offset=10", nil, 1)
		ctx.SetUserValue("customerId", "7")
		handler.ListTransactions(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("list with desc order", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		svc.On("ListTransactions", mock.Anything, int64(1), int64(7), mock.MatchedBy(func(f model.TransactionFilter) bool {
			return f.Desc == true
		})).Return([]*model.Transaction{}, nil)

		ctx := setupAuthedContext("GET", "/transactions/all-transactions/7?order=desc", nil, 1)
		ctx.SetUserValue("customerId", "7")
		handler.ListTransactions(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("foreign customer maps to 401", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		svc.On("ListTransactions", mock.Anything, int64(1), int64(7), mock.Anything).
			Return(nil, services.ErrUnauthorized)

		ctx := setupAuthedContext("GET", "/transactions/all-transactions/7", nil, 1)
		ctx.SetUserValue("customerId", "7")
		handler.ListTransactions(ctx)

		assert.Equal(t, 401, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})
}

func TestTransactionHandler_EditTransaction(t *testing.T) {
	t.Run("successful edit", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		bodyBytes, _ := json.Marshal(transactionRequest{Amount: 3000, Type: "payment", Details: "partial"})

		expected := &model.Transaction{ID: 42, CustomerID: 7, Amount: 3000, Type: model.TransactionPayment}

		svc.On("EditTransaction", mock.Anything, mock.MatchedBy(func(p model.TransactionUpdateRequest) bool {
			return p.ShopOwnerID == 1 && p.CustomerID == 7 && p.TransactionID == 42 &&
				p.Amount == 3000 && p.Type == model.TransactionPayment
		})).Return(expected, nil)

		ctx := setupAuthedContext("PUT", "/transactions/edit-transaction/7/42", bodyBytes, 1)
		ctx.SetUserValue("customerId", "7")
		ctx.SetUserValue("transactionId", "42")
		handler.EditTransaction(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("unknown transaction maps to 404", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		bodyBytes, _ := json.Marshal(transactionRequest{Amount: 3000, Type: "payment"})

		svc.On("EditTransaction", mock.Anything, mock.Anything).Return(nil, services.ErrTransactionNotFound)

		ctx := setupAuthedContext("PUT", "/transactions/edit-transaction/7/999", bodyBytes, 1)
		ctx.SetUserValue("customerId", "7")
		ctx.SetUserValue("transactionId", "999")
		handler.EditTransaction(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("invalid transaction id", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		ctx := setupAuthedContext("PUT", "/transactions/edit-transaction/7/abc", []byte(`{}`), 1)
		ctx.SetUserValue("customerId", "7")
		ctx.SetUserValue("transactionId", "abc")
		handler.EditTransaction(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("successful delete", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		svc.On("DeleteTransaction", mock.Anything, int64(1), int64(7), int64(42)).Return(nil)

		ctx := setupAuthedContext("DELETE", "/transactions/delete-transaction/7/42", nil, 1)
		ctx.SetUserValue("customerId", "7")
		ctx.SetUserValue("transactionId", "42")
		handler.DeleteTransaction(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response map[string]string
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Equal(t, "deleted", response["status"])

		svc.AssertExpectations(t)
	})

	t.Run("unknown transaction maps to 404", func(t *testing.T) {
		svc := new(MockLedgerService)
		handler := NewTransactionHandler(svc)

		svc.On("DeleteTransaction", mock.Anything, int64(1), int64(7), int64(999)).
			Return(services.ErrTransactionNotFound)

		ctx := setupAuthedContext("DELETE", "/transactions/delete-transaction/7/999", nil, 1)
		ctx.SetUserValue("customerId", "7")
		ctx.SetUserValue("transactionId", "999")
		handler.DeleteTransaction(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})
}

func TestHelperFunctions(t *testing.T) {
	t.Run("readJSON", func(t *testing.T) {
		data := map[string]string{"key": "value"}
		bodyBytes, _ := json.Marshal(data)
		ctx := setupTestContext("POST", "/", bodyBytes)

		var result map[string]string
		err := readJSON(ctx, &result)
		require.NoError(t, err)
		assert.Equal(t, "value", result["key"])
	})

	t.Run("writeJSON", func(t *testing.T) {
		ctx := setupTestContext("GET", "/", nil)
		data := map[string]string{"message": "test"}

		writeJSON(ctx, 200, data)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		assert.Contains(t, string(ctx.Response.Header.Peek("Content-Type")), "application/json")

		var result map[string]string
		err := json.Unmarshal(ctx.Response.Body(), &result)
		require.NoError(t, err)
		assert.Equal(t, "test", result["message"])
	})

	t.Run("writeError", func(t *testing.T) {
		ctx := setupTestContext("GET", "/", nil)
		writeError(ctx, 404, "not found")

		assert.Equal(t, 404, ctx.Response.StatusCode())

		var result map[string]string
		err := json.Unmarshal(ctx.Response.Body(), &result)
		require.NoError(t, err)
		assert.Equal(t, "not found", result["error"])
	})

	t.Run("parseTime RFC3339", func(t *testing.T) {
		parsed, err := parseTime("2024-01-01T12:00:00Z")
		require.NoError(t, err)
		assert.Equal(t, 2024, parsed.Year())
	})

	t.Run("parseTime date only", func(t *testing.T) {
		parsed, err := parseTime("2024-01-01")
		require.NoError(t, err)
		assert.Equal(t, 2024, parsed.Year())
		assert.Equal(t, time.Month(1), parsed.Month())
		assert.Equal(t, 1, parsed.Day())
	})

	t.Run("parseTime invalid", func(t *testing.T) {
		_, err := parseTime("invalid")
		assert.Error(t, err)
	})
}

func TestWriteServiceError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation error", model.ErrInvalidAmount, 400},
		{"duplicate customer", services.ErrCustomerExists, 400},
		{"ownership violation", services.ErrUnauthorized, 401},
		{"bad credentials", services.ErrInvalidCredentials, 401},
		{"missing customer", services.ErrCustomerNotFound, 404},
		{"missing transaction", services.ErrTransactionNotFound, 404},
		{"unexpected", errors.New("boom"), 500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := setupTestContext("GET", "/", nil)
			writeServiceError(ctx, tc.err)
			assert.Equal(t, tc.status, ctx.Response.StatusCode())
		})
	}
}
