package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/MohdAnasQureshi/groceryshop/internal/auth"
	"github.com/MohdAnasQureshi/groceryshop/internal/model"
	"github.com/MohdAnasQureshi/groceryshop/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockShopOwnerService struct {
	mock.Mock
}

func (m *MockShopOwnerService) SendVerificationOTP(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockShopOwnerService) Register(ctx context.Context, p model.ShopOwnerRegisterRequest) (*model.ShopOwner, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShopOwner), args.Error(1)
}

func (m *MockShopOwnerService) Login(ctx context.Context, p model.ShopOwnerLoginRequest) (*model.ShopOwner, auth.TokenPair, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, auth.TokenPair{}, args.Error(2)
	}
	return args.Get(0).(*model.ShopOwner), args.Get(1).(auth.TokenPair), args.Error(2)
}

func (m *MockShopOwnerService) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(auth.TokenPair), args.Error(1)
}

func (m *MockShopOwnerService) Logout(ctx context.Context, shopOwnerID int64) error {
	args := m.Called(ctx, shopOwnerID)
	return args.Error(0)
}

func (m *MockShopOwnerService) ChangePassword(ctx context.Context, shopOwnerID int64, current, newPassword, confirm string) error {
	args := m.Called(ctx, shopOwnerID, current, newPassword, confirm)
	return args.Error(0)
}

func (m *MockShopOwnerService) Current(ctx context.Context, shopOwnerID int64) (*model.ShopOwner, error) {
	args := m.Called(ctx, shopOwnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShopOwner), args.Error(1)
}

func TestShopOwnerHandler_SendVerificationOTP(t *testing.T) {
	t.Run("successful send", func(t *testing.T) {
		svc := new(MockShopOwnerService)
		handler := NewShopOwnerHandler(svc)

		bodyBytes, _ := json.Marshal(otpRequest{Email: "owner@shop.in"})
		svc.On("SendVerificationOTP", mock.Anything, "owner@shop.in").Return(nil)

		ctx := setupTestContext("POST", "/send-verification-otp", bodyBytes)
		handler.SendVerificationOTP(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("taken email maps to 400", func(t *testing.T) {
		svc := new(MockShopOwnerService)
		handler := NewShopOwnerHandler(svc)

		bodyBytes, _ := json.Marshal(otpRequest{Email: "taken@shop.in"})
		svc.On("SendVerificationOTP", mock.Anything, "taken@shop.in").Return(services.ErrEmailTaken)

		ctx := setupTestContext("POST", "/send-verification-otp", bodyBytes)
		handler.SendVerificationOTP(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})
}

func TestShopOwnerHandler_Register(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		svc := new(MockShopOwnerService)
		handler := NewShopOwnerHandler(svc)

		bodyBytes, _ := json.Marshal(registerRequest{
			FullName: "Mohd Anas",
			Email:    "owner@shop.in",
			ShopName: "Anas General Store",
			Password: "secret123",
			OTP:      "482915",
		})

		expected := &model.ShopOwner{ID: 1, FullName: "Mohd Anas", Email: "owner@shop.in", ShopName: "Anas General Store"}

		svc.On("Register", mock.Anything, mock.MatchedBy(func(p model.ShopOwnerRegisterRequest) bool {
			return p.Email == "owner@shop.in" && p.OTP == "482915"
		})).Return(expected, nil)

		ctx := setupTestContext("POST", "/register", bodyBytes)
		handler.Register(ctx)

		assert.Equal(t, 201, ctx.Response.StatusCode())

		var response model.ShopOwner
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Equal(t, int64(1), response.ID)

		svc.AssertExpectations(t)
	})

	t.Run("stale otp maps to 400", func(t *testing.T) {
		svc := new(MockShopOwnerService)
		handler := NewShopOwnerHandler(svc)

		bodyBytes, _ := json.Marshal(registerRequest{
			Email:    "owner@shop.in",
			Password: "secret123",
			OTP:      "000000",
		})

		svc.On("Register", mock.Anything, mock.Anything).Return(nil, services.ErrInvalidOTP)

		ctx := setupTestContext("POST", "/register", bodyBytes)
		handler.Register(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})
}

func TestShopOwnerHandler_Login(t *testing.T) {
	t.Run("successful login returns token pair", func(t *testing.T) {
		svc := new(MockShopOwnerService)
		handler := NewShopOwnerHandler(svc)

		bodyBytes, _ := json.Marshal(loginRequest{Email: "owner@shop.in", Password: "secret123"})

		owner := &model.ShopOwner{ID: 1, Email: "owner@shop.in"}
		pair := auth.TokenPair{AccessToken: "access.jwt", RefreshToken: "refresh.jwt"}

		svc.On("Login", mock.Anything, model.ShopOwnerLoginRequest{Email: "owner@shop.in", Password: "secret123"}).
			Return(owner, pair, nil)

		ctx := setupTestContext("POST", "/login", bodyBytes)
		handler.Login(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response loginResponse
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Equal(t, "access.jwt", response.AccessToken)
		assert.Equal(t, "refresh.jwt", response.RefreshToken)
		assert.Equal(t, int64(1), response.ShopOwner.ID)

		svc.AssertExpectations(t)
	})

	t.Run("bad credentials map to 401", func(t *testing.T) {
		svc := new(MockShopOwnerService)
		handler := NewShopOwnerHandler(svc)

		bodyBytes, _ := json.Marshal(loginRequest{Email: "owner@shop.in", Password: "wrong"})

		svc.On("Login", mock.Anything, mock.Anything).
			Return(nil, auth.TokenPair{}, services.ErrInvalidCredentials)

		ctx := setupTestContext("POST", "/login", bodyBytes)
		handler.Login(ctx)

		assert.Equal(t, 401, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})
}

func TestShopOwnerHandler_RefreshToken(t *testing.T) {
	t.Run("successful refresh", func(t *testing.T) {
		svc := new(MockShopOwnerService)
		handler := NewShopOwnerHandler(svc)

		bodyBytes, _ := json.Marshal(refreshRequest{RefreshToken: "refresh.jwt"})

		svc.On("Refresh", mock.Anything, "refresh.jwt").
			Return(auth.TokenPair{AccessToken: "new.access", RefreshToken: "new.refresh"}, nil)

		ctx := setupTestContext("POST", "/refresh-token", bodyBytes)
		handler.RefreshToken(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response auth.TokenPair
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Equal(t, "new.access", response.AccessToken)

		svc.AssertExpectations(t)
	})

	t.Run("invalid token maps to 401", func(t *testing.T) {
		svc := new(MockShopOwnerService)
		handler := NewShopOwnerHandler(svc)

		bodyBytes, _ := json.Marshal(refreshRequest{RefreshToken: "stale.jwt"})

		svc.On("Refresh", mock.Anything, "stale.jwt").
			Return(auth.TokenPair{}, auth.ErrInvalidToken)

		ctx := setupTestContext("POST", "/refresh-token", bodyBytes)
		handler.RefreshToken(ctx)

		assert.Equal(t, 401, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})
}

func TestShopOwnerHandler_AuthedRoutes(t *testing.T) {
	t.Run("logout", func(t *testing.T) {
		svc := new(MockShopOwnerService)
		handler := NewShopOwnerHandler(svc)

		svc.On("Logout", mock.Anything, int64(1)).Return(nil)

		ctx := setupAuthedContext("POST", "/logout", nil, 1)
		handler.Logout(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("change password mismatch maps to 400", func(t *testing.T) {
		svc := new(MockShopOwnerService)
		handler := NewShopOwnerHandler(svc)

		bodyBytes, _ := json.Marshal(changePasswordRequest{
			CurrentPassword: "secret123",
			NewPassword:     "newpass",
			ConfirmPassword: "different",
		})

		svc.On("ChangePassword", mock.Anything, int64(1), "secret123", "newpass", "different").
			Return(services.ErrPasswordMismatch)

		ctx := setupAuthedContext("POST", "/change-password", bodyBytes, 1)
		handler.ChangePassword(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
		svc.AssertExpectations(t)
	})

	t.Run("current shop owner", func(t *testing.T) {
		svc := new(MockShopOwnerService)
		handler := NewShopOwnerHandler(svc)

		svc.On("Current", mock.Anything, int64(1)).
			Return(&model.ShopOwner{ID: 1, Email: "owner@shop.in"}, nil)

		ctx := setupAuthedContext("GET", "/current-shop-owner", nil, 1)
		handler.CurrentShopOwner(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response model.ShopOwner
		err := json.Unmarshal(ctx.Response.Body(), &response)
		require.NoError(t, err)
		assert.Equal(t, int64(1), response.ID)

		svc.AssertExpectations(t)
	})

	t.Run("missing auth", func(t *testing.T) {
		svc := new(MockShopOwnerService)
		handler := NewShopOwnerHandler(svc)

		ctx := setupTestContext("GET", "/current-shop-owner", nil)
		handler.CurrentShopOwner(ctx)

		assert.Equal(t, 401, ctx.Response.StatusCode())
		svc.AssertNotCalled(t, "Current")
	})
}
