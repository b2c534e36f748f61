package handlers

import (
	"context"

	"github.com/MohdAnasQureshi/groceryshop/internal/auth"
	"github.com/MohdAnasQureshi/groceryshop/internal/model"
	xhttp "github.com/MohdAnasQureshi/groceryshop/pkg/http"
	"github.com/fasthttp/router"
)

type ShopOwnerService interface {
	SendVerificationOTP(ctx context.Context, email string) error
	Register(ctx context.Context, p model.ShopOwnerRegisterRequest) (*model.ShopOwner, error)
	Login(ctx context.Context, p model.ShopOwnerLoginRequest) (*model.ShopOwner, auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error)
	Logout(ctx context.Context, shopOwnerID int64) error
	ChangePassword(ctx context.Context, shopOwnerID int64, current, newPassword, confirm string) error
	Current(ctx context.Context, shopOwnerID int64) (*model.ShopOwner, error)
}

type ShopOwnerHandler struct {
	svc ShopOwnerService
}

func RegisterShopOwnerRoutes(e *router.Group, h *ShopOwnerHandler, authn xhttp.MiddlewareFunc) {
	e.POST("/send-verification-otp", h.SendVerificationOTP)
	e.POST("/register", h.Register)
	e.POST("/login", h.Login)
	e.POST("/refresh-token", h.RefreshToken)
	e.POST("/logout", authn(h.Logout))
	e.POST("/change-password", authn(h.ChangePassword))
	e.GET("/current-shop-owner", authn(h.CurrentShopOwner))
}

func NewShopOwnerHandler(shopOwnerService ShopOwnerService) *ShopOwnerHandler {
	return &ShopOwnerHandler{
		svc: shopOwnerService,
	}
}

type otpRequest struct {
	Email string `json:"email"`
}

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	ShopName string `json:"shop_name"`
	Password string `json:"password"`
	OTP      string `json:"otp"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ShopOwner    *model.ShopOwner `json:"shop_owner"`
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *ShopOwnerHandler) SendVerificationOTP(ctx *xhttp.RequestCtx) {
	var req otpRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	if err := h.svc.SendVerificationOTP(ctx, req.Email); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, map[string]string{"status": "otp sent"})
}

func (h *ShopOwnerHandler) Register(ctx *xhttp.RequestCtx) {
	var req registerRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	p := model.ShopOwnerRegisterRequest{
		FullName: req.FullName,
		Email:    req.Email,
		ShopName: req.ShopName,
		Password: req.Password,
		OTP:      req.OTP,
	}
	owner, err := h.svc.Register(ctx, p)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, owner)
}

func (h *ShopOwnerHandler) Login(ctx *xhttp.RequestCtx) {
	var req loginRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	owner, pair, err := h.svc.Login(ctx, model.ShopOwnerLoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, loginResponse{
		ShopOwner:    owner,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *ShopOwnerHandler) RefreshToken(ctx *xhttp.RequestCtx) {
	var req refreshRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	pair, err := h.svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, pair)
}

func (h *ShopOwnerHandler) Logout(ctx *xhttp.RequestCtx) {
	ownerID, ok := callerID(ctx)
	if !ok {
		return
	}

	if err := h.svc.Logout(ctx, ownerID); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, map[string]string{"status": "logged out"})
}

func (h *ShopOwnerHandler) ChangePassword(ctx *xhttp.RequestCtx) {
	ownerID, ok := callerID(ctx)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	if err := h.svc.ChangePassword(ctx, ownerID, req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, map[string]string{"status": "password changed"})
}

func (h *ShopOwnerHandler) CurrentShopOwner(ctx *xhttp.RequestCtx) {
	ownerID, ok := callerID(ctx)
	if !ok {
		return
	}

	owner, err := h.svc.Current(ctx, ownerID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, owner)
}
