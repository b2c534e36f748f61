package handlers

import (
	"context"

	"github.com/MohdAnasQureshi/groceryshop/internal/model"
	xhttp "github.com/MohdAnasQureshi/groceryshop/pkg/http"
	"github.com/fasthttp/router"
)

type CustomerService interface {
	Add(ctx context.Context, p model.CustomerCreateRequest) (*model.Customer, error)
	Get(ctx context.Context, customerID, shopOwnerID int64) (*model.Customer, error)
	List(ctx context.Context, shopOwnerID int64) ([]*model.Customer, error)
	Edit(ctx context.Context, p model.CustomerUpdateRequest) (*model.Customer, error)
	Delete(ctx context.Context, customerID, shopOwnerID int64) error
}

type CustomerHandler struct {
	svc CustomerService
}

func RegisterCustomerRoutes(e *router.Group, h *CustomerHandler, authn xhttp.MiddlewareFunc) {
	e.POST("/customers/add-customer", authn(h.AddCustomer))
	e.GET("/customers/customers-list", authn(h.ListCustomers))
	e.GET("/customers/{customerId}", authn(h.GetCustomer))
	e.PUT("/customers/edit-customer/{customerId}", authn(h.EditCustomer))
	e.DELETE("/customers/delete-customer/{customerId}", authn(h.DeleteCustomer))
}

func NewCustomerHandler(customerService CustomerService) *CustomerHandler {
	return &CustomerHandler{
		svc: customerService,
	}
}

type customerRequest struct {
	Name                 string `json:"customer_name"`
	Contact              string `json:"contact"`
	TotalOutstandingDebt int64  `json:"total_outstanding_debt"`
	TotalPaid            int64  `json:"total_paid"`
}

type customerListResponse struct {
	Items []*model.Customer `json:"items"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *CustomerHandler) AddCustomer(ctx *xhttp.RequestCtx) {
	ownerID, ok := callerID(ctx)
	if !ok {
		return
	}

	var req customerRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	p := model.CustomerCreateRequest{
		ShopOwnerID:          ownerID,
		Name:                 req.Name,
		Contact:              req.Contact,
		TotalOutstandingDebt: req.TotalOutstandingDebt,
		TotalPaid:            req.TotalPaid,
	}
	c, err := h.svc.Add(ctx, p)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, c)
}

func (h *CustomerHandler) GetCustomer(ctx *xhttp.RequestCtx) {
	ownerID, ok := callerID(ctx)
	if !ok {
		return
	}
	customerID, err := pathInt64(ctx, "customerId")
	if err != nil {
		writeError(ctx, 400, "invalid customer id")
		return
	}

	c, err := h.svc.Get(ctx, customerID, ownerID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, c)
}

func (h *CustomerHandler) ListCustomers(ctx *xhttp.RequestCtx) {
	ownerID, ok := callerID(ctx)
	if !ok {
		return
	}

	items, err := h.svc.List(ctx, ownerID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, customerListResponse{Items: items})
}

func (h *CustomerHandler) EditCustomer(ctx *xhttp.RequestCtx) {
	ownerID, ok := callerID(ctx)
	if !ok {
		return
	}
	customerID, err := pathInt64(ctx, "customerId")
	if err != nil {
		writeError(ctx, 400, "invalid customer id")
		return
	}

	var req customerRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	p := model.CustomerUpdateRequest{
		ShopOwnerID: ownerID,
		CustomerID:  customerID,
		Name:        req.Name,
		Contact:     req.Contact,
	}
	c, err := h.svc.Edit(ctx, p)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, c)
}

func (h *CustomerHandler) DeleteCustomer(ctx *xhttp.RequestCtx) {
	ownerID, ok := callerID(ctx)
	if !ok {
		return
	}
	customerID, err := pathInt64(ctx, "customerId")
	if err != nil {
		writeError(ctx, 400, "invalid customer id")
		return
	}

	if err := h.svc.Delete(ctx, customerID, ownerID); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, map[string]string{"status": "deleted"})
}
