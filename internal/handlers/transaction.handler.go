package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/MohdAnasQureshi/groceryshop/internal/model"
	xhttp "github.com/MohdAnasQureshi/groceryshop/pkg/http"
	"github.com/fasthttp/router"
)

type LedgerService interface {
	AddTransaction(ctx context.Context, p model.TransactionCreateRequest) (*model.Transaction, error)
	ListTransactions(ctx context.Context, shopOwnerID, customerID int64, f model.TransactionFilter) ([]*model.Transaction, error)
	EditTransaction(ctx context.Context, p model.TransactionUpdateRequest) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, shopOwnerID, customerID, transactionID int64) error
}

type TransactionHandler struct {
	svc LedgerService
}

func RegisterTransactionRoutes(e *router.Group, h *TransactionHandler, authn xhttp.MiddlewareFunc) {
	e.POST("/transactions/add-transaction/{customerId}", authn(h.AddTransaction))
	e.GET("/transactions/all-transactions/{customerId}", authn(h.ListTransactions))
	e.PUT("/transactions/edit-transaction/{customerId}/{transactionId}", authn(h.EditTransaction))
	e.DELETE("/transactions/delete-transaction/{customerId}/{transactionId}", authn(h.DeleteTransaction))
}

func NewTransactionHandler(ledgerService LedgerService) *TransactionHandler {
	return &TransactionHandler{
		svc: ledgerService,
	}
}

type transactionRequest struct {
	Amount  int64  `json:"amount"`
	Type    string `json:"transaction_type"`
	Details string `json:"transaction_details"`
}

type transactionListResponse struct {
	Items []*model.Transaction `json:"items"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *TransactionHandler) AddTransaction(ctx *xhttp.RequestCtx) {
	ownerID, ok := callerID(ctx)
	if !ok {
		return
	}
	customerID, err := pathInt64(ctx, "customerId")
	if err != nil {
		writeError(ctx, 400, "invalid customer id")
		return
	}

	var req transactionRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	p := model.TransactionCreateRequest{
		ShopOwnerID: ownerID,
		CustomerID:  customerID,
		Amount:      req.Amount,
		Type:        model.TransactionType(req.Type),
		Details:     req.Details,
	}
	txn, err := h.svc.AddTransaction(ctx, p)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, txn)
}

func (h *TransactionHandler) ListTransactions(ctx *xhttp.RequestCtx) {
	ownerID, ok := callerID(ctx)
	if !ok {
		return
	}
	customerID, err := pathInt64(ctx, "customerId")
	if err != nil {
		writeError(ctx, 400, "invalid customer id")
		return
	}

	var f model.TransactionFilter
	if v := query(ctx, "from"); v != "" {
		if t, e := parseTime(v); e == nil {
			f.From = &t
		}
	}
	if v := query(ctx, "to"); v != "" {
		if t, e := parseTime(v); e == nil {
			f.To = &t
		}
	}
	if v := query(ctx, "limit"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			f.Limit = n
		}
	}
	if v := query(ctx, "offset"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			f.Offset = n
		}
	}
	if strings.EqualFold(query(ctx, "order"), "desc") {
		f.Desc = true
	}

	items, err := h.svc.ListTransactions(ctx, ownerID, customerID, f)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, transactionListResponse{Items: items})
}

func (h *TransactionHandler) EditTransaction(ctx *xhttp.RequestCtx) {
	ownerID, ok := callerID(ctx)
	if !ok {
		return
	}
	customerID, err := pathInt64(ctx, "customerId")
	if err != nil {
		writeError(ctx, 400, "invalid customer id")
		return
	}
	transactionID, err := pathInt64(ctx, "transactionId")
	if err != nil {
		writeError(ctx, 400, "invalid transaction id")
		return
	}

	var req transactionRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	p := model.TransactionUpdateRequest{
		ShopOwnerID:   ownerID,
		CustomerID:    customerID,
		TransactionID: transactionID,
		Amount:        req.Amount,
		Type:          model.TransactionType(req.Type),
		Details:       req.Details,
	}
	txn, err := h.svc.EditTransaction(ctx, p)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, txn)
}

func (h *TransactionHandler) DeleteTransaction(ctx *xhttp.RequestCtx) {
	ownerID, ok := callerID(ctx)
	if !ok {
		return
	}
	customerID, err := pathInt64(ctx, "customerId")
	if err != nil {
		writeError(ctx, 400, "invalid customer id")
		return
	}
	transactionID, err := pathInt64(ctx, "transactionId")
	if err != nil {
		writeError(ctx, 400, "invalid transaction id")
		return
	}

	if err := h.svc.DeleteTransaction(ctx, ownerID, customerID, transactionID); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, map[string]string{"status": "deleted"})
}
