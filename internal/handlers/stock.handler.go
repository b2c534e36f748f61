package handlers

import (
	"context"

	"github.com/MohdAnasQureshi/groceryshop/internal/model"
	xhttp "github.com/MohdAnasQureshi/groceryshop/pkg/http"
	"github.com/fasthttp/router"
)

type StockService interface {
	Add(ctx context.Context, p model.StockOrderCreateRequest) (*model.StockOrderItem, error)
	Edit(ctx context.Context, shopOwnerID, itemID int64, stockList string) (*model.StockOrderItem, error)
	Delete(ctx context.Context, shopOwnerID, itemID int64) error
	List(ctx context.Context, shopOwnerID int64) ([]*model.StockOrderItem, error)
}

type StockHandler struct {
	svc StockService
}

func RegisterStockRoutes(e *router.Group, h *StockHandler, authn xhttp.MiddlewareFunc) {
	e.POST("/stock-orders/add-stock-list", authn(h.AddStockList))
	e.GET("/stock-orders/all-stock-lists", authn(h.ListStockLists))
	e.PUT("/stock-orders/edit-stock-list/{stockListId}", authn(h.EditStockList))
	e.DELETE("/stock-orders/delete-stock-list/{stockListId}", authn(h.DeleteStockList))
}

func NewStockHandler(stockService StockService) *StockHandler {
	return &StockHandler{
		svc: stockService,
	}
}

type stockListRequest struct {
	StockList string `json:"stock_list"`
}

type stockListResponse struct {
	Items []*model.StockOrderItem `json:"items"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *StockHandler) AddStockList(ctx *xhttp.RequestCtx) {
	ownerID, ok := callerID(ctx)
	if !ok {
		return
	}

	var req stockListRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	item, err := h.svc.Add(ctx, model.StockOrderCreateRequest{ShopOwnerID: ownerID, StockList: req.StockList})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 201, item)
}

func (h *StockHandler) ListStockLists(ctx *xhttp.RequestCtx) {
	ownerID, ok := callerID(ctx)
	if !ok {
		return
	}

	items, err := h.svc.List(ctx, ownerID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, stockListResponse{Items: items})
}

func (h *StockHandler) EditStockList(ctx *xhttp.RequestCtx) {
	ownerID, ok := callerID(ctx)
	if !ok {
		return
	}
	itemID, err := pathInt64(ctx, "stockListId")
	if err != nil {
		writeError(ctx, 400, "invalid stock list id")
		return
	}

	var req stockListRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	item, err := h.svc.Edit(ctx, ownerID, itemID, req.StockList)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, item)
}

func (h *StockHandler) DeleteStockList(ctx *xhttp.RequestCtx) {
	ownerID, ok := callerID(ctx)
	if !ok {
		return
	}
	itemID, err := pathInt64(ctx, "stockListId")
	if err != nil {
		writeError(ctx, 400, "invalid stock list id")
		return
	}

	if err := h.svc.Delete(ctx, ownerID, itemID); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, 200, map[string]string{"status": "deleted"})
}
