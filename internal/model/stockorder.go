package model

import (
	"errors"
	"strings"
	"time"
)

var ErrEmptyStockList = errors.New("stock list is empty, nothing to add")

// StockOrderItem is one free-text entry on a shop owner's reorder list.
type StockOrderItem struct {
	ID          int64     `json:"id"`
	ShopOwnerID int64     `json:"shop_owner_id"`
	StockList   string    `json:"stock_list"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NormalizeStockList matches the mobile client's lowercase convention.
func NormalizeStockList(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

type StockOrderCreateRequest struct {
	ShopOwnerID int64
	StockList   string
}

func (r StockOrderCreateRequest) Validate() error {
	if NormalizeStockList(r.StockList) == "" {
		return ErrEmptyStockList
	}
	return nil
}
