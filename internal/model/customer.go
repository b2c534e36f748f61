package model

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrMissingCustomerName = errors.New("customer name is required")
)

// Customer is a debtor/payer tracked by one shop owner.
//
// TotalOutstandingDebt is the signed running total in paise; positive means
// the customer owes the shop. It always equals the fold of the customer's
// live transactions (debt adds, payment subtracts).
//
// TotalPaid is written once at creation and never maintained afterwards; it
// is kept for compatibility with existing rows and carries no invariant.
type Customer struct {
	ID                   int64     `json:"id"`
	ShopOwnerID          int64     `json:"shop_owner_id"`
	Name                 string    `json:"customer_name"`
	Contact              string    `json:"customer_contact"`
	TotalOutstandingDebt int64     `json:"total_outstanding_debt"`
	TotalPaid            int64     `json:"total_paid"`
	CreatedAt            time.Time `json:"created_at"`
}

// NormalizeCustomerName lowercases and collapses surrounding whitespace so
// uniqueness per shop owner is case- and padding-insensitive.
func NormalizeCustomerName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type CustomerCreateRequest struct {
	ShopOwnerID          int64
	Name                 string
	Contact              string
	TotalOutstandingDebt int64
	TotalPaid            int64
}

func (r CustomerCreateRequest) Validate() error {
	if NormalizeCustomerName(r.Name) == "" {
		return ErrMissingCustomerName
	}
	return nil
}

type CustomerUpdateRequest struct {
	ShopOwnerID int64
	CustomerID  int64
	Name        string
	Contact     string
}

func (r CustomerUpdateRequest) Validate() error {
	if r.CustomerID == 0 {
		return ErrMissingCustomerID
	}
	if NormalizeCustomerName(r.Name) == "" {
		return ErrMissingCustomerName
	}
	return nil
}
