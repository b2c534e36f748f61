package model

import (
	"errors"
	"time"
)

type TransactionType string

const (
	TransactionDebt    TransactionType = "debt"
	TransactionPayment TransactionType = "payment"
)

func (t TransactionType) Valid() bool {
	return t == TransactionDebt || t == TransactionPayment
}

var (
	ErrInvalidAmount          = errors.New("transaction amount must be greater than zero")
	ErrInvalidTransactionType = errors.New("transaction type must be either 'debt' or 'payment'")
	ErrMissingCustomerID      = errors.New("customer id is required")
)

// Transaction is a single debt or payment event against a customer.
// Amounts are stored in paise.
type Transaction struct {
	ID              int64           `json:"id"`
	CustomerID      int64           `json:"customer_id"`
	ShopOwnerID     int64           `json:"shop_owner_id"`
	Type            TransactionType `json:"transaction_type"`
	Amount          int64           `json:"amount"`
	Details         string          `json:"transaction_details,omitempty"`
	TransactionDate time.Time       `json:"transaction_date"`
}

type TransactionCreateRequest struct {
	ShopOwnerID int64
	CustomerID  int64
	Amount      int64
	Type        TransactionType
	Details     string
}

func (r TransactionCreateRequest) Validate() error {
	if r.CustomerID == 0 {
		return ErrMissingCustomerID
	}
	if r.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !r.Type.Valid() {
		return ErrInvalidTransactionType
	}
	return nil
}

type TransactionUpdateRequest struct {
	ShopOwnerID   int64
	CustomerID    int64
	TransactionID int64
	Amount        int64
	Type          TransactionType
	Details       string
}

func (r TransactionUpdateRequest) Validate() error {
	if r.CustomerID == 0 {
		return ErrMissingCustomerID
	}
	if r.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !r.Type.Valid() {
		return ErrInvalidTransactionType
	}
	return nil
}

// TransactionFilter narrows a customer's ledger listing. The zero value
// returns the full history in chronological order.
type TransactionFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
	Desc   bool
}
