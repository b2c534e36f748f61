package repository

import (
	"time"

	"github.com/MohdAnasQureshi/groceryshop/internal/model"
)

type TransactionEntity struct {
	ID              int64     `db:"id"                  gorm:"primaryKey;autoIncrement;column:id"`
	CustomerID      int64     `db:"customer_id"         gorm:"column:customer_id;not null;index"`
	ShopOwnerID     int64     `db:"shop_owner_id"       gorm:"column:shop_owner_id;not null;index"`
	Type            string    `db:"transaction_type"    gorm:"column:transaction_type;not null"`
	Amount          int64     `db:"amount"              gorm:"column:amount;not null"`
	Details         string    `db:"transaction_details" gorm:"column:transaction_details"`
	TransactionDate time.Time `db:"transaction_date"    gorm:"column:transaction_date;index;autoCreateTime"`
}

func (TransactionEntity) TableName() string {
	return "transactions"
}

func toTransactionEntity(m *model.Transaction) *TransactionEntity {
	if m == nil {
		return nil
	}
	return &TransactionEntity{
		ID:              m.ID,
		CustomerID:      m.CustomerID,
		ShopOwnerID:     m.ShopOwnerID,
		Type:            string(m.Type),
		Amount:          m.Amount,
		Details:         m.Details,
		TransactionDate: m.TransactionDate,
	}
}

func toTransactionModel(e *TransactionEntity) *model.Transaction {
	if e == nil {
		return nil
	}
	return &model.Transaction{
		ID:              e.ID,
		CustomerID:      e.CustomerID,
		ShopOwnerID:     e.ShopOwnerID,
		Type:            model.TransactionType(e.Type),
		Amount:          e.Amount,
		Details:         e.Details,
		TransactionDate: e.TransactionDate,
	}
}

func toTransactionModels(entities []*TransactionEntity) []*model.Transaction {
	if entities == nil {
		return nil
	}
	models := make([]*model.Transaction, len(entities))
	for i, e := range entities {
		models[i] = toTransactionModel(e)
	}
	return models
}
