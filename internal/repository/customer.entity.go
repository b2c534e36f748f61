package repository

import (
	"time"

	"github.com/MohdAnasQureshi/groceryshop/internal/model"
)

type CustomerEntity struct {
	ID                   int64     `db:"id"                     gorm:"primaryKey;autoIncrement;column:id"`
	ShopOwnerID          int64     `db:"shop_owner_id"          gorm:"column:shop_owner_id;not null;index;uniqueIndex:idx_customer_owner_name,priority:1"`
	Name                 string    `db:"customer_name"          gorm:"column:customer_name;not null;uniqueIndex:idx_customer_owner_name,priority:2"`
	Contact              string    `db:"customer_contact"       gorm:"column:customer_contact"`
	TotalOutstandingDebt int64     `db:"total_outstanding_debt" gorm:"column:total_outstanding_debt;not null;default:0"`
	TotalPaid            int64     `db:"total_paid"             gorm:"column:total_paid;not null;default:0"`
	CreatedAt            time.Time `db:"created_at"             gorm:"column:created_at;autoCreateTime"`
}

func (CustomerEntity) TableName() string {
	return "customers"
}

func toCustomerEntity(m *model.Customer) *CustomerEntity {
	if m == nil {
		return nil
	}
	return &CustomerEntity{
		ID:                   m.ID,
		ShopOwnerID:          m.ShopOwnerID,
		Name:                 m.Name,
		Contact:              m.Contact,
		TotalOutstandingDebt: m.TotalOutstandingDebt,
		TotalPaid:            m.TotalPaid,
		CreatedAt:            m.CreatedAt,
	}
}

func toCustomerModel(e *CustomerEntity) *model.Customer {
	if e == nil {
		return nil
	}
	return &model.Customer{
		ID:                   e.ID,
		ShopOwnerID:          e.ShopOwnerID,
		Name:                 e.Name,
		Contact:              e.Contact,
		TotalOutstandingDebt: e.TotalOutstandingDebt,
		TotalPaid:            e.TotalPaid,
		CreatedAt:            e.CreatedAt,
	}
}

func toCustomerModels(entities []*CustomerEntity) []*model.Customer {
	if entities == nil {
		return nil
	}
	models := make([]*model.Customer, len(entities))
	for i, e := range entities {
		models[i] = toCustomerModel(e)
	}
	return models
}
