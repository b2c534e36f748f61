package repository

import (
	"time"

	"github.com/MohdAnasQureshi/groceryshop/internal/model"
)

type StockOrderEntity struct {
	ID          int64     `db:"id"            gorm:"primaryKey;autoIncrement;column:id"`
	ShopOwnerID int64     `db:"shop_owner_id" gorm:"column:shop_owner_id;not null;index"`
	StockList   string    `db:"stock_list"    gorm:"column:stock_list;not null"`
	CreatedAt   time.Time `db:"created_at"    gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `db:"updated_at"    gorm:"column:updated_at;autoUpdateTime"`
}

func (StockOrderEntity) TableName() string {
	return "stock_order_items"
}

func toStockOrderEntity(m *model.StockOrderItem) *StockOrderEntity {
	if m == nil {
		return nil
	}
	return &StockOrderEntity{
		ID:          m.ID,
		ShopOwnerID: m.ShopOwnerID,
		StockList:   m.StockList,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toStockOrderModel(e *StockOrderEntity) *model.StockOrderItem {
	if e == nil {
		return nil
	}
	return &model.StockOrderItem{
		ID:          e.ID,
		ShopOwnerID: e.ShopOwnerID,
		StockList:   e.StockList,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toStockOrderModels(entities []*StockOrderEntity) []*model.StockOrderItem {
	if entities == nil {
		return nil
	}
	models := make([]*model.StockOrderItem, len(entities))
	for i, e := range entities {
		models[i] = toStockOrderModel(e)
	}
	return models
}
