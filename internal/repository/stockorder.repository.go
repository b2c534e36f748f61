package repository

import (
	"context"
	"errors"

	"github.com/MohdAnasQureshi/groceryshop/internal/model"
	"github.com/MohdAnasQureshi/groceryshop/pkg/pg"
)

var ErrStockOrderNotFound = errors.New("stock list not found")

type StockOrderRepository struct {
	*pg.DB
}

func NewStockOrderRepository(db *pg.DB) *StockOrderRepository {
	return &StockOrderRepository{
		db,
	}
}

func (r *StockOrderRepository) Create(ctx context.Context, item *model.StockOrderItem) (*model.StockOrderItem, error) {
	entity := toStockOrderEntity(item)
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toStockOrderModel(entity), nil
}

func (r *StockOrderRepository) Update(ctx context.Context, item *model.StockOrderItem) (*model.StockOrderItem, error) {
	result := r.Write(ctx).WithContext(ctx).
		Model(&StockOrderEntity{}).
		Where("id = ? AND shop_owner_id = ?", item.ID, item.ShopOwnerID).
		Update("stock_list", item.StockList)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrStockOrderNotFound
	}

	var entity StockOrderEntity
	err := r.Write(ctx).WithContext(ctx).
		Where("id = ?", item.ID).
		First(&entity).
		Error
	if err != nil {
		return nil, err
	}
	return toStockOrderModel(&entity), nil
}

func (r *StockOrderRepository) Delete(ctx context.Context, itemID, shopOwnerID int64) error {
	result := r.Write(ctx).WithContext(ctx).
		Where("id = ? AND shop_owner_id = ?", itemID, shopOwnerID).
		Delete(&StockOrderEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStockOrderNotFound
	}
	return nil
}

func (r *StockOrderRepository) ListByOwner(ctx context.Context, shopOwnerID int64) ([]*model.StockOrderItem, error) {
	var entities []*StockOrderEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("shop_owner_id = ?", shopOwnerID).
		Order("created_at DESC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toStockOrderModels(entities), nil
}
