package services

import (
	"context"
	"errors"

	"github.com/MohdAnasQureshi/groceryshop/internal/model"
	"github.com/MohdAnasQureshi/groceryshop/internal/repository"
)

var ErrStockOrderNotFound = errors.New("stock list not found")

type StockOrderRepository interface {
	Create(ctx context.Context, item *model.StockOrderItem) (*model.StockOrderItem, error)
	Update(ctx context.Context, item *model.StockOrderItem) (*model.StockOrderItem, error)
	Delete(ctx context.Context, itemID, shopOwnerID int64) error
	ListByOwner(ctx context.Context, shopOwnerID int64) ([]*model.StockOrderItem, error)
}

type StockService struct {
	stockRepo StockOrderRepository
}

func NewStockService(stockRepo StockOrderRepository) *StockService {
	return &StockService{stockRepo: stockRepo}
}

func (s *StockService) Add(ctx context.Context, p model.StockOrderCreateRequest) (*model.StockOrderItem, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.stockRepo.Create(ctx, &model.StockOrderItem{
		ShopOwnerID: p.ShopOwnerID,
		StockList:   model.NormalizeStockList(p.StockList),
	})
}

func (s *StockService) Edit(ctx context.Context, shopOwnerID, itemID int64, stockList string) (*model.StockOrderItem, error) {
	if model.NormalizeStockList(stockList) == "" {
		return nil, model.ErrEmptyStockList
	}
	updated, err := s.stockRepo.Update(ctx, &model.StockOrderItem{
		ID:          itemID,
		ShopOwnerID: shopOwnerID,
		StockList:   model.NormalizeStockList(stockList),
	})
	if err != nil {
		if errors.Is(err, repository.ErrStockOrderNotFound) {
			return nil, ErrStockOrderNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *StockService) Delete(ctx context.Context, shopOwnerID, itemID int64) error {
	err := s.stockRepo.Delete(ctx, itemID, shopOwnerID)
	if errors.Is(err, repository.ErrStockOrderNotFound) {
		return ErrStockOrderNotFound
	}
	return err
}

func (s *StockService) List(ctx context.Context, shopOwnerID int64) ([]*model.StockOrderItem, error) {
	return s.stockRepo.ListByOwner(ctx, shopOwnerID)
}
