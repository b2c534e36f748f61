package repository

import (
	"context"
	"errors"

	"github.com/MohdAnasQureshi/groceryshop/internal/model"
	"github.com/MohdAnasQureshi/groceryshop/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrShopOwnerNotFound = errors.New("shop owner not found")
	ErrEmailTaken        = errors.New("shop owner with this email already exists")
)

type ShopOwnerRepository struct {
	*pg.DB
}

func NewShopOwnerRepository(db *pg.DB) *ShopOwnerRepository {
	return &ShopOwnerRepository{
		db,
	}
}

func (r *ShopOwnerRepository) Create(ctx context.Context, o *model.ShopOwner) (*model.ShopOwner, error) {
	var existing ShopOwnerEntity
	err := r.Write(ctx).WithContext(ctx).
		Where("email = ?", o.Email).
		First(&existing).
		Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	entity := toShopOwnerEntity(o)
	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toShopOwnerModel(entity), nil
}

func (r *ShopOwnerRepository) GetByID(ctx context.Context, id int64) (*model.ShopOwner, error) {
	var entity ShopOwnerEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("id = ?", id).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShopOwnerNotFound
		}
		return nil, err
	}
	return toShopOwnerModel(&entity), nil
}

func (r *ShopOwnerRepository) GetByEmail(ctx context.Context, email string) (*model.ShopOwner, error) {
	var entity ShopOwnerEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("email = ?", email).
		First(&entity).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShopOwnerNotFound
		}
		return nil, err
	}
	return toShopOwnerModel(&entity), nil
}

func (r *ShopOwnerRepository) UpdateRefreshToken(ctx context.Context, id int64, refreshToken string) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&ShopOwnerEntity{}).
		Where("id = ?", id).
		Update("refresh_token", refreshToken)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrShopOwnerNotFound
	}
	return nil
}

func (r *ShopOwnerRepository) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&ShopOwnerEntity{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrShopOwnerNotFound
	}
	return nil
}
