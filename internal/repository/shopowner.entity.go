package repository

import (
	"time"

	"github.com/MohdAnasQureshi/groceryshop/internal/model"
)

type ShopOwnerEntity struct {
	ID           int64     `db:"id"            gorm:"primaryKey;autoIncrement;column:id"`
	FullName     string    `db:"full_name"     gorm:"column:full_name;not null"`
	Email        string    `db:"email"         gorm:"column:email;not null;unique"`
	ShopName     string    `db:"shop_name"     gorm:"column:shop_name"`
	PasswordHash string    `db:"password_hash" gorm:"column:password_hash;not null"`
	RefreshToken string    `db:"refresh_token" gorm:"column:refresh_token"`
	CreatedAt    time.Time `db:"created_at"    gorm:"column:created_at;autoCreateTime"`
}

func (ShopOwnerEntity) TableName() string {
	return "shop_owners"
}

func toShopOwnerEntity(m *model.ShopOwner) *ShopOwnerEntity {
	if m == nil {
		return nil
	}
	return &ShopOwnerEntity{
		ID:           m.ID,
		FullName:     m.FullName,
		Email:        m.Email,
		ShopName:     m.ShopName,
		PasswordHash: m.PasswordHash,
		RefreshToken: m.RefreshToken,
		CreatedAt:    m.CreatedAt,
	}
}

func toShopOwnerModel(e *ShopOwnerEntity) *model.ShopOwner {
	if e == nil {
		return nil
	}
	return &model.ShopOwner{
		ID:           e.ID,
		FullName:     e.FullName,
		Email:        e.Email,
		ShopName:     e.ShopName,
		PasswordHash: e.PasswordHash,
		RefreshToken: e.RefreshToken,
		CreatedAt:    e.CreatedAt,
	}
}
