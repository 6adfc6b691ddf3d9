package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 商品。価格は未設定(NULL)のこともある。
type Product struct {
	ID          int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string              `gorm:"type:varchar(255);not null" json:"name"`
	Description string              `gorm:"type:text" json:"description"`
	Price       decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"price"`
	Stock       int64               `gorm:"not null;check:stock >= 0" json:"stock"`
	IsActive    bool                `gorm:"not null;default:false" json:"is_active"`
	CreatedAt   time.Time           `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt      `gorm:"index" json:"-"`
}
