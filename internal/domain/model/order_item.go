package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。単価は購入時点の値をコピーして持つ。
type OrderItem struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID    int64           `gorm:"not null;index" json:"order_id"`
	ProductID  int64           `gorm:"not null;index" json:"product_id"`
	Quantity   int64           `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
	Product    *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
