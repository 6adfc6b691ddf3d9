package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

// 作成直後の状態のみ。以降の遷移は持たない。
const OrderStatusPending OrderStatus = "PENDING"

type Order struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64           `gorm:"not null;index" json:"user_id"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	CreatedAt   time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
}
