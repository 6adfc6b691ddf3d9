package repository

import (
	"context"

	"ecshop/internal/domain/model"
)

type OrderRepository interface {
	// 注文と明細を保存し、注文IDを返す。
	Create(ctx context.Context, order model.Order) (int64, error)
	// 明細と商品つきで1件取得
	FindWithItems(ctx context.Context, orderID int64) (model.Order, error)
	// 新しい順。明細と商品つき。
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
}
