package repository

import (
	"context"

	"ecshop/internal/domain/checkout"
	"ecshop/internal/domain/model"
)

type CartItemRepository interface {
	// カート明細を商品の現在値つきで、追加順に返す。空なら空スライス。
	ListSnapshotByUserID(ctx context.Context, userID int64) ([]checkout.CartLine, error)
	// 同一商品は数量を加算
	UpsertByUserAndProduct(ctx context.Context, userID int64, productID int64, addQty int64) error
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	DeleteByUserID(ctx context.Context, userID int64) error
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
}
