package repository

import "context"

type InventoryRepository interface {
	// 在庫が足りるときだけ減算する。
	// 足りなければ *checkout.InsufficientStockError、商品が無ければ *checkout.ProductUnavailableError。
	Decrement(ctx context.Context, productID int64, qty int64) error

	// 現在の在庫数
	StockOf(ctx context.Context, productID int64) (int64, error)
}
