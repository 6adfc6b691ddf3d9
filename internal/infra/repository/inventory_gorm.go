package repository

import (
	"context"
	"errors"
	"fmt"

	"ecshop/internal/domain/checkout"
	"ecshop/internal/domain/model"
	repo "ecshop/internal/repository"

	"gorm.io/gorm"
)

// 在庫カウンタの台帳。呼び出し側のトランザクション内で使う。
type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// 在庫が足りるときだけ減らす。
// 判定と減算は1本の条件付きUPDATEで行う（行ロックで同時実行を直列化）。
func (r *InventoryGormRepository) Decrement(ctx context.Context, productID int64, qty int64) error {
	if qty <= 0 {
		return fmt.Errorf("invalid quantity %d for product %d", qty, productID)
	}

	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	//減らせなかった理由を確認
	stock, err := r.StockOf(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return &checkout.ProductUnavailableError{ProductID: productID}
	}
	if err != nil {
		return err
	}
	return &checkout.InsufficientStockError{
		ProductID: productID,
		Requested: qty,
		Available: stock,
	}
}

// 現在の在庫数
func (r *InventoryGormRepository) StockOf(ctx context.Context, productID int64) (int64, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Select("id", "stock").First(&p, productID).Error
	if isNotFound(err) {
		return 0, repo.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return p.Stock, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
