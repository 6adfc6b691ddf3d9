package repository

import (
	"context"
	"errors"
	"time"

	"ecshop/internal/domain/checkout"
	"ecshop/internal/domain/model"
	repo "ecshop/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// LEFT JOIN の結果1行分。商品が無ければ p_* は NULL。
type cartLineRow struct {
	CartItemID int64               `gorm:"column:cart_item_id"`
	ProductID  int64               `gorm:"column:product_id"`
	Quantity   int64               `gorm:"column:quantity"`
	PID        *int64              `gorm:"column:p_id"`
	PName      *string             `gorm:"column:p_name"`
	PPrice     decimal.NullDecimal `gorm:"column:p_price"`
	PStock     *int64              `gorm:"column:p_stock"`
	PIsActive  *bool               `gorm:"column:p_is_active"`
}

// カート明細を商品の現在値つきで取得（追加順）
func (r *CartGormRepository) ListSnapshotByUserID(ctx context.Context, userID int64) ([]checkout.CartLine, error) {
	var rows []cartLineRow

	err := r.db.WithContext(ctx).
		Table("cart_items").
		Select(`cart_items.id AS cart_item_id,
			cart_items.product_id AS product_id,
			cart_items.quantity AS quantity,
			products.id AS p_id,
			products.name AS p_name,
			products.price AS p_price,
			products.stock AS p_stock,
			products.is_active AS p_is_active`).
		Joins("LEFT JOIN products ON products.id = cart_items.product_id AND products.deleted_at IS NULL").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.id asc").
		Scan(&rows).Error
	if err != nil {
		return []checkout.CartLine{}, err
	}

	lines := make([]checkout.CartLine, 0, len(rows))
	for _, row := range rows {
		l := checkout.CartLine{
			CartItemID: row.CartItemID,
			ProductID:  row.ProductID,
			Quantity:   row.Quantity,
		}
		if row.PID != nil {
			l.Product = &checkout.ProductSnapshot{
				ID:       *row.PID,
				Name:     deref(row.PName),
				Price:    row.PPrice,
				Stock:    deref(row.PStock),
				IsActive: deref(row.PIsActive),
			}
		}
		lines = append(lines, l)
	}
	return lines, nil
}

// 同一商品は数量加算
func (r *CartGormRepository) UpsertByUserAndProduct(ctx context.Context, userID int64, productID int64, addQty int64) error {
	if addQty <= 0 {
		return errors.New("invalid quantity")
	}

	now := time.Now()
	item := model.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  addQty,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_items.quantity + ?", addQty),
				"updated_at": now,
			}),
		}).
		Create(&item).Error
}

// 明細の数量を更新
func (r *CartGormRepository) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", cartItemID).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を削除
func (r *CartGormRepository) DeleteByID(ctx context.Context, cartItemID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.CartItem{}, cartItemID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ユーザーの明細を全削除
func (r *CartGormRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{}).Error
}

// 明細を取得
func (r *CartGormRepository) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	var item model.CartItem

	err := r.db.WithContext(ctx).
		Where("id = ?", cartItemID).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
