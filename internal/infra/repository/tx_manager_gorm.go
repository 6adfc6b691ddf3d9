package repository

import (
	"context"
	"fmt"

	"ecshop/internal/infra/db"
	repo "ecshop/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders    repo.OrderRepository
	cartItems repo.CartItemRepository
	inventory repo.InventoryRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository        { return r.orders }
func (r *txReposGorm) CartItems() repo.CartItemRepository  { return r.cartItems }
func (r *txReposGorm) Inventory() repo.InventoryRepository { return r.inventory }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// fn がエラーを返すかpanicしたらロールバック、それ以外はcommit。
// 競合は repo.ErrConflict で包んで返す。
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	err := tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:    NewOrderGormRepository(tx),
			cartItems: NewCartGormRepository(tx),
			inventory: NewInventoryGormRepository(tx),
		}
		return fn(r)
	})
	if err != nil && db.IsConflict(err) {
		return fmt.Errorf("%w: %w", repo.ErrConflict, err)
	}
	return err
}
