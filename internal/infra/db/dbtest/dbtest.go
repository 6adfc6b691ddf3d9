// Package dbtest はテスト用のSQLiteデータベースを用意する。
package dbtest

import (
	"fmt"
	"path/filepath"
	"testing"

	"ecshop/internal/domain/model"
	"ecshop/internal/infra/db"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open はテストごとに新しいDBファイルを作り、マイグレーション済みの *gorm.DB を返す。
// BEGIN IMMEDIATE なので同時トランザクションは直列化される。
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "shop.db")
	dsn := fmt.Sprintf("file:%s?_txlock=immediate&_busy_timeout=10000&_foreign_keys=on", path)

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	return gdb
}

// Price は "10.00" のような文字列から価格を作る。
func Price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

// SeedProduct は商品を1件作る。
func SeedProduct(t *testing.T, gdb *gorm.DB, p model.Product) model.Product {
	t.Helper()
	if p.Name == "" {
		p.Name = "product"
	}
	if err := gdb.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

// SeedCartItem はカート明細を1件作る。
func SeedCartItem(t *testing.T, gdb *gorm.DB, userID, productID, qty int64) model.CartItem {
	t.Helper()
	it := model.CartItem{UserID: userID, ProductID: productID, Quantity: qty}
	if err := gdb.Create(&it).Error; err != nil {
		t.Fatalf("seed cart item: %v", err)
	}
	return it
}

// Stock は商品の現在の在庫数を返す（論理削除済みも含む）。
func Stock(t *testing.T, gdb *gorm.DB, productID int64) int64 {
	t.Helper()
	var p model.Product
	if err := gdb.Unscoped().First(&p, productID).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	return p.Stock
}

// Count はモデルの行数を返す。
func Count(t *testing.T, gdb *gorm.DB, m any) int64 {
	t.Helper()
	var n int64
	if err := gdb.Model(m).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
