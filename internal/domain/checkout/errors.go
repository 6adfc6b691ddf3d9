package checkout

import (
	"errors"
	"fmt"
)

// カートが空のとき。
var ErrEmptyCart = errors.New("cart is empty")

// 商品が存在しない、または非公開。
type ProductUnavailableError struct {
	ProductID int64
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %d is unavailable", e.ProductID)
}

// 在庫不足。要求数と現在の在庫数を持つ。
type InsufficientStockError struct {
	ProductID int64
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// 価格が未設定。
type MissingPriceError struct {
	ProductID int64
}

func (e *MissingPriceError) Error() string {
	return fmt.Sprintf("product %d has no price set", e.ProductID)
}

// ストア由来の失敗をまとめて包む。
// Conflict はストアが直列化失敗やデッドロックを報告したときに true。
type PersistenceError struct {
	Op       string
	Conflict bool
	Err      error
}

func (e *PersistenceError) Error() string {
	if e.Conflict {
		return fmt.Sprintf("%s: transaction conflict: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsDomainError はカート内容に起因するエラー（クライアント側の問題）かを判定する。
func IsDomainError(err error) bool {
	if errors.Is(err, ErrEmptyCart) {
		return true
	}
	var pu *ProductUnavailableError
	var is *InsufficientStockError
	var mp *MissingPriceError
	return errors.As(err, &pu) || errors.As(err, &is) || errors.As(err, &mp)
}

// Reason はメトリクスやログ用の短い分類名を返す。
func Reason(err error) string {
	var (
		pu *ProductUnavailableError
		is *InsufficientStockError
		mp *MissingPriceError
	)
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.As(err, &pu):
		return "product_unavailable"
	case errors.As(err, &is):
		return "insufficient_stock"
	case errors.As(err, &mp):
		return "missing_price"
	default:
		return "persistence_failure"
	}
}
