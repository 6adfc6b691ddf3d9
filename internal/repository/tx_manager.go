package repository

import (
	"context"
	"errors"
)

// ストアがトランザクション競合（直列化失敗・デッドロック）を報告した。
// 自動リトライはしない。
var ErrConflict = errors.New("transaction conflict")

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	CartItems() CartItemRepository
	Inventory() InventoryRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fn がエラーを返せば全てロールバックされる。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
