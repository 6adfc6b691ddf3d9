// Package checkout はカートから注文集約を組み立てる純粋なロジックを持つ。
// DBには触らない。
package checkout

import (
	"time"

	"ecshop/internal/domain/model"

	"github.com/shopspring/decimal"
)

// カート明細のスナップショット（商品の現在値つき）。
// Product が nil なら商品は存在しない。
type CartLine struct {
	CartItemID int64
	ProductID  int64
	Quantity   int64
	Product    *ProductSnapshot
}

type ProductSnapshot struct {
	ID       int64
	Name     string
	Price    decimal.NullDecimal
	Stock    int64
	IsActive bool
}

// 注文明細の下書き。単価は検証時点の値。
type ItemDraft struct {
	ProductID  int64
	Quantity   int64
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

// 在庫の減算指示。
type StockDecrement struct {
	ProductID int64
	Quantity  int64
}

// 注文集約の下書き。
type Aggregate struct {
	TotalAmount decimal.Decimal
	Items       []ItemDraft
	Decrements  []StockDecrement
}

// Build はカート明細を順に検証し、注文集約を返す。
// 最初の不正な明細で失敗し、部分的な集約は返さない。
func Build(lines []CartLine) (Aggregate, error) {
	if len(lines) == 0 {
		return Aggregate{}, ErrEmptyCart
	}

	total := decimal.Zero
	items := make([]ItemDraft, 0, len(lines))
	decrements := make([]StockDecrement, 0, len(lines))
	seen := make(map[int64]int, len(lines))

	for _, l := range lines {
		p := l.Product
		if p == nil || !p.IsActive {
			return Aggregate{}, &ProductUnavailableError{ProductID: l.ProductID}
		}
		if l.Quantity > p.Stock {
			return Aggregate{}, &InsufficientStockError{
				ProductID: l.ProductID,
				Requested: l.Quantity,
				Available: p.Stock,
			}
		}
		if !p.Price.Valid {
			return Aggregate{}, &MissingPriceError{ProductID: l.ProductID}
		}

		unit := p.Price.Decimal
		lineTotal := unit.Mul(decimal.NewFromInt(l.Quantity))
		total = total.Add(lineTotal)

		items = append(items, ItemDraft{
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			UnitPrice:  unit,
			TotalPrice: lineTotal,
		})

		//同じ商品が複数行あれば減算はまとめる
		if i, ok := seen[l.ProductID]; ok {
			decrements[i].Quantity += l.Quantity
			continue
		}
		seen[l.ProductID] = len(decrements)
		decrements = append(decrements, StockDecrement{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	return Aggregate{
		TotalAmount: total,
		Items:       items,
		Decrements:  decrements,
	}, nil
}

// NewOrder は保存用の注文（明細つき）を新しく作る。
func (a Aggregate) NewOrder(userID int64, now time.Time) model.Order {
	items := make([]model.OrderItem, 0, len(a.Items))
	for _, it := range a.Items {
		items = append(items, model.OrderItem{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
			CreatedAt:  now,
		})
	}

	return model.Order{
		UserID:      userID,
		Status:      model.OrderStatusPending,
		TotalAmount: a.TotalAmount,
		CreatedAt:   now,
		UpdatedAt:   now,
		Items:       items,
	}
}
