package checkout

import (
	"testing"
	"time"

	"ecshop/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func line(id, productID, qty int64, p *ProductSnapshot) CartLine {
	return CartLine{CartItemID: id, ProductID: productID, Quantity: qty, Product: p}
}

func TestBuild_EmptyCart(t *testing.T) {
	_, err := Build(nil)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = Build([]CartLine{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestBuild_SingleLineTotals(t *testing.T) {
	lines := []CartLine{
		line(1, 10, 2, &ProductSnapshot{ID: 10, Price: price("10.00"), Stock: 5, IsActive: true}),
	}

	agg, err := Build(lines)
	require.NoError(t, err)

	assert.True(t, agg.TotalAmount.Equal(decimal.RequireFromString("20.00")))
	require.Len(t, agg.Items, 1)
	assert.True(t, agg.Items[0].UnitPrice.Equal(decimal.RequireFromString("10")))
	assert.True(t, agg.Items[0].TotalPrice.Equal(decimal.RequireFromString("20")))
	assert.Equal(t, []StockDecrement{{ProductID: 10, Quantity: 2}}, agg.Decrements)
}

func TestBuild_ExactDecimalArithmetic(t *testing.T) {
	//0.1 + 0.2 のような誤差が出ないこと
	lines := []CartLine{
		line(1, 1, 3, &ProductSnapshot{ID: 1, Price: price("0.10"), Stock: 10, IsActive: true}),
		line(2, 2, 7, &ProductSnapshot{ID: 2, Price: price("19.99"), Stock: 10, IsActive: true}),
		line(3, 3, 1, &ProductSnapshot{ID: 3, Price: price("0.20"), Stock: 1, IsActive: true}),
	}

	agg, err := Build(lines)
	require.NoError(t, err)

	assert.Equal(t, "140.43", agg.TotalAmount.StringFixed(2))

	sum := decimal.Zero
	for _, it := range agg.Items {
		assert.True(t, it.TotalPrice.Equal(it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))))
		sum = sum.Add(it.TotalPrice)
	}
	assert.True(t, agg.TotalAmount.Equal(sum))
}

func TestBuild_PreservesLoaderOrder(t *testing.T) {
	lines := []CartLine{
		line(5, 30, 1, &ProductSnapshot{ID: 30, Price: price("1"), Stock: 1, IsActive: true}),
		line(6, 10, 1, &ProductSnapshot{ID: 10, Price: price("1"), Stock: 1, IsActive: true}),
		line(7, 20, 1, &ProductSnapshot{ID: 20, Price: price("1"), Stock: 1, IsActive: true}),
	}

	agg, err := Build(lines)
	require.NoError(t, err)

	got := []int64{agg.Items[0].ProductID, agg.Items[1].ProductID, agg.Items[2].ProductID}
	assert.Equal(t, []int64{30, 10, 20}, got)
}

func TestBuild_MergesDecrementsForSameProduct(t *testing.T) {
	p := &ProductSnapshot{ID: 10, Price: price("2.50"), Stock: 5, IsActive: true}
	lines := []CartLine{line(1, 10, 2, p), line(2, 11, 1, &ProductSnapshot{ID: 11, Price: price("1"), Stock: 1, IsActive: true}), line(3, 10, 3, p)}

	agg, err := Build(lines)
	require.NoError(t, err)

	assert.Len(t, agg.Items, 3)
	assert.Equal(t, []StockDecrement{{ProductID: 10, Quantity: 5}, {ProductID: 11, Quantity: 1}}, agg.Decrements)
	assert.Equal(t, "13.50", agg.TotalAmount.StringFixed(2))
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name  string
		lines []CartLine
		check func(t *testing.T, err error)
	}{
		{
			name:  "missing product",
			lines: []CartLine{line(1, 99, 1, nil)},
			check: func(t *testing.T, err error) {
				var e *ProductUnavailableError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, int64(99), e.ProductID)
			},
		},
		{
			name:  "inactive product",
			lines: []CartLine{line(1, 7, 1, &ProductSnapshot{ID: 7, Price: price("1"), Stock: 3, IsActive: false})},
			check: func(t *testing.T, err error) {
				var e *ProductUnavailableError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, int64(7), e.ProductID)
			},
		},
		{
			name:  "insufficient stock",
			lines: []CartLine{line(1, 2, 10, &ProductSnapshot{ID: 2, Price: price("1"), Stock: 3, IsActive: true})},
			check: func(t *testing.T, err error) {
				var e *InsufficientStockError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, InsufficientStockError{ProductID: 2, Requested: 10, Available: 3}, *e)
			},
		},
		{
			name:  "missing price",
			lines: []CartLine{line(1, 4, 1, &ProductSnapshot{ID: 4, Stock: 3, IsActive: true})},
			check: func(t *testing.T, err error) {
				var e *MissingPriceError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, int64(4), e.ProductID)
			},
		},
		{
			//在庫チェックは価格チェックより先
			name:  "stock checked before price",
			lines: []CartLine{line(1, 4, 9, &ProductSnapshot{ID: 4, Stock: 3, IsActive: true})},
			check: func(t *testing.T, err error) {
				var e *InsufficientStockError
				assert.ErrorAs(t, err, &e)
			},
		},
		{
			name: "fails on first bad line",
			lines: []CartLine{
				line(1, 1, 1, &ProductSnapshot{ID: 1, Price: price("1"), Stock: 1, IsActive: true}),
				line(2, 2, 1, &ProductSnapshot{ID: 2, Price: price("1"), Stock: 1, IsActive: false}),
				line(3, 3, 5, &ProductSnapshot{ID: 3, Price: price("1"), Stock: 1, IsActive: true}),
			},
			check: func(t *testing.T, err error) {
				var e *ProductUnavailableError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, int64(2), e.ProductID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg, err := Build(tt.lines)
			require.Error(t, err)
			assert.True(t, IsDomainError(err))
			assert.Empty(t, agg.Items)
			assert.Empty(t, agg.Decrements)
			tt.check(t, err)
		})
	}
}

func TestAggregate_NewOrder(t *testing.T) {
	agg, err := Build([]CartLine{
		line(1, 10, 2, &ProductSnapshot{ID: 10, Price: price("10.00"), Stock: 5, IsActive: true}),
		line(2, 11, 1, &ProductSnapshot{ID: 11, Price: price("3.25"), Stock: 5, IsActive: true}),
	})
	require.NoError(t, err)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	o := agg.NewOrder(42, now)

	assert.Equal(t, int64(42), o.UserID)
	assert.Equal(t, model.OrderStatusPending, o.Status)
	assert.Equal(t, now, o.CreatedAt)
	assert.Equal(t, now, o.UpdatedAt)
	assert.Equal(t, "23.25", o.TotalAmount.StringFixed(2))
	require.Len(t, o.Items, 2)
	assert.Equal(t, int64(11), o.Items[1].ProductID)
	assert.Equal(t, "3.25", o.Items[1].UnitPrice.StringFixed(2))
}

func TestReason(t *testing.T) {
	assert.Equal(t, "success", Reason(nil))
	assert.Equal(t, "empty_cart", Reason(ErrEmptyCart))
	assert.Equal(t, "product_unavailable", Reason(&ProductUnavailableError{ProductID: 1}))
	assert.Equal(t, "insufficient_stock", Reason(&InsufficientStockError{ProductID: 1}))
	assert.Equal(t, "missing_price", Reason(&MissingPriceError{ProductID: 1}))
	assert.Equal(t, "persistence_failure", Reason(&PersistenceError{Op: "commit", Err: assert.AnError}))
	assert.False(t, IsDomainError(&PersistenceError{Op: "commit", Err: assert.AnError}))
}
