package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ecshop/internal/domain/checkout"
	"ecshop/internal/domain/model"
	"ecshop/internal/metrics"
	repo "ecshop/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	tx          repo.TransactionManager
	orders      repo.OrderRepository
	metrics     *metrics.CheckoutMetrics
	maxPageSize int
	now         func() time.Time
}

// metrics は nil でもよい。
func NewOrderUsecase(tx repo.TransactionManager, orders repo.OrderRepository, m *metrics.CheckoutMetrics, maxPageSize int) *OrderUsecase {
	return &OrderUsecase{
		tx:          tx,
		orders:      orders,
		metrics:     m,
		maxPageSize: maxPageSize,
		now:         time.Now,
	}
}

type ProductOutput struct {
	ID       int64               `json:"id"`
	Name     string              `json:"name"`
	Price    decimal.NullDecimal `json:"price"`
	Stock    int64               `json:"stock"`
	IsActive bool                `json:"is_active"`
}

type OrderItemOutput struct {
	ID         int64           `json:"id"`
	ProductID  int64           `json:"product_id"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Product    *ProductOutput  `json:"product,omitempty"`
}

type OrderOutput struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"user_id"`
	Status      string            `json:"status"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Items       []OrderItemOutput `json:"items"`
}

type OrderListOutput struct {
	Items    []OrderOutput `json:"items"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// Checkout はカートを注文に変換する。
// カート読込・検証・在庫減算・注文保存・カート削除を1トランザクションで行い、
// 途中で失敗すれば何も変更しない。リトライはしない。
func (u *OrderUsecase) Checkout(ctx context.Context, userID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	start := time.Now()
	placed, err := u.placeOrder(ctx, userID)
	u.metrics.Observe(checkout.Reason(err), time.Since(start))
	if err != nil {
		if checkout.IsDomainError(err) {
			log.Info().Int64("user_id", userID).Str("reason", checkout.Reason(err)).Err(err).Msg("checkout rejected")
		}
		return OrderOutput{}, err
	}

	//commit済みなので呼び出し元の期限・キャンセルとは切り離して読み直す
	o, err := u.orders.FindWithItems(context.WithoutCancel(ctx), placed.ID)
	if err != nil {
		//注文は確定済みなので、保存した内容で成功として返す
		log.Warn().Err(err).Int64("user_id", userID).Int64("order_id", placed.ID).Msg("reload created order failed")
		o = placed
	}

	log.Info().
		Int64("user_id", userID).
		Int64("order_id", o.ID).
		Str("total_amount", o.TotalAmount.String()).
		Int("items", len(o.Items)).
		Msg("checkout completed")

	return toOrderOutput(o), nil
}

// placeOrder は保存した注文（IDつき、商品情報なし）を返す。
func (u *OrderUsecase) placeOrder(ctx context.Context, userID int64) (model.Order, error) {
	var placed model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		lines, err := r.CartItems().ListSnapshotByUserID(ctx, userID)
		if err != nil {
			return storeError("load cart", err)
		}

		agg, err := checkout.Build(lines)
		if err != nil {
			return err
		}

		//在庫を確定時に再チェックして減らす
		for _, d := range agg.Decrements {
			if err := r.Inventory().Decrement(ctx, d.ProductID, d.Quantity); err != nil {
				return storeError("decrement stock", err)
			}
		}

		order := agg.NewOrder(userID, u.now())
		id, err := r.Orders().Create(ctx, order)
		if err != nil {
			return storeError("create order", err)
		}

		if err := r.CartItems().DeleteByUserID(ctx, userID); err != nil {
			return storeError("clear cart", err)
		}

		order.ID = id
		for i := range order.Items {
			order.Items[i].OrderID = id
		}
		placed = order
		return nil
	})
	if err != nil {
		return model.Order{}, storeError("commit checkout", err)
	}
	return placed, nil
}

// ListMyOrders は自分の注文を新しい順にページングして返す。
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64, page int, pageSize int) (OrderListOutput, error) {
	if userID <= 0 {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if pageSize < 1 || pageSize > u.maxPageSize {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page_size")
	}

	orders, total, err := u.orders.ListByUserID(ctx, userID, page, pageSize)
	if err != nil {
		return OrderListOutput{}, storeError("list orders", err)
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, toOrderOutput(o))
	}

	return OrderListOutput{
		Items:    outs,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindWithItems(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, ErrOrderNotFound
	}
	if err != nil {
		return OrderOutput{}, storeError("load order", err)
	}
	if o.UserID != userID {
		//他人の注文は「存在しない扱い」にする
		return OrderOutput{}, ErrOrderNotFound
	}

	return toOrderOutput(o), nil
}

func toOrderOutput(o model.Order) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(o.Items))
	for _, it := range o.Items {
		item := OrderItemOutput{
			ID:         it.ID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		}
		if it.Product != nil {
			item.Product = &ProductOutput{
				ID:       it.Product.ID,
				Name:     it.Product.Name,
				Price:    it.Product.Price,
				Stock:    it.Product.Stock,
				IsActive: it.Product.IsActive,
			}
		}
		outItems = append(outItems, item)
	}

	return OrderOutput{
		ID:          o.ID,
		UserID:      o.UserID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		Items:       outItems,
	}
}
