package usecase

import (
	"context"
	"errors"
	"net/http"

	"ecshop/internal/domain/model"
	repo "ecshop/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart の業務ロジックです。
// カートは在庫を確保しない。確定はチェックアウト時。
type CartUsecase struct {
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

// price は商品の現在価格。買えない明細は available=false で合計に含めない。
type CartItemResponse struct {
	ID        int64               `json:"id"`
	ProductID int64               `json:"product_id"`
	Name      string              `json:"name"`
	Price     decimal.NullDecimal `json:"price"`
	Quantity  int64               `json:"quantity"`
	Available bool                `json:"available"`
}

type CartResponse struct {
	UserID        int64              `json:"user_id"`
	Items         []CartItemResponse `json:"items"`
	TotalQuantity int64              `json:"total_quantity"`
	TotalPrice    decimal.Decimal    `json:"total_price"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return u.buildCartResponse(ctx, userID)
}

// AddToCart はカートに追加（同一商品は数量加算）。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	// 商品チェック（公開のみ）
	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "product unavailable")
	}
	if err != nil {
		return CartResponse{}, storeError("find product", err)
	}
	if !p.IsActive {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "product unavailable")
	}

	lines, err := u.cartItemRepo.ListSnapshotByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, storeError("load cart", err)
	}
	var existingQty int64
	for _, l := range lines {
		if l.ProductID == in.ProductID {
			existingQty += l.Quantity
		}
	}
	if existingQty+in.Quantity > p.Stock {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "stock exceeded")
	}

	if err := u.cartItemRepo.UpsertByUserAndProduct(ctx, userID, in.ProductID, in.Quantity); err != nil {
		return CartResponse{}, storeError("add cart item", err)
	}

	return u.buildCartResponse(ctx, userID)
}

// 数量変更（所有チェック＋在庫チェック）。
func (u *CartUsecase) UpdateCartItem(ctx context.Context, userID int64, cartItemID int64, in UpdateCartItemInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	item, err := u.findOwnedItem(ctx, userID, cartItemID)
	if err != nil {
		return CartResponse{}, err
	}

	//商品の在庫チェック
	p, err := u.productRepo.FindByID(ctx, item.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "product unavailable")
	}
	if err != nil {
		return CartResponse{}, storeError("find product", err)
	}
	if !p.IsActive {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "product unavailable")
	}
	if in.Quantity > p.Stock {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "stock exceeded")
	}

	if err := u.cartItemRepo.UpdateQuantity(ctx, cartItemID, in.Quantity); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, storeError("update cart item", err)
	}

	return u.buildCartResponse(ctx, userID)
}

// 明細削除
func (u *CartUsecase) DeleteCartItem(ctx context.Context, userID int64, cartItemID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if _, err := u.findOwnedItem(ctx, userID, cartItemID); err != nil {
		return CartResponse{}, err
	}

	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, storeError("delete cart item", err)
	}

	return u.buildCartResponse(ctx, userID)
}

// 他人の明細は404
func (u *CartUsecase) findOwnedItem(ctx context.Context, userID int64, cartItemID int64) (model.CartItem, error) {
	item, err := u.cartItemRepo.FindByID(ctx, cartItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.CartItem{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.CartItem{}, storeError("find cart item", err)
	}
	if item.UserID != userID {
		return model.CartItem{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return item, nil
}

// ユーザーの明細をまとめてCartResponseを作る。
func (u *CartUsecase) buildCartResponse(ctx context.Context, userID int64) (CartResponse, error) {
	lines, err := u.cartItemRepo.ListSnapshotByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, storeError("load cart", err)
	}

	resp := CartResponse{
		UserID:     userID,
		Items:      make([]CartItemResponse, 0, len(lines)),
		TotalPrice: decimal.Zero,
	}

	for _, l := range lines {
		item := CartItemResponse{
			ID:        l.CartItemID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		}
		if p := l.Product; p != nil {
			item.Name = p.Name
			item.Price = p.Price
			item.Available = p.IsActive && p.Price.Valid
		}
		resp.Items = append(resp.Items, item)

		if !item.Available {
			continue
		}
		resp.TotalQuantity += l.Quantity
		resp.TotalPrice = resp.TotalPrice.Add(item.Price.Decimal.Mul(decimal.NewFromInt(l.Quantity)))
	}

	return resp, nil
}
