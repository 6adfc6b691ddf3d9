package handler

import (
	"net/http"

	"ecshop/internal/config"
	"ecshop/internal/middleware"
	"ecshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cart のHTTP。どの操作も更新後のカート全体を返す。
// 在庫はここでは確保しない（確定はチェックアウト時）。
type CartHandler struct {
	uc *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// 同じ商品を追加すると数量が加算される
type AddCartRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"gte=1"`
}

type ChangeQuantityRequest struct {
	Quantity int64 `json:"quantity" validate:"gte=1"`
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/cart", middleware.AuthJWT(cfg))

	g.GET("", withUser(h.show))
	g.POST("", withUser(h.add))
	g.PATCH("/:id", withUser(h.changeQuantity))
	g.DELETE("/:id", withUser(h.remove))
}

func (h *CartHandler) show(c echo.Context, userID int64) error {
	cart, err := h.uc.GetCart(c.Request().Context(), userID)
	return respondCart(c, cart, err)
}

func (h *CartHandler) add(c echo.Context, userID int64) error {
	var req AddCartRequest
	if err := bindBody(c, &req); err != nil {
		return writeError(c, err)
	}

	cart, err := h.uc.AddToCart(c.Request().Context(), userID, usecase.AddCartInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	return respondCart(c, cart, err)
}

func (h *CartHandler) changeQuantity(c echo.Context, userID int64) error {
	itemID, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req ChangeQuantityRequest
	if err := bindBody(c, &req); err != nil {
		return writeError(c, err)
	}

	cart, err := h.uc.UpdateCartItem(c.Request().Context(), userID, itemID, usecase.UpdateCartItemInput{
		Quantity: req.Quantity,
	})
	return respondCart(c, cart, err)
}

func (h *CartHandler) remove(c echo.Context, userID int64) error {
	itemID, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	cart, err := h.uc.DeleteCartItem(c.Request().Context(), userID, itemID)
	return respondCart(c, cart, err)
}

func respondCart(c echo.Context, cart usecase.CartResponse, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cart)
}
