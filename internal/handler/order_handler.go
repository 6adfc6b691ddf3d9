package handler

import (
	"context"
	"net/http"
	"time"

	"ecshop/internal/config"
	"ecshop/internal/middleware"
	"ecshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc              *usecase.OrderUsecase
	checkoutTimeout time.Duration
	defaultPageSize int
}

func NewOrderHandler(uc *usecase.OrderUsecase, cfg config.Config) *OrderHandler {
	return &OrderHandler{
		uc:              uc,
		checkoutTimeout: cfg.CheckoutTimeout,
		defaultPageSize: cfg.OrdersDefaultPageSize,
	}
}

// 指定がなければ page=1, page_size=既定値
type ListOrdersQuery struct {
	Page     int `query:"page" validate:"min=1"`
	PageSize int `query:"page_size" validate:"min=1"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders", middleware.AuthJWT(cfg))

	g.POST("/checkout", withUser(h.checkout))
	g.GET("", withUser(h.list))
	g.GET("/:id", withUser(h.detail))
}

// カートの中身で注文を確定する
func (h *OrderHandler) checkout(c echo.Context, userID int64) error {
	ctx := c.Request().Context()
	if h.checkoutTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.checkoutTimeout)
		defer cancel()
	}

	out, err := h.uc.Checkout(ctx, userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) list(c echo.Context, userID int64) error {
	q := ListOrdersQuery{Page: 1, PageSize: h.defaultPageSize}
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query"})
	}
	if err := c.Validate(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	out, err := h.uc.ListMyOrders(c.Request().Context(), userID, q.Page, q.PageSize)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context, userID int64) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.GetMyOrderDetail(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
