package handler

import (
	"errors"
	"net/http"

	"ecshop/internal/domain/checkout"
	"ecshop/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// エラーレスポンス。商品起因のエラーは product_id などを付ける。
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	ProductID int64  `json:"product_id,omitempty"`
	Requested int64  `json:"requested,omitempty"`
	Available *int64 `json:"available,omitempty"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	if checkout.IsDomainError(err) {
		return c.JSON(http.StatusBadRequest, checkoutErrorResponse(err))
	}
	if errors.Is(err, usecase.ErrOrderNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500は原因を残す
	ev := log.Error().
		Err(err).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Str("method", c.Request().Method).
		Str("path", c.Path())
	if userID, ok := getUserIDFromContext(c); ok {
		ev = ev.Int64("user_id", userID)
	}
	var pe *checkout.PersistenceError
	if errors.As(err, &pe) {
		ev = ev.Str("op", pe.Op).Bool("conflict", pe.Conflict)
	}
	ev.Msg("request failed")

	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func checkoutErrorResponse(err error) ErrorResponse {
	res := ErrorResponse{
		Error:   checkout.Reason(err),
		Message: err.Error(),
	}

	var (
		pu *checkout.ProductUnavailableError
		is *checkout.InsufficientStockError
		mp *checkout.MissingPriceError
	)
	switch {
	case errors.As(err, &is):
		available := is.Available
		res.ProductID = is.ProductID
		res.Requested = is.Requested
		res.Available = &available
	case errors.As(err, &pu):
		res.ProductID = pu.ProductID
	case errors.As(err, &mp):
		res.ProductID = mp.ProductID
	}
	return res
}
