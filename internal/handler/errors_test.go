package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ecshop/internal/domain/checkout"
	"ecshop/internal/middleware"
	"ecshop/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "empty cart",
			err:    checkout.ErrEmptyCart,
			status: http.StatusBadRequest,
			body:   `{"error":"empty_cart","message":"cart is empty"}`,
		},
		{
			name:   "insufficient stock keeps zero available",
			err:    &checkout.InsufficientStockError{ProductID: 4, Requested: 2, Available: 0},
			status: http.StatusBadRequest,
			body: `{"error":"insufficient_stock","message":"not enough stock for product 4: requested 2, available 0",
				"product_id":4,"requested":2,"available":0}`,
		},
		{
			name:   "product unavailable",
			err:    &checkout.ProductUnavailableError{ProductID: 8},
			status: http.StatusBadRequest,
			body:   `{"error":"product_unavailable","message":"product 8 is unavailable","product_id":8}`,
		},
		{
			name:   "missing price",
			err:    &checkout.MissingPriceError{ProductID: 9},
			status: http.StatusBadRequest,
			body:   `{"error":"missing_price","message":"product 9 has no price set","product_id":9}`,
		},
		{
			name:   "order not found",
			err:    usecase.ErrOrderNotFound,
			status: http.StatusNotFound,
			body:   `{"error":"not found"}`,
		},
		{
			name:   "http error",
			err:    usecase.NewHTTPError(http.StatusBadRequest, "invalid page"),
			status: http.StatusBadRequest,
			body:   `{"error":"invalid page"}`,
		},
		{
			name:   "persistence failure is hidden",
			err:    &checkout.PersistenceError{Op: "create order", Err: errors.New("pq: connection reset")},
			status: http.StatusInternalServerError,
			body:   `{"error":"internal error"}`,
		},
		{
			name:   "unknown error",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			body:   `{"error":"internal error"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/orders/checkout", nil), rec)
			c.Set(middleware.CtxUserIDKey, int64(1))

			require.NoError(t, writeError(c, tt.err))
			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestGetUserIDFromContext(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, ok := getUserIDFromContext(c)
	assert.False(t, ok)

	c.Set(middleware.CtxUserIDKey, "7")
	_, ok = getUserIDFromContext(c)
	assert.False(t, ok)

	c.Set(middleware.CtxUserIDKey, int64(7))
	id, ok := getUserIDFromContext(c)
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)
}

func TestWriteError_LogsServerErrors(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = orig })

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/cart", nil), rec)
	c.Set(middleware.CtxUserIDKey, int64(5))

	err := &checkout.PersistenceError{Op: "add cart item", Err: errors.New("connection reset by peer")}
	require.NoError(t, writeError(c, err))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "add cart item", entry["op"])
	assert.Equal(t, false, entry["conflict"])
	assert.EqualValues(t, 5, entry["user_id"])
	assert.Contains(t, entry["error"], "connection reset by peer")

	//クライアント側のエラーはログに出さない
	buf.Reset()
	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/cart", nil), rec)
	require.NoError(t, writeError(c, usecase.NewHTTPError(http.StatusBadRequest, "invalid quantity")))
	assert.Empty(t, buf.String())
}
