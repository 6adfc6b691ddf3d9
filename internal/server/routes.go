package server

import (
	"net/http"

	"ecshop/internal/config"
	"ecshop/internal/handler"
	"ecshop/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

func RegisterRoutes(e *echo.Echo, cfg config.Config, orderH *handler.OrderHandler, cartH *handler.CartHandler, gdb *gorm.DB, g prometheus.Gatherer) {
	e.GET("/healthz", healthz(gdb))
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(g)))

	orderH.RegisterRoutes(e, cfg)
	cartH.RegisterRoutes(e, cfg)
}

// DBに届くかだけ見る
func healthz(gdb *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		sqlDB, err := gdb.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request().Context())
		}
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}
