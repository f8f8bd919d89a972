package router

import (
	"github.com/labstack/echo/v4"

	"chatmarket/internal/adapter/api/handler"
	"chatmarket/internal/infrastructure/metrics"
)

func SetupHealthRouter(e *echo.Echo) {
	healthHandler := handler.GetHealthHandler()
	e.GET("/health", healthHandler.CheckHealth)
	e.GET("/health/storage", healthHandler.CheckStorageHealth)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}
