package router

import (
	"github.com/labstack/echo/v4"

	"roostermarket/internal/adapter/api/handler"
	"roostermarket/internal/infrastructure/metrics"
)

func SetupHealthRouter(e *echo.Echo) {
	healthHandler := handler.GetHealthHandler()

	e.GET("/health", healthHandler.CheckHealth)
	e.GET("/health/ready", healthHandler.CheckReadiness)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}
