package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"roostermarket/internal/infrastructure/metrics"
)

func Metrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Path() == "/metrics" {
			return next(c)
		}

		metrics.StartRequest()
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		path := c.Path()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveRequest(c.Request().Method, path, c.Response().Status, time.Since(start))
		return nil
	}
}
