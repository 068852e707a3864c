package router

import (
	"github.com/labstack/echo/v4"

	"roostermarket/internal/adapter/api/handler"
	"roostermarket/internal/adapter/api/middleware"
	"roostermarket/internal/infrastructure/ratelimit"
)

func SetupAuthRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter *ratelimit.RateLimiter) {
	authHandler := handler.GetAuthHandler()
	throttle := middleware.RateLimit(limiter, ratelimit.ActionAuth)

	auth := e.Group("/v1/auth")

	// Public routes, throttled per client IP
	auth.POST("/register", authHandler.Register, throttle)
	auth.POST("/login", authHandler.Login, throttle)
	auth.POST("/password-reset", authHandler.RequestPasswordReset, throttle)

	auth.POST("/logout", authHandler.Logout, authMiddleware.Authenticate)
	auth.GET("/me", authHandler.Me, authMiddleware.Authenticate)
}
