package router

import (
	"github.com/labstack/echo/v4"

	"roostermarket/internal/adapter/api/handler"
	"roostermarket/internal/adapter/api/middleware"
)

// SetupWebSocketRouter mounts the chat event stream. Browsers pass the token as
// ?token= since they cannot set headers on the upgrade request.
func SetupWebSocketRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, wsHandler *handler.WebSocketHandler) {
	e.GET("/ws", wsHandler.HandleWebSocket, authMiddleware.Authenticate)
}
