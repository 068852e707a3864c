package router

import (
	"github.com/labstack/echo/v4"

	"roostermarket/internal/adapter/api/handler"
	"roostermarket/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chats := e.Group("/v1/chats")
	chats.Use(authMiddleware.Authenticate)

	chats.GET("", chatHandler.ListConversations)
	chats.GET("/:userId/messages", chatHandler.GetMessages)
	chats.POST("/:userId/messages", chatHandler.SendMessage)
	chats.DELETE("/conversations/:conversationId/messages/:messageId", chatHandler.DeleteMessage)
}
