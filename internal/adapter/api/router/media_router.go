package router

import (
	"github.com/labstack/echo/v4"

	"roostermarket/internal/adapter/api/handler"
	"roostermarket/internal/adapter/api/middleware"
)

func SetupMediaRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	mediaHandler := handler.GetMediaHandler()

	media := e.Group("/v1/media")
	media.Use(authMiddleware.Authenticate)

	media.POST("", mediaHandler.Upload)
	media.GET("/mine", mediaHandler.ListMine)
	media.GET("/:id", mediaHandler.GetMedia)
	media.DELETE("/:id", mediaHandler.DeleteMedia)
}
