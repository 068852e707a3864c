package router

import (
	"github.com/labstack/echo/v4"

	"roostermarket/internal/adapter/api/handler"
	"roostermarket/internal/adapter/api/middleware"
)

func SetupCommunityRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	communityHandler := handler.GetCommunityHandler()

	posts := e.Group("/v1/posts")

	posts.GET("", communityHandler.Feed)
	posts.GET("/featured", communityHandler.Featured)
	posts.GET("/:id", communityHandler.GetPost, authMiddleware.Optional)
	posts.GET("/:id/comments", communityHandler.ListComments)

	posts.POST("", communityHandler.CreatePost, authMiddleware.Authenticate)
	posts.POST("/:id/like", communityHandler.ToggleLike, authMiddleware.Authenticate)
	posts.POST("/:id/comments", communityHandler.AddComment, authMiddleware.Authenticate)
}
