package router

import (
	"github.com/labstack/echo/v4"

	"roostermarket/internal/adapter/api/handler"
	"roostermarket/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()
	feedbackHandler := handler.GetFeedbackHandler()

	users := e.Group("/v1/users")

	// /me must be registered before /:id
	users.PATCH("/me", userHandler.UpdateProfile, authMiddleware.Authenticate)
	users.PUT("/me/profile-image", userHandler.SetProfileImage, authMiddleware.Authenticate)

	users.GET("/:id", userHandler.GetProfile, authMiddleware.Optional)
	users.GET("/:id/rating", feedbackHandler.UserRating)
	users.GET("/:id/feedback", feedbackHandler.ListUserFeedback, authMiddleware.Optional)
	users.POST("/:id/feedback", feedbackHandler.SubmitUserFeedback, authMiddleware.Authenticate)
}
