package router

import (
	"github.com/labstack/echo/v4"

	"roostermarket/internal/adapter/api/handler"
	"roostermarket/internal/adapter/api/middleware"
	"roostermarket/internal/domain/entity"
)

func SetupListingRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	listingHandler := handler.GetListingHandler()
	feedbackHandler := handler.GetFeedbackHandler()

	listings := e.Group("/v1/listings")

	listings.GET("", listingHandler.ListListings)
	listings.GET("/:id", listingHandler.GetListing, authMiddleware.Optional)
	listings.GET("/:id/media", listingHandler.ListMedia, authMiddleware.Optional)
	listings.GET("/:id/rating", feedbackHandler.ListingRating)
	listings.GET("/:id/feedback", feedbackHandler.ListProductFeedback, authMiddleware.Optional)

	listings.POST("", listingHandler.CreateListing, authMiddleware.Authenticate, middleware.RequireRole(entity.RoleFarmer))
	listings.PATCH("/:id", listingHandler.UpdateListing, authMiddleware.Authenticate)
	listings.DELETE("/:id", listingHandler.DeleteListing, authMiddleware.Authenticate)
	listings.POST("/:id/images", listingHandler.AddImage, authMiddleware.Authenticate)
	listings.POST("/:id/feedback", feedbackHandler.SubmitProductFeedback, authMiddleware.Authenticate)
}
