package handler

import (
	"github.com/labstack/echo/v4"

	"roostermarket/internal/adapter/api/middleware"
	"roostermarket/internal/infrastructure/metrics"
	"roostermarket/internal/usecase"
	"roostermarket/pkg/response"
	"roostermarket/pkg/utils"
)

type FeedbackHandler struct {
	feedbackUseCase *usecase.FeedbackUseCase
}

func NewFeedbackHandler(feedbackUseCase *usecase.FeedbackUseCase) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackUseCase: feedbackUseCase,
	}
}

type feedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
	OrderID string `json:"order_id"`
}

func (r feedbackRequest) input() usecase.FeedbackInput {
	return usecase.FeedbackInput{
		Rating:  r.Rating,
		Comment: r.Comment,
		OrderID: r.OrderID,
	}
}

func (h *FeedbackHandler) SubmitUserFeedback(c echo.Context) error {
	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	feedback, err := h.feedbackUseCase.SubmitUserFeedback(c.Request().Context(), middleware.GetSession(c), c.Param("id"), req.input())
	metrics.RecordFeedback("user", err)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, feedback)
}

func (h *FeedbackHandler) SubmitProductFeedback(c echo.Context) error {
	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	feedback, err := h.feedbackUseCase.SubmitProductFeedback(c.Request().Context(), middleware.GetSession(c), c.Param("id"), req.input())
	metrics.RecordFeedback("product", err)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, feedback)
}

func (h *FeedbackHandler) ListUserFeedback(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	items, total, err := h.feedbackUseCase.ListUserFeedback(c.Request().Context(), middleware.GetSession(c), c.Param("id"), pagination)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, items, total, pagination.Page, pagination.PageSize)
}

func (h *FeedbackHandler) ListProductFeedback(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	items, total, err := h.feedbackUseCase.ListProductFeedback(c.Request().Context(), middleware.GetSession(c), c.Param("id"), pagination)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, items, total, pagination.Page, pagination.PageSize)
}

func (h *FeedbackHandler) UserRating(c echo.Context) error {
	summary, err := h.feedbackUseCase.UserRating(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, summary)
}

func (h *FeedbackHandler) ListingRating(c echo.Context) error {
	summary, err := h.feedbackUseCase.ListingRating(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, summary)
}
