package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"roostermarket/internal/adapter/api/middleware"
	"roostermarket/internal/usecase"
	"roostermarket/pkg/response"
	"roostermarket/pkg/utils"
)

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
	mediaUseCase   *usecase.MediaUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase, mediaUseCase *usecase.MediaUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
		mediaUseCase:   mediaUseCase,
	}
}

type createListingRequest struct {
	Title       string  `json:"title" validate:"required,max=120"`
	Description string  `json:"description" validate:"max=5000"`
	Price       float64 `json:"price" validate:"gt=0"`
	IsTraceable bool    `json:"is_traceable"`
	TraceID     string  `json:"trace_id" validate:"required_if=IsTraceable true"`
}

type updateListingRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=120"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	IsTraceable *bool    `json:"is_traceable"`
	TraceID     *string  `json:"trace_id"`
}

type addImageRequest struct {
	MediaID string `json:"media_id" validate:"required"`
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.CreateListing(c.Request().Context(), middleware.GetSession(c), usecase.CreateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		IsTraceable: req.IsTraceable,
		TraceID:     req.TraceID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, listing)
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	view, err := h.listingUseCase.GetListing(c.Request().Context(), middleware.GetSession(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, view)
}

// ListListings supports ?seller= to narrow to one farmer.
func (h *ListingHandler) ListListings(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	listings, total, err := h.listingUseCase.ListListings(c.Request().Context(), c.QueryParam("seller"), pagination)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, listings, total, pagination.Page, pagination.PageSize)
}

func (h *ListingHandler) UpdateListing(c echo.Context) error {
	var req updateListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.UpdateListing(c.Request().Context(), middleware.GetSession(c), c.Param("id"), usecase.UpdateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		IsTraceable: req.IsTraceable,
		TraceID:     req.TraceID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) DeleteListing(c echo.Context) error {
	if err := h.listingUseCase.DeleteListing(c.Request().Context(), middleware.GetSession(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *ListingHandler) AddImage(c echo.Context) error {
	var req addImageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.AddImage(c.Request().Context(), middleware.GetSession(c), c.Param("id"), req.MediaID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) ListMedia(c echo.Context) error {
	media, err := h.mediaUseCase.ListForListing(c.Request().Context(), middleware.GetSession(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, media)
}
