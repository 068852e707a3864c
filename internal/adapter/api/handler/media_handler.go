package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"roostermarket/internal/adapter/api/middleware"
	"roostermarket/internal/usecase"
	"roostermarket/pkg/errors"
	"roostermarket/pkg/response"
	"roostermarket/pkg/utils"
)

type MediaHandler struct {
	mediaUseCase *usecase.MediaUseCase
}

func NewMediaHandler(mediaUseCase *usecase.MediaUseCase) *MediaHandler {
	return &MediaHandler{
		mediaUseCase: mediaUseCase,
	}
}

// Upload takes a multipart "file" plus optional "caption" and "listing_id" fields.
func (h *MediaHandler) Upload(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("No file uploaded", err))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Failed to open file", err))
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to read file", err))
	}

	media, err := h.mediaUseCase.Upload(c.Request().Context(), middleware.GetSession(c), usecase.UploadMediaInput{
		Data:      data,
		Caption:   c.FormValue("caption"),
		ListingID: c.FormValue("listing_id"),
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, media)
}

func (h *MediaHandler) GetMedia(c echo.Context) error {
	media, err := h.mediaUseCase.GetMedia(c.Request().Context(), middleware.GetSession(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, media)
}

func (h *MediaHandler) ListMine(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	media, total, err := h.mediaUseCase.ListMine(c.Request().Context(), middleware.GetSession(c), pagination)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, media, total, pagination.Page, pagination.PageSize)
}

func (h *MediaHandler) DeleteMedia(c echo.Context) error {
	if err := h.mediaUseCase.DeleteMedia(c.Request().Context(), middleware.GetSession(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
