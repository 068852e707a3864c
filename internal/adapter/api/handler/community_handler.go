package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"roostermarket/internal/adapter/api/middleware"
	"roostermarket/internal/usecase"
	"roostermarket/pkg/response"
)

type CommunityHandler struct {
	communityUseCase *usecase.CommunityUseCase
}

func NewCommunityHandler(communityUseCase *usecase.CommunityUseCase) *CommunityHandler {
	return &CommunityHandler{
		communityUseCase: communityUseCase,
	}
}

type createPostRequest struct {
	Title    string   `json:"title" validate:"required,max=200"`
	Content  string   `json:"content" validate:"required,max=10000"`
	Tags     []string `json:"tags" validate:"max=10,dive,max=30"`
	MediaIDs []string `json:"media_ids" validate:"max=10"`
}

type commentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type likeResponse struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

func (h *CommunityHandler) CreatePost(c echo.Context) error {
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	post, err := h.communityUseCase.CreatePost(c.Request().Context(), middleware.GetSession(c), usecase.CreatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		MediaIDs: req.MediaIDs,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, post)
}

func (h *CommunityHandler) GetPost(c echo.Context) error {
	post, err := h.communityUseCase.GetPost(c.Request().Context(), middleware.GetSession(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, post)
}

func (h *CommunityHandler) Feed(c echo.Context) error {
	posts, err := h.communityUseCase.Feed(c.Request().Context(), pageParam(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, posts)
}

func (h *CommunityHandler) Featured(c echo.Context) error {
	posts, err := h.communityUseCase.Featured(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, posts)
}

func (h *CommunityHandler) AddComment(c echo.Context) error {
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	comment, err := h.communityUseCase.AddComment(c.Request().Context(), middleware.GetSession(c), c.Param("id"), req.Content)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, comment)
}

func (h *CommunityHandler) ListComments(c echo.Context) error {
	comments, err := h.communityUseCase.ListComments(c.Request().Context(), c.Param("id"), pageParam(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, comments)
}

func (h *CommunityHandler) ToggleLike(c echo.Context) error {
	post, liked, err := h.communityUseCase.ToggleLike(c.Request().Context(), middleware.GetSession(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, likeResponse{
		Liked:      liked,
		LikesCount: post.LikesCount,
	})
}

func pageParam(c echo.Context) int {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	return page
}
