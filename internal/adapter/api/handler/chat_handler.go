package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"roostermarket/internal/adapter/api/middleware"
	"roostermarket/internal/infrastructure/metrics"
	"roostermarket/internal/usecase"
	"roostermarket/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

func (h *ChatHandler) ListConversations(c echo.Context) error {
	conversations, err := h.chatUseCase.ListConversations(c.Request().Context(), middleware.GetSession(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conversations)
}

func (h *ChatHandler) GetMessages(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	messages, err := h.chatUseCase.GetMessages(c.Request().Context(), middleware.GetSession(c), c.Param("userId"), limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), middleware.GetSession(c), c.Param("userId"), req.Text)
	if err != nil {
		return response.Error(c, err)
	}
	metrics.RecordChatMessage()

	return response.Created(c, message)
}

func (h *ChatHandler) DeleteMessage(c echo.Context) error {
	err := h.chatUseCase.DeleteMessage(c.Request().Context(), middleware.GetSession(c), c.Param("conversationId"), c.Param("messageId"))
	if err != nil {
		return response.Error(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
