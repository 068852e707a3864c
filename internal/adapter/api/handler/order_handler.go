package handler

import (
	"github.com/labstack/echo/v4"

	"roostermarket/internal/adapter/api/middleware"
	"roostermarket/internal/infrastructure/metrics"
	"roostermarket/internal/usecase"
	"roostermarket/pkg/response"
	"roostermarket/pkg/utils"
)

type OrderHandler struct {
	orderUseCase *usecase.OrderUseCase
}

func NewOrderHandler(orderUseCase *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
	}
}

type createOrderRequest struct {
	ListingID string   `json:"listing_id" validate:"required"`
	Quantity  int      `json:"quantity" validate:"min=1"`
	Price     *float64 `json:"price" validate:"omitempty,gt=0"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	order, err := h.orderUseCase.CreateOrder(c.Request().Context(), middleware.GetSession(c), usecase.CreateOrderInput{
		ListingID: req.ListingID,
		Quantity:  req.Quantity,
		Price:     req.Price,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, order)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	view, err := h.orderUseCase.GetOrder(c.Request().Context(), middleware.GetSession(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, view)
}

// ListOrders lists purchases by default, or sales with ?role=seller.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	asBuyer := c.QueryParam("role") != "seller"

	orders, total, err := h.orderUseCase.ListOrders(c.Request().Context(), middleware.GetSession(c), asBuyer, c.QueryParam("status"), pagination)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, orders, total, pagination.Page, pagination.PageSize)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sess := middleware.GetSession(c)
	order, err := h.orderUseCase.UpdateOrderStatus(c.Request().Context(), sess, c.Param("id"), req.Status)
	metrics.RecordOrderTransition(req.Status, err)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}
