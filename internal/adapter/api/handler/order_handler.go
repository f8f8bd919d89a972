package handler

import (
	"github.com/labstack/echo/v4"

	"chatmarket/internal/adapter/api/middleware"
	"chatmarket/internal/domain/entity"
	"chatmarket/internal/usecase"
	"chatmarket/pkg/errors"
	"chatmarket/pkg/response"
)

type OrderHandler struct {
	commerceUseCase *usecase.CommerceUseCase
	checkoutUseCase *usecase.CheckoutUseCase
	authUseCase     *usecase.AuthUseCase
}

func NewOrderHandler(
	commerceUseCase *usecase.CommerceUseCase,
	checkoutUseCase *usecase.CheckoutUseCase,
	authUseCase *usecase.AuthUseCase,
) *OrderHandler {
	return &OrderHandler{
		commerceUseCase: commerceUseCase,
		checkoutUseCase: checkoutUseCase,
		authUseCase:     authUseCase,
	}
}

type updateOrderStatusRequest struct {
	Status entity.OrderStatus `json:"status" validate:"required,oneof=pending confirmed shipped delivered cancelled"`
}

type respondOrderRequest struct {
	Accept *bool `json:"accept" validate:"required"`
}

type checkoutResponse struct {
	Order        entity.Order        `json:"order"`
	Conversation entity.Conversation `json:"conversation"`
}

// Checkout places an order for the cart lines of one store.
func (h *OrderHandler) Checkout(c echo.Context) error {
	buyer, ok := h.authUseCase.GetAccount(middleware.UserID(c))
	if !ok {
		return response.Error(c, errors.Unauthorized("Account no longer exists", nil))
	}

	storefrontID := c.Param("storeId")
	if _, ok := h.commerceUseCase.GetStorefront(storefrontID); !ok {
		return response.Error(c, errors.NotFound("Store", nil))
	}

	result, err := h.checkoutUseCase.Checkout(c.Request().Context(), buyer, storefrontID)
	if err != nil {
		return response.Error(c, err)
	}
	if result == nil {
		return response.Error(c, errors.BadRequest("Your cart has no items from this store", nil))
	}

	return response.Created(c, checkoutResponse{
		Order:        result.Order,
		Conversation: result.Conversation,
	})
}

func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	return response.Success(c, h.commerceUseCase.OrdersForBuyer(middleware.UserID(c)))
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	order, ok := h.commerceUseCase.GetOrder(c.Param("id"))
	if !ok {
		return response.Error(c, errors.NotFound("Order", nil))
	}

	uid := middleware.UserID(c)
	if order.BuyerID != uid && order.SellerID != uid {
		return response.Error(c, errors.Forbidden("You are not a party to this order", nil))
	}

	return response.Success(c, order)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	order, err := h.sellerOrder(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	updated, _, err := h.checkoutUseCase.UpdateOrderStatus(c.Request().Context(), order.ID, req.Status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, updated)
}

// RespondToOrder accepts or declines a pending order.
func (h *OrderHandler) RespondToOrder(c echo.Context) error {
	order, err := h.sellerOrder(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req respondOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	updated, _, err := h.checkoutUseCase.RespondToOrder(c.Request().Context(), order.ID, *req.Accept)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, updated)
}

func (h *OrderHandler) sellerOrder(c echo.Context) (entity.Order, error) {
	order, ok := h.commerceUseCase.GetOrder(c.Param("id"))
	if !ok {
		return entity.Order{}, errors.NotFound("Order", nil)
	}
	if order.SellerID != middleware.UserID(c) {
		return entity.Order{}, errors.Forbidden("Only the seller can manage this order", nil)
	}
	return order, nil
}
