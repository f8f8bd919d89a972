package handler

import (
	"github.com/labstack/echo/v4"

	"chatmarket/internal/adapter/api/middleware"
	"chatmarket/internal/usecase"
	"chatmarket/pkg/errors"
	"chatmarket/pkg/logger"
	"chatmarket/pkg/response"
)

// PayOrder settles an order for its buyer. Card details are checked by the
// payment processor and never stored.
func (h *OrderHandler) PayOrder(c echo.Context) error {
	order, ok := h.commerceUseCase.GetOrder(c.Param("id"))
	if !ok {
		return response.Error(c, errors.NotFound("Order", nil))
	}
	if order.BuyerID != middleware.UserID(c) {
		return response.Error(c, errors.Forbidden("Only the buyer can pay for this order", nil))
	}

	var req usecase.PaymentInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	paid, found, err := h.checkoutUseCase.PayOrder(c.Request().Context(), order.ID, req)
	if err != nil {
		logger.LogOrderError(order.ID, "pay", err)
		return response.Error(c, err)
	}
	if !found {
		return response.Error(c, errors.NotFound("Order", nil))
	}

	return response.Success(c, paid)
}

// RequestPayment posts a payment request card into the order's chat.
func (h *OrderHandler) RequestPayment(c echo.Context) error {
	order, err := h.sellerOrder(c)
	if err != nil {
		return response.Error(c, err)
	}

	seller, ok := h.authUseCase.GetAccount(order.SellerID)
	if !ok {
		return response.Error(c, errors.Unauthorized("Account no longer exists", nil))
	}

	msg, posted, err := h.checkoutUseCase.RequestPayment(c.Request().Context(), seller, order.ID)
	if err != nil {
		return response.Error(c, err)
	}
	if !posted {
		return response.Error(c, errors.NotFound("Conversation", nil))
	}

	return response.Created(c, msg)
}
