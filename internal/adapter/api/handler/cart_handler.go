package handler

import (
	"github.com/labstack/echo/v4"

	"chatmarket/internal/domain/entity"
	"chatmarket/internal/usecase"
	"chatmarket/pkg/errors"
	"chatmarket/pkg/response"
)

type CartHandler struct {
	commerceUseCase *usecase.CommerceUseCase
}

func NewCartHandler(commerceUseCase *usecase.CommerceUseCase) *CartHandler {
	return &CartHandler{
		commerceUseCase: commerceUseCase,
	}
}

type addToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Variant   string `json:"variant"`
}

type updateCartRequest struct {
	Quantity int `json:"quantity"`
}

type cartResponse struct {
	Items []entity.CartLine `json:"items"`
	Total float64           `json:"total"`
	Count int               `json:"count"`
}

func (h *CartHandler) render(c echo.Context) error {
	items := h.commerceUseCase.Cart()

	count := 0
	for _, line := range items {
		count += line.Quantity
	}

	return response.Success(c, cartResponse{
		Items: items,
		Total: h.commerceUseCase.CartTotal(),
		Count: count,
	})
}

func (h *CartHandler) GetCart(c echo.Context) error {
	return h.render(c)
}

// AddToCart snapshots the listing's current name, price and image. Adding
// a listing already in the cart bumps its quantity by one.
func (h *CartHandler) AddToCart(c echo.Context) error {
	var req addToCartRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	listing, ok := h.commerceUseCase.GetListing(req.ProductID)
	if !ok || !listing.Active {
		return response.Error(c, errors.NotFound("Product", nil))
	}

	line := entity.NewCartLine(listing)
	line.Variant = req.Variant
	if err := h.commerceUseCase.AddToCart(c.Request().Context(), line); err != nil {
		return response.Error(c, err)
	}

	return h.render(c)
}

// UpdateQuantity sets a line's quantity; zero or less removes it.
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	var req updateCartRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.commerceUseCase.SetCartQuantity(c.Request().Context(), c.Param("listingId"), req.Quantity); err != nil {
		return response.Error(c, err)
	}

	return h.render(c)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	if err := h.commerceUseCase.RemoveFromCart(c.Request().Context(), c.Param("listingId")); err != nil {
		return response.Error(c, err)
	}

	return h.render(c)
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	if err := h.commerceUseCase.ClearCart(c.Request().Context()); err != nil {
		return response.Error(c, err)
	}

	return h.render(c)
}
