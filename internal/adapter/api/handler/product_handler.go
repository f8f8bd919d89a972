package handler

import (
	"github.com/labstack/echo/v4"

	"chatmarket/internal/adapter/api/middleware"
	"chatmarket/internal/domain/entity"
	"chatmarket/internal/usecase"
	"chatmarket/pkg/errors"
	"chatmarket/pkg/response"
)

type ProductHandler struct {
	commerceUseCase *usecase.CommerceUseCase
}

func NewProductHandler(commerceUseCase *usecase.CommerceUseCase) *ProductHandler {
	return &ProductHandler{
		commerceUseCase: commerceUseCase,
	}
}

// CreateProduct adds a listing to the caller's store. storeId may be
// omitted and currency defaults to the store's.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req usecase.CreateListingInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	sellerID := middleware.UserID(c)
	if req.StorefrontID == "" {
		if own, ok := h.commerceUseCase.StorefrontByOwner(sellerID); ok {
			req.StorefrontID = own.ID
		}
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	storefront, ok := h.commerceUseCase.GetStorefront(req.StorefrontID)
	if !ok {
		return response.Error(c, errors.NotFound("Store", nil))
	}
	if storefront.SellerID != sellerID {
		return response.Error(c, errors.Forbidden("You do not own this store", nil))
	}
	if req.Currency == "" {
		req.Currency = storefront.Currency
	}

	listing, err := h.commerceUseCase.AddListing(c.Request().Context(), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, listing)
}

// GetProduct hides inactive listings from everyone but their seller.
func (h *ProductHandler) GetProduct(c echo.Context) error {
	listing, ok := h.commerceUseCase.GetListing(c.Param("id"))
	if !ok {
		return response.Error(c, errors.NotFound("Product", nil))
	}

	if !listing.Active && !h.ownsListing(middleware.UserID(c), listing) {
		return response.Error(c, errors.NotFound("Product", nil))
	}

	return response.Success(c, listing)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	current, err := h.ownedListing(c)
	if err != nil {
		return response.Error(c, err)
	}

	next := current.Clone()
	if err := c.Bind(&next); err != nil {
		return response.Error(c, err)
	}

	next.ID = current.ID
	next.StorefrontID = current.StorefrontID
	next.CreatedAt = current.CreatedAt
	if next.Variants == nil {
		next.Variants = []entity.Variant{}
	}

	if _, err := h.commerceUseCase.UpdateListing(c.Request().Context(), next); err != nil {
		return response.Error(c, err)
	}

	updated, _ := h.commerceUseCase.GetListing(current.ID)
	return response.Success(c, updated)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	listing, err := h.ownedListing(c)
	if err != nil {
		return response.Error(c, err)
	}

	if _, err := h.commerceUseCase.RemoveListing(c.Request().Context(), listing.ID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Product deleted successfully",
	})
}

func (h *ProductHandler) ownedListing(c echo.Context) (entity.Listing, error) {
	listing, ok := h.commerceUseCase.GetListing(c.Param("id"))
	if !ok {
		return entity.Listing{}, errors.NotFound("Product", nil)
	}
	if !h.ownsListing(middleware.UserID(c), listing) {
		return entity.Listing{}, errors.Forbidden("You do not own this product", nil)
	}
	return listing, nil
}

func (h *ProductHandler) ownsListing(userID string, listing entity.Listing) bool {
	if userID == "" {
		return false
	}
	storefront, ok := h.commerceUseCase.GetStorefront(listing.StorefrontID)
	return ok && storefront.SellerID == userID
}
