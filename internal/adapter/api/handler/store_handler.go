package handler

import (
	"github.com/labstack/echo/v4"

	"chatmarket/internal/adapter/api/middleware"
	"chatmarket/internal/domain/entity"
	"chatmarket/internal/usecase"
	"chatmarket/pkg/errors"
	"chatmarket/pkg/response"
	"chatmarket/pkg/utils"
)

type StoreHandler struct {
	commerceUseCase *usecase.CommerceUseCase
}

func NewStoreHandler(commerceUseCase *usecase.CommerceUseCase) *StoreHandler {
	return &StoreHandler{
		commerceUseCase: commerceUseCase,
	}
}

// ListStores is store discovery. Optional ?q= searches name and description,
// ?category= filters on the primary category.
func (h *StoreHandler) ListStores(c echo.Context) error {
	return response.Success(c, h.commerceUseCase.SearchStorefronts(c.QueryParam("q"), c.QueryParam("category")))
}

func (h *StoreHandler) GetStore(c echo.Context) error {
	storefront, ok := h.commerceUseCase.GetStorefront(c.Param("id"))
	if !ok {
		return response.Error(c, errors.NotFound("Store", nil))
	}

	return response.Success(c, storefront)
}

// GetStoreProducts lists a store's active listings in the order they were added.
func (h *StoreHandler) GetStoreProducts(c echo.Context) error {
	storefrontID := c.Param("id")
	if _, ok := h.commerceUseCase.GetStorefront(storefrontID); !ok {
		return response.Error(c, errors.NotFound("Store", nil))
	}

	listings := h.commerceUseCase.ListingsForStorefront(storefrontID)
	if category := c.QueryParam("category"); category != "" && category != entity.CategoryAll {
		filtered := []entity.Listing{}
		for _, l := range listings {
			if l.Category == category {
				filtered = append(filtered, l)
			}
		}
		listings = filtered
	}

	pagination := utils.GetPaginationParams(c, 50)
	return response.Paginated(c, utils.Page(listings, pagination), int64(len(listings)), pagination.Page, pagination.PageSize)
}

// CreateStore opens the caller's storefront. A seller runs one store.
func (h *StoreHandler) CreateStore(c echo.Context) error {
	var req usecase.CreateStorefrontInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	sellerID := middleware.UserID(c)
	if _, exists := h.commerceUseCase.StorefrontByOwner(sellerID); exists {
		return response.Error(c, errors.Conflict("You already have a store"))
	}
	req.SellerID = sellerID

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	storefront, err := h.commerceUseCase.CreateStorefront(c.Request().Context(), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, storefront)
}

// UpdateStore applies the body over the stored storefront. Identity,
// ownership and the rating counters cannot be changed.
func (h *StoreHandler) UpdateStore(c echo.Context) error {
	current, err := h.ownedStore(c)
	if err != nil {
		return response.Error(c, err)
	}

	next := current.Clone()
	if err := c.Bind(&next); err != nil {
		return response.Error(c, err)
	}

	next.ID = current.ID
	next.SellerID = current.SellerID
	next.Rating = current.Rating
	next.TotalSales = current.TotalSales
	next.CreatedAt = current.CreatedAt

	if _, err := h.commerceUseCase.UpdateStorefront(c.Request().Context(), next); err != nil {
		return response.Error(c, err)
	}

	updated, _ := h.commerceUseCase.GetStorefront(current.ID)
	return response.Success(c, updated)
}

func (h *StoreHandler) GetStoreStats(c echo.Context) error {
	storefront, err := h.ownedStore(c)
	if err != nil {
		return response.Error(c, err)
	}

	stats, _ := h.commerceUseCase.StorefrontStats(storefront.ID)
	return response.Success(c, stats)
}

func (h *StoreHandler) GetStoreOrders(c echo.Context) error {
	storefront, err := h.ownedStore(c)
	if err != nil {
		return response.Error(c, err)
	}

	orders := h.commerceUseCase.OrdersForStorefront(storefront.ID)
	if status := c.QueryParam("status"); status != "" {
		filtered := []entity.Order{}
		for _, o := range orders {
			if string(o.Status) == status {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	return response.Success(c, orders)
}

func (h *StoreHandler) GetMyStore(c echo.Context) error {
	storefront, ok := h.commerceUseCase.StorefrontByOwner(middleware.UserID(c))
	if !ok {
		return response.Error(c, errors.NotFound("Store", nil))
	}

	return response.Success(c, storefront)
}

// GetMyProducts lists every listing of the caller's store, inactive ones
// included.
func (h *StoreHandler) GetMyProducts(c echo.Context) error {
	storefront, ok := h.commerceUseCase.StorefrontByOwner(middleware.UserID(c))
	if !ok {
		return response.Error(c, errors.NotFound("Store", nil))
	}

	return response.Success(c, h.commerceUseCase.AllListingsForStorefront(storefront.ID))
}

func (h *StoreHandler) ownedStore(c echo.Context) (entity.Storefront, error) {
	storefront, ok := h.commerceUseCase.GetStorefront(c.Param("id"))
	if !ok {
		return entity.Storefront{}, errors.NotFound("Store", nil)
	}
	if storefront.SellerID != middleware.UserID(c) {
		return entity.Storefront{}, errors.Forbidden("You do not own this store", nil)
	}
	return storefront, nil
}
