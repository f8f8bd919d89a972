package usecase

import (
	"context"
	"slices"

	"chatmarket/internal/domain/entity"
	"chatmarket/internal/domain/repository"
	"chatmarket/pkg/errors"
)

type CreateListingInput struct {
	StorefrontID string           `json:"storeId" validate:"required"`
	Name         string           `json:"name" validate:"required"`
	Price        float64          `json:"price" validate:"gte=0"`
	Currency     string           `json:"currency"`
	Description  string           `json:"description"`
	Category     string           `json:"category"`
	Image        string           `json:"image"`
	Stock        int              `json:"stock" validate:"gte=0"`
	Variants     []entity.Variant `json:"variants"`
	// Active defaults to true when omitted.
	Active *bool `json:"isActive"`
}

func (uc *CommerceUseCase) AddListing(ctx context.Context, input CreateListingInput) (entity.Listing, error) {
	if err := validateInput(input); err != nil {
		return entity.Listing{}, err
	}
	if err := validateImages(input.Image); err != nil {
		return entity.Listing{}, err
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	variants := slices.Clone(input.Variants)
	if variants == nil {
		variants = []entity.Variant{}
	}

	listing := entity.Listing{
		ID:           newID("prod-"),
		StorefrontID: input.StorefrontID,
		Name:         input.Name,
		Price:        input.Price,
		Currency:     input.Currency,
		Description:  input.Description,
		Category:     input.Category,
		Image:        input.Image,
		Stock:        input.Stock,
		Variants:     variants,
		Active:       active,
		CreatedAt:    uc.now(),
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	next := append(slices.Clone(uc.listings), listing)
	if err := commit(ctx, uc.listingStore, repository.KeyListings, next, &uc.listings); err != nil {
		return entity.Listing{}, err
	}
	return listing.Clone(), nil
}

// UpdateListing replaces the whole listing with the same ID.
func (uc *CommerceUseCase) UpdateListing(ctx context.Context, listing entity.Listing) (bool, error) {
	switch {
	case listing.Name == "":
		return false, errors.Validation("name is required")
	case listing.Price < 0:
		return false, errors.Validation("price must be greater than or equal to 0")
	case listing.Stock < 0:
		return false, errors.Validation("stock must be greater than or equal to 0")
	}
	if err := validateImages(listing.Image); err != nil {
		return false, err
	}

	listing = listing.Clone()

	uc.mu.Lock()
	defer uc.mu.Unlock()

	i := indexOf(uc.listings, byListingID(listing.ID))
	if i < 0 {
		return false, nil
	}

	next := slices.Clone(uc.listings)
	next[i] = listing
	if err := commit(ctx, uc.listingStore, repository.KeyListings, next, &uc.listings); err != nil {
		return false, err
	}
	return true, nil
}

func (uc *CommerceUseCase) RemoveListing(ctx context.Context, id string) (bool, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if indexOf(uc.listings, byListingID(id)) < 0 {
		return false, nil
	}

	next := slices.DeleteFunc(slices.Clone(uc.listings), byListingID(id))
	if err := commit(ctx, uc.listingStore, repository.KeyListings, next, &uc.listings); err != nil {
		return false, err
	}
	return true, nil
}

func (uc *CommerceUseCase) GetListing(id string) (entity.Listing, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	i := indexOf(uc.listings, byListingID(id))
	if i < 0 {
		return entity.Listing{}, false
	}
	return uc.listings[i].Clone(), true
}

// ListingsForStorefront returns the active listings buyers may see, in
// storage order.
func (uc *CommerceUseCase) ListingsForStorefront(storefrontID string) []entity.Listing {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	return filter(uc.listings, func(l entity.Listing) bool {
		return l.StorefrontID == storefrontID && l.Active
	})
}

// AllListingsForStorefront includes inactive listings, for the owner.
func (uc *CommerceUseCase) AllListingsForStorefront(storefrontID string) []entity.Listing {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	return filter(uc.listings, func(l entity.Listing) bool {
		return l.StorefrontID == storefrontID
	})
}

func byListingID(id string) func(entity.Listing) bool {
	return func(l entity.Listing) bool { return l.ID == id }
}
