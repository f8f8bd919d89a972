package usecase

import (
	"context"
	"slices"

	"chatmarket/internal/domain/entity"
	"chatmarket/internal/domain/repository"
)

// The cart is process-wide and belongs to no account.

// AddToCart bumps the quantity of an existing line for the same listing by
// one, ignoring line.Quantity. A new line is appended as given, with a
// quantity of at least 1.
func (uc *CommerceUseCase) AddToCart(ctx context.Context, line entity.CartLine) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	next := slices.Clone(uc.cart)
	if i := indexOf(next, byCartListing(line.ListingID)); i >= 0 {
		next[i].Quantity++
	} else {
		if line.Quantity < 1 {
			line.Quantity = 1
		}
		next = append(next, line)
	}

	return commit(ctx, uc.cartStore, repository.KeyCart, next, &uc.cart)
}

// SetCartQuantity removes the line when quantity <= 0 and otherwise only
// changes an existing line.
func (uc *CommerceUseCase) SetCartQuantity(ctx context.Context, listingID string, quantity int) error {
	if quantity <= 0 {
		return uc.RemoveFromCart(ctx, listingID)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	i := indexOf(uc.cart, byCartListing(listingID))
	if i < 0 {
		return nil
	}

	next := slices.Clone(uc.cart)
	next[i].Quantity = quantity
	return commit(ctx, uc.cartStore, repository.KeyCart, next, &uc.cart)
}

func (uc *CommerceUseCase) RemoveFromCart(ctx context.Context, listingID string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(uc.cart), byCartListing(listingID))
	return commit(ctx, uc.cartStore, repository.KeyCart, next, &uc.cart)
}

func (uc *CommerceUseCase) ClearCart(ctx context.Context) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	return commit(ctx, uc.cartStore, repository.KeyCart, []entity.CartLine{}, &uc.cart)
}

func (uc *CommerceUseCase) Cart() []entity.CartLine {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	out := slices.Clone(uc.cart)
	if out == nil {
		out = []entity.CartLine{}
	}
	return out
}

// CartTotal sums every line across all storefronts.
func (uc *CommerceUseCase) CartTotal() float64 {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	return sumLines(uc.cart)
}

func (uc *CommerceUseCase) CartLinesForStorefront(storefrontID string) []entity.CartLine {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	return cartLinesFor(uc.cart, storefrontID)
}

func (uc *CommerceUseCase) CartSubtotal(storefrontID string) float64 {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	return sumLines(cartLinesFor(uc.cart, storefrontID))
}

func cartLinesFor(cart []entity.CartLine, storefrontID string) []entity.CartLine {
	out := []entity.CartLine{}
	for _, l := range cart {
		if l.StorefrontID == storefrontID {
			out = append(out, l)
		}
	}
	return out
}

func sumLines(lines []entity.CartLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

func byCartListing(listingID string) func(entity.CartLine) bool {
	return func(l entity.CartLine) bool { return l.ListingID == listingID }
}
