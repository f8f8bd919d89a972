package usecase

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"chatmarket/internal/domain/entity"
	"chatmarket/internal/domain/repository"
	"chatmarket/internal/infrastructure/media"
	"chatmarket/pkg/errors"
	"chatmarket/pkg/logger"
)

// CommerceUseCase owns storefronts, listings, the shared cart and orders.
type CommerceUseCase struct {
	mu          sync.RWMutex
	storefronts []entity.Storefront
	listings    []entity.Listing
	orders      []entity.Order
	cart        []entity.CartLine

	storefrontStore repository.Snapshot[[]entity.Storefront]
	listingStore    repository.Snapshot[[]entity.Listing]
	orderStore      repository.Snapshot[[]entity.Order]
	cartStore       repository.Snapshot[[]entity.CartLine]
	now             Clock
	seedDemo        bool
}

func NewCommerceUseCase(
	storefrontStore repository.Snapshot[[]entity.Storefront],
	listingStore repository.Snapshot[[]entity.Listing],
	orderStore repository.Snapshot[[]entity.Order],
	cartStore repository.Snapshot[[]entity.CartLine],
) *CommerceUseCase {
	return &CommerceUseCase{
		storefrontStore: storefrontStore,
		listingStore:    listingStore,
		orderStore:      orderStore,
		cartStore:       cartStore,
		now:             SystemClock,
		seedDemo:        true,
	}
}

func (uc *CommerceUseCase) WithClock(clock Clock) *CommerceUseCase {
	uc.now = clock
	return uc
}

func (uc *CommerceUseCase) WithDemoData(enabled bool) *CommerceUseCase {
	uc.seedDemo = enabled
	return uc
}

// Init loads every collection. Demo storefronts and listings are written
// only when nothing was stored under their key yet.
func (uc *CommerceUseCase) Init(ctx context.Context) error {
	storefronts, found, err := uc.storefrontStore.Load(ctx)
	if err != nil {
		return err
	}
	if !found && uc.seedDemo {
		storefronts = demoStorefronts(uc.now())
		if err := uc.storefrontStore.Save(ctx, storefronts); err != nil {
			return err
		}
	}

	listings, found, err := uc.listingStore.Load(ctx)
	if err != nil {
		return err
	}
	if !found && uc.seedDemo {
		listings = demoListings(uc.now())
		if err := uc.listingStore.Save(ctx, listings); err != nil {
			return err
		}
	}

	orders, _, err := uc.orderStore.Load(ctx)
	if err != nil {
		return err
	}
	cart, _, err := uc.cartStore.Load(ctx)
	if err != nil {
		return err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.storefronts = storefronts
	uc.listings = listings
	uc.orders = orders
	uc.cart = cart

	logger.Info("Loaded %d storefronts, %d listings, %d orders, %d cart lines",
		len(storefronts), len(listings), len(orders), len(cart))
	return nil
}

type CreateStorefrontInput struct {
	SellerID       string              `json:"-" validate:"required"`
	Name           string              `json:"name" validate:"required"`
	Description    string              `json:"description"`
	Logo           string              `json:"logo"`
	Banner         string              `json:"banner"`
	Currency       string              `json:"currency"`
	Categories     []string            `json:"categories"`
	WhatsAppNumber string              `json:"whatsappNumber" validate:"omitempty,whatsapp"`
	SetupComplete  bool                `json:"isSetupComplete"`
	SetupAnswers   entity.SetupAnswers `json:"setupAnswers"`
}

// StorefrontStats feeds the seller home screen.
type StorefrontStats struct {
	Revenue        float64 `json:"revenue"`
	PendingOrders  int     `json:"pendingOrders"`
	TotalOrders    int     `json:"totalOrders"`
	TodayOrders    int     `json:"todayOrders"`
	ActiveListings int     `json:"activeListings"`
}

func (uc *CommerceUseCase) CreateStorefront(ctx context.Context, input CreateStorefrontInput) (entity.Storefront, error) {
	if err := validateInput(input); err != nil {
		return entity.Storefront{}, err
	}
	if err := validateImages(input.Logo, input.Banner); err != nil {
		return entity.Storefront{}, err
	}

	currency := input.Currency
	if currency == "" {
		currency = "$"
	}

	storefront := entity.Storefront{
		ID:             newID("store-"),
		SellerID:       input.SellerID,
		Name:           input.Name,
		Description:    input.Description,
		Logo:           input.Logo,
		Banner:         input.Banner,
		Currency:       currency,
		Categories:     entity.NormalizeCategories(input.Categories),
		WhatsAppNumber: input.WhatsAppNumber,
		SetupComplete:  input.SetupComplete,
		SetupAnswers:   input.SetupAnswers,
		Rating:         0,
		TotalSales:     0,
		CreatedAt:      uc.now(),
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	next := append(slices.Clone(uc.storefronts), storefront)
	if err := commit(ctx, uc.storefrontStore, repository.KeyStorefronts, next, &uc.storefronts); err != nil {
		return entity.Storefront{}, err
	}

	logger.Info("Created storefront %s for seller %s", storefront.ID, storefront.SellerID)
	return storefront.Clone(), nil
}

// UpdateStorefront replaces the storefront with the same ID. It reports
// false when no such storefront exists.
func (uc *CommerceUseCase) UpdateStorefront(ctx context.Context, storefront entity.Storefront) (bool, error) {
	if err := validate.Var(storefront.Name, "required"); err != nil {
		return false, errors.Validation("name is required")
	}
	if err := validate.Var(storefront.WhatsAppNumber, "omitempty,whatsapp"); err != nil {
		return false, errors.Validation("Please enter a valid WhatsApp number with country code (e.g., +919876543210)")
	}
	if err := validateInput(storefront.SetupAnswers); err != nil {
		return false, err
	}
	if err := validateImages(storefront.Logo, storefront.Banner); err != nil {
		return false, err
	}

	storefront = storefront.Clone()
	storefront.Categories = entity.NormalizeCategories(storefront.Categories)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	i := indexOf(uc.storefronts, byStorefrontID(storefront.ID))
	if i < 0 {
		return false, nil
	}

	next := slices.Clone(uc.storefronts)
	next[i] = storefront
	if err := commit(ctx, uc.storefrontStore, repository.KeyStorefronts, next, &uc.storefronts); err != nil {
		return false, err
	}
	return true, nil
}

func (uc *CommerceUseCase) GetStorefront(id string) (entity.Storefront, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	i := indexOf(uc.storefronts, byStorefrontID(id))
	if i < 0 {
		return entity.Storefront{}, false
	}
	return uc.storefronts[i].Clone(), true
}

// StorefrontByOwner returns the first storefront owned by sellerID.
func (uc *CommerceUseCase) StorefrontByOwner(sellerID string) (entity.Storefront, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	i := indexOf(uc.storefronts, func(s entity.Storefront) bool { return s.SellerID == sellerID })
	if i < 0 {
		return entity.Storefront{}, false
	}
	return uc.storefronts[i].Clone(), true
}

func (uc *CommerceUseCase) ListStorefronts() []entity.Storefront {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	return cloneAll(uc.storefronts)
}

// SearchStorefronts lists the storefronts buyers can discover: setup must be
// complete, query matches name or description case-insensitively, and
// category matches the primary category from setup. An empty query or the
// "All" category matches everything.
func (uc *CommerceUseCase) SearchStorefronts(query, category string) []entity.Storefront {
	query = strings.ToLower(strings.TrimSpace(query))
	category = strings.ToLower(strings.TrimSpace(category))
	if category == strings.ToLower(entity.CategoryAll) {
		category = ""
	}

	uc.mu.RLock()
	defer uc.mu.RUnlock()

	return filter(uc.storefronts, func(s entity.Storefront) bool {
		if !s.SetupComplete {
			return false
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(s.Name), query) &&
			!strings.Contains(strings.ToLower(s.Description), query) {
			return false
		}
		return category == "" || s.SetupAnswers.PrimaryCategory == category
	})
}

func (uc *CommerceUseCase) StorefrontStats(id string) (StorefrontStats, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	if indexOf(uc.storefronts, byStorefrontID(id)) < 0 {
		return StorefrontStats{}, false
	}

	today := uc.now().Truncate(24 * time.Hour)

	var stats StorefrontStats
	for _, o := range uc.orders {
		if o.StorefrontID != id {
			continue
		}
		stats.TotalOrders++
		if o.PaymentStatus == entity.PaymentPaid {
			stats.Revenue += o.Total
		}
		if o.Status == entity.OrderPending {
			stats.PendingOrders++
		}
		if !o.CreatedAt.Before(today) {
			stats.TodayOrders++
		}
	}
	for _, l := range uc.listings {
		if l.StorefrontID == id && l.Active {
			stats.ActiveListings++
		}
	}
	return stats, true
}

func validateImages(values ...string) error {
	for _, v := range values {
		if err := media.ValidateImage("image", v); err != nil {
			return err
		}
	}
	return nil
}

func byStorefrontID(id string) func(entity.Storefront) bool {
	return func(s entity.Storefront) bool { return s.ID == id }
}
