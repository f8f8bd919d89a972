package usecase

import (
	"context"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "chatmarket/internal/adapter/repository"
	"chatmarket/internal/domain/entity"
	"chatmarket/internal/domain/service"
)

type worldState struct {
	Accounts      []entity.Account
	Session       string
	Storefronts   []entity.Storefront
	Listings      map[string][]entity.Listing
	Orders        map[string][]entity.Order
	Cart          []entity.CartLine
	Conversations map[string][]entity.Conversation
	Messages      map[string][]entity.Message
}

func captureState(h *harness) worldState {
	state := worldState{
		Accounts:      h.auth.ListAccounts(),
		Storefronts:   h.commerce.ListStorefronts(),
		Listings:      map[string][]entity.Listing{},
		Orders:        map[string][]entity.Order{},
		Cart:          h.commerce.Cart(),
		Conversations: map[string][]entity.Conversation{},
		Messages:      map[string][]entity.Message{},
	}
	if current, ok := h.auth.CurrentAccount(); ok {
		state.Session = current.ID
	}
	for _, sf := range state.Storefronts {
		state.Listings[sf.ID] = h.commerce.AllListingsForStorefront(sf.ID)
		state.Orders[sf.ID] = h.commerce.OrdersForStorefront(sf.ID)
	}
	for _, a := range state.Accounts {
		convs := h.chat.ConversationsFor(a.ID, a.Role)
		state.Conversations[a.ID] = convs
		for _, c := range convs {
			state.Messages[c.ID] = h.chat.MessagesFor(c.ID)
		}
	}
	return state
}

func TestRoundTrip_FreshProcessSeesSameState(t *testing.T) {
	store, err := adapter.NewFileStore(t.TempDir())
	require.NoError(t, err)

	h := newHarnessOn(t, store, true)
	ctx := context.Background()

	seller, err := h.auth.Register(ctx, RegisterInput{Name: "Noor", Email: "noor@example.com", Password: "pass1234", Role: entity.RoleSeller})
	require.NoError(t, err)

	sf, err := h.commerce.CreateStorefront(ctx, CreateStorefrontInput{
		SellerID:       seller.Account.ID,
		Name:           "Noor Ceramics",
		Currency:       "€",
		Categories:     []string{"Mugs"},
		WhatsAppNumber: "+31612345678",
		SetupComplete:  true,
		SetupAnswers: entity.SetupAnswers{
			BusinessType:      entity.BusinessPhysical,
			EstimatedProducts: entity.CatalogSmall,
		},
	})
	require.NoError(t, err)

	mug, err := h.commerce.AddListing(ctx, CreateListingInput{
		StorefrontID: sf.ID,
		Name:         "Speckled Mug",
		Price:        28.5,
		Currency:     "€",
		Stock:        12,
		Variants:     []entity.Variant{{ID: "v1", Label: "Large", PriceModifier: 4}},
	})
	require.NoError(t, err)

	buyer, err := h.auth.Authenticate(ctx, "buyer@demo.com", DemoPassword)
	require.NoError(t, err)

	h.addToCart(t, mug.ID, 2)
	res, err := h.checkout.Checkout(ctx, buyer.Account, sf.ID)
	require.NoError(t, err)
	_, _, err = h.checkout.PayOrder(ctx, res.Order.ID, PaymentInput{Method: service.PaymentUPI})
	require.NoError(t, err)

	_, _, err = h.checkout.OpenChat(ctx, buyer.Account, "store-003")
	require.NoError(t, err)
	_, err = h.chat.MarkRead(ctx, res.Conversation.ID, entity.SenderBuyer)
	require.NoError(t, err)

	h.addToCart(t, "prod-001", 1)
	h.addToCart(t, "prod-102", 3)

	before := captureState(h)
	require.NotEmpty(t, before.Messages)

	after := captureState(newHarnessOn(t, store, true))

	if !assert.Equal(t, before, after) {
		t.Logf("before:\n%s\nafter:\n%s", spew.Sdump(before), spew.Sdump(after))
	}
}
