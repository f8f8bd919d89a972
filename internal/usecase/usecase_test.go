package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	adapter "chatmarket/internal/adapter/repository"
	"chatmarket/internal/domain/entity"
	"chatmarket/internal/domain/repository"
	"chatmarket/internal/domain/service"
	"chatmarket/internal/infrastructure/auth"
)

var testStart = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

// steppingClock advances one millisecond per call so every timestamp is
// distinct and strictly increasing.
func steppingClock(start time.Time) Clock {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Millisecond)
		return current
	}
}

type notification struct {
	UserID string
	Type   string
	Data   interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification
}

func (n *recordingNotifier) Notify(userID, eventType string, data interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notification{UserID: userID, Type: eventType, Data: data})
}

func (n *recordingNotifier) count(userID, eventType string) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	total := 0
	for _, e := range n.events {
		if e.UserID == userID && e.Type == eventType {
			total++
		}
	}
	return total
}

type harness struct {
	store    repository.KeyValueStore
	notifier *recordingNotifier
	tokens   *auth.TokenManager
	auth     *AuthUseCase
	commerce *CommerceUseCase
	chat     *ChatUseCase
	checkout *CheckoutUseCase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessOn(t, adapter.NewMemoryStore(), true)
}

// newHarnessOn builds and initialises every use case against store, the way
// a process start does.
func newHarnessOn(t *testing.T, store repository.KeyValueStore, seed bool) *harness {
	t.Helper()

	clock := steppingClock(testStart)
	notifier := &recordingNotifier{}
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	h := &harness{
		store:    store,
		notifier: notifier,
		tokens:   tokens,
		auth: NewAuthUseCase(
			adapter.NewSnapshot[[]entity.Account](store, repository.KeyAccounts),
			adapter.NewSnapshot[string](store, repository.KeySession),
			auth.NewPasswordHasher(4),
			tokens,
		).WithClock(clock).WithDemoData(seed),
		commerce: NewCommerceUseCase(
			adapter.NewSnapshot[[]entity.Storefront](store, repository.KeyStorefronts),
			adapter.NewSnapshot[[]entity.Listing](store, repository.KeyListings),
			adapter.NewSnapshot[[]entity.Order](store, repository.KeyOrders),
			adapter.NewSnapshot[[]entity.CartLine](store, repository.KeyCart),
		).WithClock(clock).WithDemoData(seed),
		chat: NewChatUseCase(
			adapter.NewSnapshot[[]entity.Conversation](store, repository.KeyConversations),
			adapter.NewSnapshot[[]entity.Message](store, repository.KeyMessages),
			notifier,
		).WithClock(clock),
	}
	h.checkout = NewCheckoutUseCase(h.commerce, h.chat, h.auth, service.NewSimulatedPaymentService(0), notifier)

	ctx := context.Background()
	require.NoError(t, h.auth.Init(ctx))
	require.NoError(t, h.commerce.Init(ctx))
	require.NoError(t, h.chat.Init(ctx))
	return h
}

func (h *harness) account(t *testing.T, id string) entity.Account {
	t.Helper()
	account, ok := h.auth.GetAccount(id)
	require.True(t, ok, "account %s", id)
	return account
}

func (h *harness) addToCart(t *testing.T, listingID string, times int) {
	t.Helper()
	listing, ok := h.commerce.GetListing(listingID)
	require.True(t, ok, "listing %s", listingID)
	for i := 0; i < times; i++ {
		require.NoError(t, h.commerce.AddToCart(context.Background(), entity.NewCartLine(listing)))
	}
}

// failingStore refuses every write; reads behave like an empty store.
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, repository.ErrKeyNotFound
}

func (failingStore) Set(context.Context, string, []byte) error {
	return context.DeadlineExceeded
}

func (failingStore) Delete(context.Context, string) error {
	return context.DeadlineExceeded
}

// flakyStore wraps a working store and refuses writes to one key while
// failKey is set.
type flakyStore struct {
	repository.KeyValueStore
	mu      sync.Mutex
	failKey string
}

func (s *flakyStore) failOn(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failKey = key
}

func (s *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	fail := key == s.failKey
	s.mu.Unlock()
	if fail {
		return context.DeadlineExceeded
	}
	return s.KeyValueStore.Set(ctx, key, value)
}
