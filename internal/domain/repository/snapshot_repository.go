package repository

import (
	"context"
	"errors"
)

// Fixed storage keys, one JSON snapshot per key.
const (
	KeyAccounts      = "chatmarket_users"
	KeySession       = "chatmarket_session"
	KeyStorefronts   = "chatmarket_stores"
	KeyListings      = "chatmarket_products"
	KeyOrders        = "chatmarket_orders"
	KeyCart          = "chatmarket_cart"
	KeyConversations = "chatmarket_conversations"
	KeyMessages      = "chatmarket_messages"
	KeySchemaVersion = "chatmarket_schema_version"
)

// ErrKeyNotFound is returned by KeyValueStore.Get for a key never written or
// since deleted.
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is durable storage for raw snapshot bytes.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Snapshot loads and saves one whole value, typically a full collection.
// Save always rewrites the entire value.
type Snapshot[T any] interface {
	// Load reports false with a zero value when nothing was stored yet.
	Load(ctx context.Context) (T, bool, error)
	Save(ctx context.Context, value T) error
	Clear(ctx context.Context) error
}
