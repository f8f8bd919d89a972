package repository

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatmarket/internal/domain/repository"
	"chatmarket/pkg/errors"
)

// testStoreContract checks the behaviour every KeyValueStore backend shares.
func testStoreContract(t *testing.T, store repository.KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, repository.KeyOrders)
	assert.True(t, stderrors.Is(err, repository.ErrKeyNotFound), "got %v", err)

	require.NoError(t, store.Set(ctx, repository.KeyOrders, []byte(`[1,2]`)))
	raw, err := store.Get(ctx, repository.KeyOrders)
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2]`, string(raw))

	require.NoError(t, store.Set(ctx, repository.KeyOrders, []byte(`[]`)))
	raw, err = store.Get(ctx, repository.KeyOrders)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))

	require.NoError(t, store.Delete(ctx, repository.KeyOrders))
	_, err = store.Get(ctx, repository.KeyOrders)
	assert.True(t, stderrors.Is(err, repository.ErrKeyNotFound), "got %v", err)

	require.NoError(t, store.Delete(ctx, repository.KeyOrders))
}

func TestMemoryStore(t *testing.T) {
	testStoreContract(t, NewMemoryStore())
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	value := []byte(`"a"`)
	require.NoError(t, store.Set(ctx, repository.KeySession, value))
	value[1] = 'b'

	raw, err := store.Get(ctx, repository.KeySession)
	require.NoError(t, err)
	assert.Equal(t, `"a"`, string(raw))
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	testStoreContract(t, store)
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "nested"))
	require.NoError(t, err)

	require.NoError(t, store.Set(context.Background(), repository.KeyCart, []byte(`[]`)))

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, repository.KeyCart+".json", entries[0].Name())
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Set(context.Background(), "../escape", []byte(`1`)))
	_, err = store.Get(context.Background(), "a/b")
	assert.Error(t, err)
}

func TestRedisSnapshotStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	testStoreContract(t, NewRedisSnapshotStore(client, "test:"+uuid.NewString()+":"))
}

func TestFirestoreSnapshotStore(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	client, err := firestore.NewClient(context.Background(), "chatmarket-test")
	require.NoError(t, err)
	defer client.Close()

	testStoreContract(t, NewFirestoreSnapshotStore(client))
}

type sample struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags"`
}

func TestSnapshot_RoundTrip(t *testing.T) {
	ctx := context.Background()
	snap := NewSnapshot[[]sample](NewMemoryStore(), repository.KeyListings)

	_, found, err := snap.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	want := []sample{{Name: "a", Count: 1, Tags: []string{"x"}}, {Name: "b", Tags: []string{}}}
	require.NoError(t, snap.Save(ctx, want))

	got, found, err := snap.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	require.NoError(t, snap.Clear(ctx))
	_, found, err = snap.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSnapshot_CorruptPayload(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, repository.KeyListings, []byte(`{not json`)))

	_, _, err := NewSnapshot[[]sample](store, repository.KeyListings).Load(ctx)
	assert.True(t, errors.Is(err, errors.CodeInternal))
}

func TestEnsureSchemaVersion(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	version := NewSnapshot[int](store, repository.KeySchemaVersion)

	require.NoError(t, EnsureSchemaVersion(ctx, store))
	got, found, err := version.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, SchemaVersion, got)

	require.NoError(t, version.Save(ctx, 0))
	require.NoError(t, EnsureSchemaVersion(ctx, store))
	got, _, _ = version.Load(ctx)
	assert.Equal(t, SchemaVersion, got)

	require.NoError(t, version.Save(ctx, SchemaVersion+1))
	assert.Error(t, EnsureSchemaVersion(ctx, store))
	got, _, _ = version.Load(ctx)
	assert.Equal(t, SchemaVersion+1, got)
}
