package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dollers-electro/models"
	"dollers-electro/store"
)

func newFileStore(t *testing.T, strict bool) *store.FileStore {
	t.Helper()
	return store.NewFileStore(t.TempDir(), strict, zerolog.Nop())
}

func TestFileStore_RoundTrip(t *testing.T) {
	s := newFileStore(t, false)
	ctx := context.Background()

	products := []models.Product{
		{ID: "p-1", Name: "USB-C Charger 65W", Price: 39.99, Stock: 12},
		{ID: "p-2", Name: "Mechanical Keyboard", Price: 129.50, Stock: 3},
	}
	require.NoError(t, s.Save(ctx, store.CollectionProducts, products))

	var loaded []models.Product
	require.NoError(t, s.Load(ctx, store.CollectionProducts, &loaded))
	assert.Equal(t, products, loaded)

	// save(load(name)) must be lossless
	require.NoError(t, s.Save(ctx, store.CollectionProducts, loaded))
	var again []models.Product
	require.NoError(t, s.Load(ctx, store.CollectionProducts, &again))
	assert.Equal(t, products, again)
}

func TestFileStore_MissingCollectionIsEmpty(t *testing.T) {
	s := newFileStore(t, false)

	var users []models.User
	require.NoError(t, s.Load(context.Background(), store.CollectionUsers, &users))
	assert.Empty(t, users)
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.json"), []byte("{not json"), 0o644))

	// Non-strict: downgraded to an empty collection.
	lenient := store.NewFileStore(dir, false, zerolog.Nop())
	var orders []models.Order
	require.NoError(t, lenient.Load(context.Background(), store.CollectionOrders, &orders))
	assert.Empty(t, orders)

	// Strict: the parse failure propagates.
	strict := store.NewFileStore(dir, true, zerolog.Nop())
	err := strict.Load(context.Background(), store.CollectionOrders, &orders)
	require.Error(t, err)
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	s := newFileStore(t, false)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, store.CollectionUsers, []models.User{
		{ID: "u-1", Email: "one@example.com"},
		{ID: "u-2", Email: "two@example.com"},
	}))
	require.NoError(t, s.Save(ctx, store.CollectionUsers, []models.User{
		{ID: "u-3", Email: "three@example.com"},
	}))

	var users []models.User
	require.NoError(t, s.Load(ctx, store.CollectionUsers, &users))
	require.Len(t, users, 1)
	assert.Equal(t, "three@example.com", users[0].Email)
}

func TestFileStore_EmptySlice(t *testing.T) {
	s := newFileStore(t, false)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, store.CollectionOrders, []models.Order{}))
	var orders []models.Order
	require.NoError(t, s.Load(ctx, store.CollectionOrders, &orders))
	assert.Empty(t, orders)
}

func TestFileStore_CancelledContext(t *testing.T) {
	s := newFileStore(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var users []models.User
	assert.Error(t, s.Load(ctx, store.CollectionUsers, &users))
	assert.Error(t, s.Save(ctx, store.CollectionUsers, users))
}
