package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/relief-anchor/internal/storage"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	_, found, err := store.Get(ctx, "relief_anchor_user:a@x.com")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Put(ctx, "relief_anchor_user:a@x.com", "value"))

	got, found, err := store.Get(ctx, "relief_anchor_user:a@x.com")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "value", got)

	require.NoError(t, store.Delete(ctx, "relief_anchor_user:a@x.com"))

	_, found, err = store.Get(ctx, "relief_anchor_user:a@x.com")
	require.NoError(t, err)
	assert.False(t, found)
}
