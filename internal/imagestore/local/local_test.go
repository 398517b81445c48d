package local

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalImageStoreSaveAndGet(t *testing.T) {
	store, err := NewLocalImageStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	imageData := []byte("fake jpeg data")

	key, err := store.Save(ctx, "user_1", "image/jpeg", bytes.NewReader(imageData))
	require.NoError(t, err)
	assert.NotEmpty(t, key)

	reader, mimeType, err := store.Get(ctx, key)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, "image/jpeg", mimeType)

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, imageData, data)
}

func TestLocalImageStoreKeysAreUnique(t *testing.T) {
	store, err := NewLocalImageStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	a, err := store.Save(ctx, "user_1", "image/png", bytes.NewReader([]byte("one")))
	require.NoError(t, err)
	b, err := store.Save(ctx, "user_1", "image/png", bytes.NewReader([]byte("two")))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestLocalImageStoreDelete(t *testing.T) {
	store, err := NewLocalImageStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	key, err := store.Save(ctx, "user_1", "image/jpeg", bytes.NewReader([]byte("test data")))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, key))

	_, _, err = store.Get(ctx, key)
	assert.Error(t, err)
}

func TestLocalImageStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalImageStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Get(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
}
