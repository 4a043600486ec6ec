package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStoreSaveDelete(t *testing.T) {
	ctx := context.Background()
	store := NewDiskStore(t.TempDir())

	err := store.Save(ctx, "historial/u1_result_abc.jpg", []byte("jpeg bytes"), "image/jpeg")
	require.NoError(t, err)

	p := filepath.Join(store.Root, "historial", "u1_result_abc.jpg")
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), data)

	require.NoError(t, store.Delete(ctx, "historial/u1_result_abc.jpg"))
	_, err = os.Stat(p)
	assert.True(t, os.IsNotExist(err))

	// Second delete reports the missing file; callers decide to ignore it.
	assert.Error(t, store.Delete(ctx, "historial/u1_result_abc.jpg"))
}

func TestDiskStoreURL(t *testing.T) {
	store := NewDiskStore("storage")
	assert.Equal(t, "/media/historial/x.jpg", store.URL(context.Background(), "historial/x.jpg"))
}
