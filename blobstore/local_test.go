package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	t.Run("PutOpenReadAt", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "bank.fsb", []byte("0123456789")))

		blob, err := store.Open(ctx, "bank.fsb")
		require.NoError(t, err)
		defer blob.Close()

		assert.Equal(t, int64(10), blob.Size())

		p := make([]byte, 4)
		n, err := blob.ReadAt(p, 3)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		assert.Equal(t, []byte("3456"), p)

		data, err := ReadAll(blob)
		require.NoError(t, err)
		assert.Equal(t, []byte("0123456789"), data)
	})

	t.Run("CreateStreaming", func(t *testing.T) {
		w, err := store.Create(ctx, "streamed.fsb")
		require.NoError(t, err)
		_, err = w.Write([]byte("part1-"))
		require.NoError(t, err)
		_, err = w.Write([]byte("part2"))
		require.NoError(t, err)
		require.NoError(t, w.Sync())
		require.NoError(t, w.Close())

		blob, err := store.Open(ctx, "streamed.fsb")
		require.NoError(t, err)
		defer blob.Close()

		data, err := ReadAll(blob)
		require.NoError(t, err)
		assert.Equal(t, []byte("part1-part2"), data)
	})

	t.Run("List", func(t *testing.T) {
		names, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"bank.fsb", "streamed.fsb"}, names)

		names, err = store.List(ctx, "bank")
		require.NoError(t, err)
		assert.Equal(t, []string{"bank.fsb"}, names)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "bank.fsb"))
		require.NoError(t, store.Delete(ctx, "bank.fsb")) // Idempotent.

		_, err := store.Open(ctx, "bank.fsb")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("RoundTrip", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "a", []byte("alpha")))

		blob, err := store.Open(ctx, "a")
		require.NoError(t, err)
		data, err := ReadAll(blob)
		require.NoError(t, err)
		assert.Equal(t, []byte("alpha"), data)
		assert.NoError(t, blob.Close())
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := store.Open(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("CreateAndList", func(t *testing.T) {
		w, err := store.Create(ctx, "b")
		require.NoError(t, err)
		_, err = w.Write([]byte("beta"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		names, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, names)
	})
}
