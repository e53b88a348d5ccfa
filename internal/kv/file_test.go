package kv_test

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"feedkit/internal/config"
	"feedkit/internal/kv"
)

func newFileStore(t *testing.T, path string) *kv.File {
	t.Helper()

	store := &kv.File{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: &config.Config{StatePath: path},
	}
	require.NoError(t, store.Init(t.Context()))
	return store
}

func TestFile(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		store := newFileStore(t, filepath.Join(t.TempDir(), "state.json"))

		require.NoError(t, store.Put(t.Context(), "k", []byte("v")))

		value, err := store.Get(t.Context(), "k")
		require.NoError(t, err)
		require.Equal(t, []byte("v"), value)
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		store := newFileStore(t, filepath.Join(t.TempDir(), "state.json"))

		_, err := store.Get(t.Context(), "nope")
		require.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		store := newFileStore(t, filepath.Join(t.TempDir(), "state.json"))

		require.NoError(t, store.Put(t.Context(), "k", []byte("v")))
		require.NoError(t, store.Delete(t.Context(), "k"))
		require.NoError(t, store.Delete(t.Context(), "k"))

		_, err := store.Get(t.Context(), "k")
		require.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("state survives a restart", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "state.json")

		store := newFileStore(t, path)
		require.NoError(t, store.Put(t.Context(), "k", []byte("v")))

		reopened := newFileStore(t, path)
		value, err := reopened.Get(t.Context(), "k")
		require.NoError(t, err)
		require.Equal(t, []byte("v"), value)
	})
}
