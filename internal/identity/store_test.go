package identity_test

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"feedkit/internal/config"
	"feedkit/internal/core"
	"feedkit/internal/identity"
	"feedkit/internal/kv"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStore(t *testing.T, path string) (*identity.Store, core.KeyValueStore) {
	t.Helper()

	file := &kv.File{
		Logger: discard(),
		Config: &config.Config{StatePath: path},
	}
	require.NoError(t, file.Init(t.Context()))

	store := &identity.Store{Logger: discard(), KV: file}
	require.NoError(t, store.Init(t.Context()))

	return store, file
}

func login(t *testing.T, store *identity.Store) core.Session {
	t.Helper()

	session := core.Session{
		User:  core.Author{ID: "u1", Username: "sam"},
		Token: "tok-1",
	}

	require.NoError(t, store.BeginLogin())
	require.NoError(t, store.CompleteLogin(t.Context(), session))
	return session
}

func TestStore_Lifecycle(t *testing.T) {
	t.Parallel()

	t.Run("starts anonymous", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t, filepath.Join(t.TempDir(), "state.json"))

		require.Equal(t, identity.StateAnonymous, store.State())
		require.ErrorIs(t, store.RequireAuthenticated(), core.ErrAuthRequired)

		_, ok := store.Token()
		require.False(t, ok)
	})

	t.Run("login persists and authenticates", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t, filepath.Join(t.TempDir(), "state.json"))
		session := login(t, store)

		require.Equal(t, identity.StateAuthenticated, store.State())
		require.NoError(t, store.RequireAuthenticated())

		current, ok := store.Current()
		require.True(t, ok)
		require.Equal(t, session, current)

		token, ok := store.Token()
		require.True(t, ok)
		require.Equal(t, "tok-1", token)
	})

	t.Run("rehydrates on startup", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "state.json")

		store, _ := newStore(t, path)
		login(t, store)

		reopened, _ := newStore(t, path)
		require.Equal(t, identity.StateAuthenticated, reopened.State())

		current, ok := reopened.Current()
		require.True(t, ok)
		require.Equal(t, "sam", current.User.Username)
		require.Equal(t, "tok-1", current.Token)
	})

	t.Run("logout purges durable storage", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "state.json")

		store, storage := newStore(t, path)
		login(t, store)

		require.NoError(t, store.Logout(t.Context()))

		require.Equal(t, identity.StateAnonymous, store.State())
		require.ErrorIs(t, store.RequireAuthenticated(), core.ErrAuthRequired)

		_, err := storage.Get(t.Context(), "feedkit.session")
		require.ErrorIs(t, err, kv.ErrNotFound)

		reopened, _ := newStore(t, path)
		require.Equal(t, identity.StateAnonymous, reopened.State())
	})
}

func TestStore_Transitions(t *testing.T) {
	t.Parallel()

	t.Run("failed login returns to anonymous", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t, filepath.Join(t.TempDir(), "state.json"))

		require.NoError(t, store.BeginLogin())
		require.Equal(t, identity.StateAuthenticating, store.State())

		store.FailLogin()
		require.Equal(t, identity.StateAnonymous, store.State())
	})

	t.Run("cannot begin a login twice", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t, filepath.Join(t.TempDir(), "state.json"))

		require.NoError(t, store.BeginLogin())
		require.ErrorIs(t, store.BeginLogin(), identity.ErrBadTransition)
	})

	t.Run("cannot complete a login that never began", func(t *testing.T) {
		t.Parallel()

		store, _ := newStore(t, filepath.Join(t.TempDir(), "state.json"))

		err := store.CompleteLogin(t.Context(), core.Session{
			User:  core.Author{ID: "u1"},
			Token: "tok",
		})
		require.ErrorIs(t, err, identity.ErrBadTransition)
	})

	t.Run("drops a corrupt persisted session", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "state.json")

		file := &kv.File{Logger: discard(), Config: &config.Config{StatePath: path}}
		require.NoError(t, file.Init(t.Context()))
		require.NoError(t, file.Put(t.Context(), "feedkit.session", []byte("{not json")))

		store := &identity.Store{Logger: discard(), KV: file}
		require.NoError(t, store.Init(t.Context()))

		require.Equal(t, identity.StateAnonymous, store.State())

		_, err := file.Get(t.Context(), "feedkit.session")
		require.ErrorIs(t, err, kv.ErrNotFound)
	})
}
