package mutate_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"feedkit/internal/core"
	"feedkit/internal/feed"
	"feedkit/internal/mutate"
)

var errUpstream = errors.New("upstream failed")

type fakeNotifier struct {
	mu      sync.Mutex
	notices []string
}

func (f *fakeNotifier) Info(action, message string) {}

func (f *fakeNotifier) Error(action, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, action+": "+message)
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.notices)
}

type deniedGate struct{}

func (deniedGate) RequireAuthenticated() error { return core.ErrAuthRequired }

type openGate struct{}

func (openGate) RequireAuthenticated() error { return nil }

func newPostList() *feed.List[core.Post] {
	return feed.NewList(core.Post{ID: "p1", IsLiked: false, LikesCount: 5})
}

func relation(t *testing.T, list *feed.List[core.Post], id string) core.Relation {
	t.Helper()

	post, ok := list.Get(id)
	require.True(t, ok)
	return core.Relation{Active: post.IsLiked, Count: post.LikesCount}
}

func TestMutator_Toggle(t *testing.T) {
	t.Parallel()

	t.Run("applies optimistically before the call resolves", func(t *testing.T) {
		t.Parallel()

		list := newPostList()
		m := mutate.New(list, mutate.PostLikes(), openGate{}, nil)

		err := m.Toggle(t.Context(), "p1", "like post", func(context.Context) (core.Relation, error) {
			// Observed mid-flight: the flag and counter already flipped.
			require.Equal(t, core.Relation{Active: true, Count: 6}, relation(t, list, "p1"))
			return core.Relation{Active: true, Count: 6}, nil
		})
		require.NoError(t, err)

		require.Equal(t, core.Relation{Active: true, Count: 6}, relation(t, list, "p1"))
	})

	t.Run("reconciles with diverging server counts", func(t *testing.T) {
		t.Parallel()

		list := newPostList()
		m := mutate.New(list, mutate.PostLikes(), openGate{}, nil)

		err := m.Toggle(t.Context(), "p1", "like post", func(context.Context) (core.Relation, error) {
			return core.Relation{Active: true, Count: 7}, nil
		})
		require.NoError(t, err)

		require.Equal(t, core.Relation{Active: true, Count: 7}, relation(t, list, "p1"))
	})

	t.Run("rolls back exactly on failure", func(t *testing.T) {
		t.Parallel()

		list := newPostList()
		notifier := &fakeNotifier{}
		m := mutate.New(list, mutate.PostLikes(), openGate{}, notifier)

		err := m.Toggle(t.Context(), "p1", "like post", func(context.Context) (core.Relation, error) {
			return core.Relation{}, errUpstream
		})
		require.ErrorIs(t, err, errUpstream)

		require.Equal(t, core.Relation{Active: false, Count: 5}, relation(t, list, "p1"))
		require.Equal(t, 1, notifier.count())
	})

	t.Run("counter never goes below zero", func(t *testing.T) {
		t.Parallel()

		list := feed.NewList(core.Post{ID: "p1", IsLiked: true, LikesCount: 0})
		m := mutate.New(list, mutate.PostLikes(), openGate{}, nil)

		err := m.Toggle(t.Context(), "p1", "like post", func(context.Context) (core.Relation, error) {
			require.Equal(t, core.Relation{Active: false, Count: 0}, relation(t, list, "p1"))
			return core.Relation{Active: false, Count: 0}, nil
		})
		require.NoError(t, err)

		require.Equal(t, core.Relation{Active: false, Count: 0}, relation(t, list, "p1"))
	})

	t.Run("missing item is a no-op", func(t *testing.T) {
		t.Parallel()

		list := newPostList()
		m := mutate.New(list, mutate.PostLikes(), openGate{}, nil)

		err := m.Toggle(t.Context(), "ghost", "like post", func(context.Context) (core.Relation, error) {
			t.Fatal("mutation must not be called")
			return core.Relation{}, nil
		})
		require.NoError(t, err)
	})

	t.Run("item removed mid-flight skips rollback", func(t *testing.T) {
		t.Parallel()

		list := newPostList()
		m := mutate.New(list, mutate.PostLikes(), openGate{}, nil)

		err := m.Toggle(t.Context(), "p1", "like post", func(context.Context) (core.Relation, error) {
			list.Remove("p1")
			return core.Relation{}, errUpstream
		})
		require.ErrorIs(t, err, errUpstream)

		_, ok := list.Get("p1")
		require.False(t, ok)
	})

	t.Run("item removed mid-flight skips reconciliation", func(t *testing.T) {
		t.Parallel()

		list := newPostList()
		m := mutate.New(list, mutate.PostLikes(), openGate{}, nil)

		err := m.Toggle(t.Context(), "p1", "like post", func(context.Context) (core.Relation, error) {
			list.Remove("p1")
			return core.Relation{Active: true, Count: 6}, nil
		})
		require.NoError(t, err)

		_, ok := list.Get("p1")
		require.False(t, ok)
	})

	t.Run("unauthenticated viewers never reach the network", func(t *testing.T) {
		t.Parallel()

		list := newPostList()
		notifier := &fakeNotifier{}
		m := mutate.New(list, mutate.PostLikes(), deniedGate{}, notifier)

		err := m.Toggle(t.Context(), "p1", "like post", func(context.Context) (core.Relation, error) {
			t.Fatal("mutation must not be called")
			return core.Relation{}, nil
		})
		require.ErrorIs(t, err, core.ErrAuthRequired)

		require.Equal(t, core.Relation{Active: false, Count: 5}, relation(t, list, "p1"))
		require.Equal(t, 1, notifier.count())
	})
}

func TestAccessors(t *testing.T) {
	t.Parallel()

	t.Run("follow edges", func(t *testing.T) {
		t.Parallel()

		access := mutate.Follows()
		edge := core.FollowEdge{UserID: "u1", FollowersCount: 3}

		require.Equal(t, core.Relation{Active: false, Count: 3}, access.Get(edge))

		edge = access.Set(edge, core.Relation{Active: true, Count: 4})
		require.True(t, edge.IsFollowing)
		require.EqualValues(t, 4, edge.FollowersCount)
	})

	t.Run("community memberships", func(t *testing.T) {
		t.Parallel()

		access := mutate.Memberships()
		membership := core.CommunityMembership{CommunityID: "c1", MembersCount: 10, IsMember: true}

		require.Equal(t, core.Relation{Active: true, Count: 10}, access.Get(membership))

		membership = access.Set(membership, core.Relation{Active: false, Count: 9})
		require.False(t, membership.IsMember)
		require.EqualValues(t, 9, membership.MembersCount)
	})
}
