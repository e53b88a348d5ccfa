package feed_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"feedkit/internal/core"
	"feedkit/internal/feed"
)

func TestList(t *testing.T) {
	t.Parallel()

	t.Run("get and replace in place", func(t *testing.T) {
		t.Parallel()

		list := feed.NewList(posts(1, 3)...)

		item, ok := list.Get("post-2")
		require.True(t, ok)

		item.LikesCount = 7
		require.True(t, list.Replace("post-2", item))

		updated, _ := list.Get("post-2")
		require.EqualValues(t, 7, updated.LikesCount)
		require.Equal(t, []string{"post-1", "post-2", "post-3"}, ids(list.Items()))
	})

	t.Run("replace of a missing item reports false", func(t *testing.T) {
		t.Parallel()

		list := feed.NewList[core.Post]()
		require.False(t, list.Replace("nope", core.Post{ID: "nope"}))
	})

	t.Run("items returns a copy", func(t *testing.T) {
		t.Parallel()

		list := feed.NewList(posts(1, 2)...)

		snapshot := list.Items()
		item, _ := list.Get("post-1")
		item.LikesCount = 99
		list.Replace("post-1", item)

		require.EqualValues(t, 0, snapshot[0].LikesCount)
	})

	t.Run("remove", func(t *testing.T) {
		t.Parallel()

		list := feed.NewList(posts(1, 3)...)

		require.True(t, list.Remove("post-2"))
		require.False(t, list.Remove("post-2"))
		require.Equal(t, []string{"post-1", "post-3"}, ids(list.Items()))
	})
}
