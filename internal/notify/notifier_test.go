package notify_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"feedkit/internal/core"
	"feedkit/internal/notify"
)

func newNotifier(t *testing.T) *notify.Notifier {
	t.Helper()

	n := &notify.Notifier{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	require.NoError(t, n.Init(t.Context()))
	return n
}

func TestNotifier(t *testing.T) {
	t.Parallel()

	t.Run("subscribers receive published notices", func(t *testing.T) {
		t.Parallel()

		n := newNotifier(t)
		ch := n.Subscribe(4)

		n.Info("load feed", "loaded")
		n.Error("like post", "something went wrong, please retry")

		notice := <-ch
		require.Equal(t, core.NoticeInfo, notice.Level)
		require.Equal(t, "load feed", notice.Action)

		notice = <-ch
		require.Equal(t, core.NoticeError, notice.Level)
		require.Equal(t, "something went wrong, please retry", notice.Message)
		require.False(t, notice.At.IsZero())
	})

	t.Run("a full subscriber drops notices instead of blocking", func(t *testing.T) {
		t.Parallel()

		n := newNotifier(t)
		ch := n.Subscribe(1)

		n.Info("load feed", "first")
		n.Info("load feed", "second")
		n.Info("load feed", "third")

		notice := <-ch
		require.Equal(t, "first", notice.Message)

		select {
		case extra := <-ch:
			t.Fatalf("unexpected notice: %q", extra.Message)
		default:
		}
	})

	t.Run("shutdown closes subscriber channels", func(t *testing.T) {
		t.Parallel()

		n := newNotifier(t)
		ch := n.Subscribe(1)

		require.NoError(t, n.Shutdown(t.Context()))

		_, ok := <-ch
		require.False(t, ok)
	})

	t.Run("subscribing after shutdown yields a closed channel", func(t *testing.T) {
		t.Parallel()

		n := newNotifier(t)
		require.NoError(t, n.Shutdown(t.Context()))

		ch := n.Subscribe(1)
		_, ok := <-ch
		require.False(t, ok)
	})
}
