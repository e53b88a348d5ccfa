// Package notify fans user-facing notices out to the log and any subscribed
// renderer. It is the only channel through which pager and mutator failures
// reach the user.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"feedkit/internal/core"
)

var noticesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "feedkit_notices_total",
	Help: "The total number of user-facing notices emitted",
}, []string{"level", "action"})

type Notifier struct {
	Logger *slog.Logger

	mu     sync.Mutex
	subs   []chan core.Notice
	closed bool
}

func (n *Notifier) Init(context.Context) error {
	n.Logger = n.Logger.With("component", "notify.Notifier")
	return nil
}

func (n *Notifier) Shutdown(context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.closed = true
	for _, ch := range n.subs {
		close(ch)
	}
	n.subs = nil
	return nil
}

func (n *Notifier) Info(action, message string) {
	n.publish(core.NoticeInfo, action, message)
}

func (n *Notifier) Error(action, message string) {
	n.publish(core.NoticeError, action, message)
}

// Subscribe returns a buffered channel of notices. Slow subscribers drop
// notices instead of blocking the caller.
func (n *Notifier) Subscribe(buffer int) <-chan core.Notice {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan core.Notice, buffer)

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		close(ch)
		return ch
	}

	n.subs = append(n.subs, ch)
	return ch
}

func (n *Notifier) publish(level core.NoticeLevel, action, message string) {
	notice := core.Notice{
		Level:   level,
		Action:  action,
		Message: message,
		At:      time.Now(),
	}

	noticesTotal.WithLabelValues(string(level), action).Inc()

	switch level {
	case core.NoticeError:
		n.Logger.Error("notice", "action", action, "message", message)
	default:
		n.Logger.Info("notice", "action", action, "message", message)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs {
		select {
		case ch <- notice:
		default:
		}
	}
}
