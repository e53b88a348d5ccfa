// Package thread lazily loads nested comment replies into a cache keyed by
// parent id, separate from the flat top-level comment list.
package thread

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"feedkit/internal/core"
	"feedkit/internal/feed"
)

var expandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "feedkit_thread_expands_total",
	Help: "The total number of reply expansions",
}, []string{"result"})

// MaxNestingDepth caps recursive rendering. Replies below the cap are exposed
// only through the flat hidden-replies count.
const MaxNestingDepth = 3

// FetchRepliesFunc loads the direct replies of a comment from the
// collaborator API.
type FetchRepliesFunc func(ctx context.Context, parentID string) ([]core.Comment, error)

// Expander caches replies per parent id. The cache is filled on first expand
// and never invalidated on its own; only Reset (a fresh top-level reload)
// clears it.
type Expander struct {
	fetch    FetchRepliesFunc
	comments *feed.List[core.Comment]
	notifier core.Notifier

	mu      sync.Mutex
	replies map[string][]core.Comment
	loaded  map[string]bool
}

// NewExpander wires the cache to the view's top-level comment list so that
// appended replies can bump the parent's reply counter.
func NewExpander(fetch FetchRepliesFunc, comments *feed.List[core.Comment], notifier core.Notifier) *Expander {
	return &Expander{
		fetch:    fetch,
		comments: comments,
		notifier: notifier,
		replies:  map[string][]core.Comment{},
		loaded:   map[string]bool{},
	}
}

// Expand returns the replies of parentID, fetching them on the first call and
// serving the cache afterwards.
func (e *Expander) Expand(ctx context.Context, parentID string) ([]core.Comment, error) {
	e.mu.Lock()
	if e.loaded[parentID] {
		cached := append([]core.Comment(nil), e.replies[parentID]...)
		e.mu.Unlock()
		expandsTotal.WithLabelValues("hit").Inc()
		return cached, nil
	}
	e.mu.Unlock()

	fetched, err := e.fetch(ctx, parentID)
	if err != nil {
		expandsTotal.WithLabelValues("error").Inc()
		if e.notifier != nil {
			e.notifier.Error("load replies", core.UserMessage(err))
		}
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	expandsTotal.WithLabelValues("miss").Inc()

	e.mu.Lock()
	defer e.mu.Unlock()

	// A reply composed while the fetch was in flight is already cached; keep
	// it after the server-loaded ones.
	e.replies[parentID] = append(fetched, e.replies[parentID]...)
	e.loaded[parentID] = true

	return append([]core.Comment(nil), e.replies[parentID]...), nil
}

// AppendReply records a freshly composed reply under its parent, lazily
// initializing the cache entry, and bumps the parent's reply counter wherever
// the parent lives: the top-level list or another parent's cached replies.
func (e *Expander) AppendReply(parentID string, reply core.Comment) {
	e.mu.Lock()
	e.replies[parentID] = append(e.replies[parentID], reply)

	for id, cached := range e.replies {
		if id == parentID {
			continue
		}
		for i := range cached {
			if cached[i].ID == parentID {
				cached[i].RepliesCount++
			}
		}
	}
	e.mu.Unlock()

	if e.comments != nil {
		if parent, ok := e.comments.Get(parentID); ok {
			parent.RepliesCount++
			e.comments.Replace(parentID, parent)
		}
	}
}

// LoadedCount reports how many replies are cached for a parent, expanded or
// not.
func (e *Expander) LoadedCount(parentID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.replies[parentID])
}

// HiddenCount is the "show N more replies" number: replies the server knows
// about that are not loaded yet.
func (e *Expander) HiddenCount(parent core.Comment) int64 {
	hidden := parent.RepliesCount - int64(e.LoadedCount(parent.ID))
	if hidden < 0 {
		return 0
	}
	return hidden
}

// Expandable reports whether replies at the given depth may still be rendered
// as a nested thread.
func (e *Expander) Expandable(depth int) bool {
	return depth < MaxNestingDepth
}

// Reset drops the whole cache. Called on a fresh top-level reload.
func (e *Expander) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.replies = map[string][]core.Comment{}
	e.loaded = map[string]bool{}
}
