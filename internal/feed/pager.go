// Package feed implements cursor pagination over the community API: pages are
// fetched with an opaque cursor token and appended to a per-view list.
package feed

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"feedkit/internal/core"
)

var pagesLoaded = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "feedkit_pages_loaded_total",
	Help: "The total number of feed pages loaded",
}, []string{"outcome"})

// FetchFunc loads one page from the collaborator API. The cursor is passed
// back exactly as the previous page returned it; an empty cursor means the
// first page.
type FetchFunc[T core.Entity] func(ctx context.Context, cursor string, limit int, filter core.FeedFilter) (core.Page[T], error)

type PagerConfig struct {
	Limit    int
	Filter   core.FeedFilter
	Notifier core.Notifier

	// Action names the listing in failure notices, e.g. "load feed".
	Action string
}

// Pager tracks the cursor, the has-more flag and an in-flight guard for one
// listing. LoadNext is idempotent under rapid repeated triggers: while a load
// is in flight, further calls are no-ops.
type Pager[T core.Entity] struct {
	fetch  FetchFunc[T]
	limit  int
	filter core.FeedFilter

	notifier core.Notifier
	action   string

	mu      sync.Mutex
	list    *List[T]
	cursor  string
	hasMore bool
	total   int64
	loading bool
}

func NewPager[T core.Entity](fetch FetchFunc[T], cfg PagerConfig) *Pager[T] {
	limit := cfg.Limit
	if limit <= 0 {
		limit = 10
	}

	action := cfg.Action
	if action == "" {
		action = "load feed"
	}

	return &Pager[T]{
		fetch:    fetch,
		limit:    limit,
		filter:   cfg.Filter,
		notifier: cfg.Notifier,
		action:   action,
		list:     NewList[T](),
	}
}

// List exposes the backing list so a mutator can share it.
func (p *Pager[T]) List() *List[T] { return p.list }

func (p *Pager[T]) Items() []T { return p.list.Items() }

func (p *Pager[T]) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

func (p *Pager[T]) Total() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// LoadFirst clears the list and cursor and fetches the first page. A failure
// leaves whatever was loaded before untouched.
func (p *Pager[T]) LoadFirst(ctx context.Context) error {
	p.mu.Lock()
	if p.loading {
		p.mu.Unlock()
		return nil
	}
	p.loading = true
	p.mu.Unlock()

	page, err := p.fetch(ctx, "", p.limit, p.filter)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false

	if err != nil {
		pagesLoaded.WithLabelValues("error").Inc()
		p.notify(err)
		return err
	}
	if ctx.Err() != nil {
		// The view is gone; don't touch its state.
		return ctx.Err()
	}

	pagesLoaded.WithLabelValues("ok").Inc()

	p.list.Reset(page.Items...)
	p.cursor = page.NextCursor
	p.hasMore = page.HasMore
	p.total = page.TotalCount

	return nil
}

// LoadNext appends the next page. It never removes or reorders items already
// loaded. Calling it with no more pages, before the first load, or while a
// load is in flight is a no-op.
func (p *Pager[T]) LoadNext(ctx context.Context) error {
	p.mu.Lock()
	if p.loading || !p.hasMore {
		p.mu.Unlock()
		return nil
	}
	p.loading = true
	cursor := p.cursor
	p.mu.Unlock()

	page, err := p.fetch(ctx, cursor, p.limit, p.filter)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false

	if err != nil {
		pagesLoaded.WithLabelValues("error").Inc()
		p.notify(err)
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	pagesLoaded.WithLabelValues("ok").Inc()

	p.list.Append(page.Items...)
	p.cursor = page.NextCursor
	p.hasMore = page.HasMore
	if page.TotalCount > 0 {
		p.total = page.TotalCount
	}

	return nil
}

func (p *Pager[T]) notify(err error) {
	if p.notifier == nil {
		return
	}
	p.notifier.Error(p.action, core.UserMessage(err))
}
