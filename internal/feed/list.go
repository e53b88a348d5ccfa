package feed

import (
	"sync"

	"github.com/samber/lo"

	"feedkit/internal/core"
)

// List is the ordered in-memory item list one view renders. The pager appends
// to it, the mutator rewrites single items in place. Each view owns its own
// instance; lists are never shared across views.
type List[T core.Entity] struct {
	mu    sync.RWMutex
	items []T
}

func NewList[T core.Entity](items ...T) *List[T] {
	return &List[T]{items: items}
}

func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Items returns a copy; callers never observe later in-place rewrites.
func (l *List[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T(nil), l.items...)
}

func (l *List[T]) Get(id string) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return lo.Find(l.items, func(item T) bool {
		return item.Key() == id
	})
}

// Replace swaps the item with the same key in place, keeping order. Returns
// false if the item is gone.
func (l *List[T]) Replace(id string, item T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].Key() == id {
			l.items[i] = item
			return true
		}
	}
	return false
}

func (l *List[T]) Append(items ...T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, items...)
}

func (l *List[T]) Reset(items ...T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append([]T(nil), items...)
}

// Remove deletes the item with the given key, if present.
func (l *List[T]) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	before := len(l.items)
	l.items = lo.Reject(l.items, func(item T, _ int) bool {
		return item.Key() == id
	})
	return len(l.items) != before
}
