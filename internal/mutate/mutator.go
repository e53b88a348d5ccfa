// Package mutate implements optimistic toggles (like, follow, join) as one
// reusable three-phase primitive: snapshot, tentative apply, commit or
// rollback.
package mutate

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"feedkit/internal/core"
	"feedkit/internal/feed"
)

var togglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "feedkit_toggles_total",
	Help: "The total number of optimistic toggles",
}, []string{"action", "outcome"})

// MutationFunc performs the network call and resolves with the authoritative
// relation state recorded by the server.
type MutationFunc func(ctx context.Context) (core.Relation, error)

// Accessor reads and writes the relation (flag + adjacent counter) of one
// item kind, e.g. IsLiked/LikesCount on a post.
type Accessor[T core.Entity] struct {
	Get func(item T) core.Relation
	Set func(item T, rel core.Relation) T
}

// Gate decides whether the viewer may mutate at all. The identity store
// implements it.
type Gate interface {
	RequireAuthenticated() error
}

type Mutator[T core.Entity] struct {
	list     *feed.List[T]
	access   Accessor[T]
	gate     Gate
	notifier core.Notifier
}

func New[T core.Entity](list *feed.List[T], access Accessor[T], gate Gate, notifier core.Notifier) *Mutator[T] {
	return &Mutator[T]{
		list:     list,
		access:   access,
		gate:     gate,
		notifier: notifier,
	}
}

// Toggle flips the item's relation locally before the network call resolves,
// then reconciles with the server's authoritative values, or rolls the item
// back to the exact pre-toggle snapshot on failure.
//
// Overlapping toggles on the same item are not serialized; the server's
// last response wins through reconciliation.
func (m *Mutator[T]) Toggle(ctx context.Context, id, action string, call MutationFunc) error {
	if m.gate != nil {
		if err := m.gate.RequireAuthenticated(); err != nil {
			togglesTotal.WithLabelValues(action, "unauthenticated").Inc()
			m.notify(action, err)
			return err
		}
	}

	item, ok := m.list.Get(id)
	if !ok {
		return nil
	}

	snapshot := m.access.Get(item)

	next := core.Relation{Active: !snapshot.Active}
	if next.Active {
		next.Count = snapshot.Count + 1
	} else {
		next.Count = snapshot.Count - 1
		if next.Count < 0 {
			next.Count = 0
		}
	}
	m.list.Replace(id, m.access.Set(item, next))

	authoritative, err := call(ctx)
	if err != nil {
		// Restore the snapshot; the item may have been removed in the
		// meantime, in which case there is nothing to roll back.
		if current, ok := m.list.Get(id); ok {
			m.list.Replace(id, m.access.Set(current, snapshot))
		}
		togglesTotal.WithLabelValues(action, "rolled_back").Inc()
		m.notify(action, err)
		return err
	}

	if ctx.Err() != nil {
		// The view is gone; leave discarded state alone.
		return ctx.Err()
	}

	if authoritative.Count < 0 {
		authoritative.Count = 0
	}
	if current, ok := m.list.Get(id); ok {
		m.list.Replace(id, m.access.Set(current, authoritative))
	}

	togglesTotal.WithLabelValues(action, "ok").Inc()
	return nil
}

func (m *Mutator[T]) notify(action string, err error) {
	if m.notifier == nil {
		return
	}
	m.notifier.Error(action, core.UserMessage(err))
}

// PostLikes is the accessor for liking posts.
func PostLikes() Accessor[core.Post] {
	return Accessor[core.Post]{
		Get: func(p core.Post) core.Relation {
			return core.Relation{Active: p.IsLiked, Count: p.LikesCount}
		},
		Set: func(p core.Post, rel core.Relation) core.Post {
			p.IsLiked = rel.Active
			p.LikesCount = rel.Count
			return p
		},
	}
}

// CommentLikes is the accessor for liking comments.
func CommentLikes() Accessor[core.Comment] {
	return Accessor[core.Comment]{
		Get: func(c core.Comment) core.Relation {
			return core.Relation{Active: c.IsLiked, Count: c.LikesCount}
		},
		Set: func(c core.Comment, rel core.Relation) core.Comment {
			c.IsLiked = rel.Active
			c.LikesCount = rel.Count
			return c
		},
	}
}

// Follows is the accessor for following users.
func Follows() Accessor[core.FollowEdge] {
	return Accessor[core.FollowEdge]{
		Get: func(f core.FollowEdge) core.Relation {
			return core.Relation{Active: f.IsFollowing, Count: f.FollowersCount}
		},
		Set: func(f core.FollowEdge, rel core.Relation) core.FollowEdge {
			f.IsFollowing = rel.Active
			f.FollowersCount = rel.Count
			return f
		},
	}
}

// Memberships is the accessor for joining communities.
func Memberships() Accessor[core.CommunityMembership] {
	return Accessor[core.CommunityMembership]{
		Get: func(m core.CommunityMembership) core.Relation {
			return core.Relation{Active: m.IsMember, Count: m.MembersCount}
		},
		Set: func(m core.CommunityMembership, rel core.Relation) core.CommunityMembership {
			m.IsMember = rel.Active
			m.MembersCount = rel.Count
			return m
		},
	}
}
