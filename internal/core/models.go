package core

import (
	"time"
)

// Entity is anything addressable by a stable id inside a feed list.
type Entity interface {
	Key() string
}

// Author is a reference to the user that produced an item.
type Author struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

// Relation is the viewer's relation to an item: the flag (liked, following,
// member) plus the counter adjacent to it. The counter never goes negative.
type Relation struct {
	Active bool
	Count  int64
}

type Post struct {
	ID          string
	Author      Author
	CommunityID string
	Content     string

	LikesCount    int64
	CommentsCount int64
	SharesCount   int64
	IsLiked       bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Post) Key() string { return p.ID }

type Comment struct {
	ID       string
	PostID   string
	ParentID string
	Author   Author
	Content  string

	LikesCount   int64
	RepliesCount int64
	IsLiked      bool

	// Depth is 0 for top-level comments, parent depth + 1 for replies.
	Depth int

	CreatedAt time.Time
}

func (c Comment) Key() string { return c.ID }

type FollowEdge struct {
	UserID      string
	Username    string
	DisplayName string

	FollowersCount int64
	IsFollowing    bool
}

func (f FollowEdge) Key() string { return f.UserID }

type CommunityMembership struct {
	CommunityID string
	Name        string
	Description string

	MembersCount int64
	IsMember     bool
}

func (m CommunityMembership) Key() string { return m.CommunityID }

// Page is one page of a cursor-paginated listing. NextCursor is an opaque
// token minted by the backend; it is passed back verbatim and never parsed.
type Page[T Entity] struct {
	Items      []T
	NextCursor string
	HasMore    bool
	TotalCount int64
}

type FeedFilter string

const (
	FilterLatest    FeedFilter = "latest"
	FilterTrending  FeedFilter = "trending"
	FilterFollowing FeedFilter = "following"
)

// Session is the signed-in viewer's identity plus the bearer token for the
// backend. Only this subset is ever persisted.
type Session struct {
	User  Author `json:"user"`
	Token string `json:"token"`
}

type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a short user-facing notification, the CLI equivalent of a toast.
type Notice struct {
	Level   NoticeLevel
	Action  string
	Message string
	At      time.Time
}

// LiveEvent is a single message from the platform's push stream.
type LiveEvent struct {
	Kind    string   `json:"kind"`
	Post    *Post    `json:"post,omitempty"`
	Comment *Comment `json:"comment,omitempty"`
	Message string   `json:"message,omitempty"`

	At time.Time `json:"at"`
}

const (
	LiveEventPost         = "post.created"
	LiveEventComment      = "comment.created"
	LiveEventNotification = "notification"
)
