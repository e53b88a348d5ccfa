package communityapi

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/samber/lo"

	"feedkit/internal/core"
)

const (
	postsPath       = "/posts"
	commentsPath    = "/comments"
	usersPath       = "/users"
	communitiesPath = "/communities"

	defaultLimit = 10
)

// PageQuery addresses one page of a listing. Cursor is opaque: whatever the
// previous page returned is sent back verbatim.
type PageQuery struct {
	Cursor      string
	Limit       int
	Filter      core.FeedFilter
	CommunityID string
}

func (q PageQuery) values() map[string]string {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	query := map[string]string{
		"limit": strconv.Itoa(limit),
	}
	if q.Cursor != "" {
		query["cursor"] = q.Cursor
	}
	if q.Filter != "" {
		query["filter"] = string(q.Filter)
	}
	if q.CommunityID != "" {
		query["communityId"] = q.CommunityID
	}
	return query
}

type pageData[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor"`
	HasMore    bool   `json:"hasMore"`
	TotalCount int64  `json:"totalCount"`
}

func decodePage[W any, T core.Entity](data pageData[W], decode func(W) (T, bool)) core.Page[T] {
	return core.Page[T]{
		Items: lo.FilterMap(data.Items, func(w W, _ int) (T, bool) {
			return decode(w)
		}),
		NextCursor: data.NextCursor,
		HasMore:    data.HasMore,
		TotalCount: data.TotalCount,
	}
}

type postPayload struct {
	ID            string      `json:"id"`
	Author        core.Author `json:"author"`
	CommunityID   string      `json:"communityId"`
	Content       string      `json:"content"`
	LikesCount    int64       `json:"likesCount"`
	CommentsCount int64       `json:"commentsCount"`
	SharesCount   int64       `json:"sharesCount"`
	IsLiked       bool        `json:"isLiked"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// decodePost drops items without an id and floors counters at zero instead of
// letting malformed payloads through.
func decodePost(w postPayload) (core.Post, bool) {
	if w.ID == "" {
		return core.Post{}, false
	}

	return core.Post{
		ID:            w.ID,
		Author:        w.Author,
		CommunityID:   w.CommunityID,
		Content:       w.Content,
		LikesCount:    clamp(w.LikesCount),
		CommentsCount: clamp(w.CommentsCount),
		SharesCount:   clamp(w.SharesCount),
		IsLiked:       w.IsLiked,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}, true
}

type commentPayload struct {
	ID           string      `json:"id"`
	PostID       string      `json:"postId"`
	ParentID     string      `json:"parentId"`
	Author       core.Author `json:"author"`
	Content      string      `json:"content"`
	LikesCount   int64       `json:"likesCount"`
	RepliesCount int64       `json:"repliesCount"`
	IsLiked      bool        `json:"isLiked"`
	Depth        int         `json:"depth"`
	CreatedAt    time.Time   `json:"createdAt"`
}

func decodeComment(w commentPayload) (core.Comment, bool) {
	if w.ID == "" {
		return core.Comment{}, false
	}

	depth := w.Depth
	if depth < 0 {
		depth = 0
	}

	return core.Comment{
		ID:           w.ID,
		PostID:       w.PostID,
		ParentID:     w.ParentID,
		Author:       w.Author,
		Content:      w.Content,
		LikesCount:   clamp(w.LikesCount),
		RepliesCount: clamp(w.RepliesCount),
		IsLiked:      w.IsLiked,
		Depth:        depth,
		CreatedAt:    w.CreatedAt,
	}, true
}

type followPayload struct {
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	DisplayName    string `json:"displayName"`
	FollowersCount int64  `json:"followersCount"`
	IsFollowing    bool   `json:"isFollowing"`
}

func decodeFollow(w followPayload) (core.FollowEdge, bool) {
	if w.UserID == "" {
		return core.FollowEdge{}, false
	}

	return core.FollowEdge{
		UserID:         w.UserID,
		Username:       w.Username,
		DisplayName:    w.DisplayName,
		FollowersCount: clamp(w.FollowersCount),
		IsFollowing:    w.IsFollowing,
	}, true
}

type communityPayload struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	MembersCount int64  `json:"membersCount"`
	IsMember     bool   `json:"isMember"`
}

func decodeCommunity(w communityPayload) (core.CommunityMembership, bool) {
	if w.ID == "" {
		return core.CommunityMembership{}, false
	}

	return core.CommunityMembership{
		CommunityID:  w.ID,
		Name:         w.Name,
		Description:  w.Description,
		MembersCount: clamp(w.MembersCount),
		IsMember:     w.IsMember,
	}, true
}

// ListFeed returns one page of the post feed, optionally scoped to a community
// and filtered (latest, trending, following).
func (c *Client) ListFeed(ctx context.Context, q PageQuery) (core.Page[core.Post], error) {
	data, err := getJSON[pageData[postPayload]](ctx, c, postsPath, q.values())
	if err != nil {
		return core.Page[core.Post]{}, err
	}
	return decodePage(data, decodePost), nil
}

func (c *Client) GetPost(ctx context.Context, id string) (core.Post, error) {
	data, err := getJSON[postPayload](ctx, c, postsPath+"/"+id, nil)
	if err != nil {
		return core.Post{}, err
	}

	post, ok := decodePost(data)
	if !ok {
		return core.Post{}, fmt.Errorf("%w: malformed post payload", core.ErrServer)
	}
	return post, nil
}

func (c *Client) ListComments(ctx context.Context, postID string, q PageQuery) (core.Page[core.Comment], error) {
	data, err := getJSON[pageData[commentPayload]](ctx, c, postsPath+"/"+postID+"/comments", q.values())
	if err != nil {
		return core.Page[core.Comment]{}, err
	}
	return decodePage(data, decodeComment), nil
}

// ListReplies fetches the direct replies of a comment. The thread cache calls
// this once per parent.
func (c *Client) ListReplies(ctx context.Context, commentID string) ([]core.Comment, error) {
	data, err := getJSON[pageData[commentPayload]](ctx, c, commentsPath+"/"+commentID+"/replies", nil)
	if err != nil {
		return nil, err
	}
	return decodePage(data, decodeComment).Items, nil
}

func (c *Client) ListFollowing(ctx context.Context, userID string, q PageQuery) (core.Page[core.FollowEdge], error) {
	data, err := getJSON[pageData[followPayload]](ctx, c, usersPath+"/"+userID+"/following", q.values())
	if err != nil {
		return core.Page[core.FollowEdge]{}, err
	}
	return decodePage(data, decodeFollow), nil
}

func (c *Client) ListCommunities(ctx context.Context, q PageQuery) (core.Page[core.CommunityMembership], error) {
	data, err := getJSON[pageData[communityPayload]](ctx, c, communitiesPath, q.values())
	if err != nil {
		return core.Page[core.CommunityMembership]{}, err
	}
	return decodePage(data, decodeCommunity), nil
}
