package communityapi

import (
	"context"

	"feedkit/internal/core"
)

// Toggle endpoints return the authoritative relation state after the action,
// which the caller reconciles into its optimistic copy.

type likeResult struct {
	IsLiked    bool  `json:"isLiked"`
	LikesCount int64 `json:"likesCount"`
}

func (c *Client) LikePost(ctx context.Context, postID string) (core.Relation, error) {
	res, err := postJSON[likeResult](ctx, c, postsPath+"/"+postID+"/like", nil)
	if err != nil {
		return core.Relation{}, err
	}
	return core.Relation{Active: res.IsLiked, Count: clamp(res.LikesCount)}, nil
}

func (c *Client) LikeComment(ctx context.Context, commentID string) (core.Relation, error) {
	res, err := postJSON[likeResult](ctx, c, commentsPath+"/"+commentID+"/like", nil)
	if err != nil {
		return core.Relation{}, err
	}
	return core.Relation{Active: res.IsLiked, Count: clamp(res.LikesCount)}, nil
}

type followResult struct {
	IsFollowing    bool  `json:"isFollowing"`
	FollowersCount int64 `json:"followersCount"`
}

func (c *Client) FollowUser(ctx context.Context, userID string) (core.Relation, error) {
	res, err := postJSON[followResult](ctx, c, usersPath+"/"+userID+"/follow", nil)
	if err != nil {
		return core.Relation{}, err
	}
	return core.Relation{Active: res.IsFollowing, Count: clamp(res.FollowersCount)}, nil
}

type joinResult struct {
	IsMember     bool  `json:"isMember"`
	MembersCount int64 `json:"membersCount"`
}

func (c *Client) JoinCommunity(ctx context.Context, communityID string) (core.Relation, error) {
	res, err := postJSON[joinResult](ctx, c, communitiesPath+"/"+communityID+"/join", nil)
	if err != nil {
		return core.Relation{}, err
	}
	return core.Relation{Active: res.IsMember, Count: clamp(res.MembersCount)}, nil
}
