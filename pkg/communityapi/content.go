package communityapi

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"

	"feedkit/internal/core"
)

// newIdempotencyKey mints a client-side key so the backend can dedupe a create
// request the user retried after a timeout.
func newIdempotencyKey() string {
	return ulid.Make().String()
}

type NewPost struct {
	CommunityID string `json:"communityId,omitempty"`
	Content     string `json:"content"`
}

func (c *Client) CreatePost(ctx context.Context, np NewPost) (core.Post, error) {
	if np.Content == "" {
		return core.Post{}, fmt.Errorf("%w: post content is required", core.ErrValidation)
	}

	data, err := postJSON[postPayload](ctx, c, postsPath, np)
	if err != nil {
		return core.Post{}, err
	}

	post, ok := decodePost(data)
	if !ok {
		return core.Post{}, fmt.Errorf("%w: malformed post payload", core.ErrServer)
	}
	return post, nil
}

type NewComment struct {
	PostID   string `json:"postId"`
	ParentID string `json:"parentId,omitempty"`
	Content  string `json:"content"`
}

// CreateComment posts a top-level comment when ParentID is empty, a reply
// otherwise.
func (c *Client) CreateComment(ctx context.Context, nc NewComment) (core.Comment, error) {
	if nc.PostID == "" || nc.Content == "" {
		return core.Comment{}, fmt.Errorf("%w: post id and content are required", core.ErrValidation)
	}

	data, err := postJSON[commentPayload](ctx, c, commentsPath, nc)
	if err != nil {
		return core.Comment{}, err
	}

	comment, ok := decodeComment(data)
	if !ok {
		return core.Comment{}, fmt.Errorf("%w: malformed comment payload", core.ErrServer)
	}
	return comment, nil
}
