package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"feedkit/internal/cmd/flags"
	"feedkit/internal/config"
	"feedkit/internal/core"
	"feedkit/internal/feed"
	"feedkit/internal/identity"
	"feedkit/internal/mutate"
	"feedkit/internal/notify"
	"feedkit/pkg/communityapi"
)

var likeCmd = &cli.Command{
	Name:  "like",
	Usage: "Toggle your like on a post",
	Flags: []cli.Flag{
		flags.APIURL,
		flags.NATSUrl,
		flags.StatePath,
		flags.Post,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c,
			storageService(c),
			pal.Provide(&identity.Store{}),
			pal.Provide(&notify.Notifier{}),
			pal.Provide(&liker{postID: c.String("post")}),
		)
	},
}

var followCmd = &cli.Command{
	Name:  "follow",
	Usage: "Toggle following a user",
	Flags: []cli.Flag{
		flags.APIURL,
		flags.NATSUrl,
		flags.StatePath,
		flags.User,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c,
			storageService(c),
			pal.Provide(&identity.Store{}),
			pal.Provide(&notify.Notifier{}),
			pal.Provide(&follower{userID: c.String("user")}),
		)
	},
}

type liker struct {
	Logger   *slog.Logger
	Config   *config.Config
	Identity *identity.Store
	Notifier *notify.Notifier

	postID string

	api *communityapi.Client
}

func (l *liker) Init(context.Context) error {
	l.api = communityapi.NewClient(&communityapi.Config{
		BaseURL: l.Config.APIBaseURL,
		Tokens:  l.Identity,
	})
	return nil
}

func (l *liker) Shutdown(context.Context) error {
	return l.api.Close()
}

func (l *liker) Run(ctx context.Context) error {
	post, err := l.api.GetPost(ctx, l.postID)
	if err != nil {
		return err
	}

	list := feed.NewList(post)
	mutator := mutate.New(list, mutate.PostLikes(), l.Identity, l.Notifier)

	err = mutator.Toggle(ctx, l.postID, "like post", func(ctx context.Context) (core.Relation, error) {
		return l.api.LikePost(ctx, l.postID)
	})
	if err != nil {
		return err
	}

	liked, _ := list.Get(l.postID)
	if liked.IsLiked {
		fmt.Printf("liked, %d likes now\n", liked.LikesCount)
	} else {
		fmt.Printf("unliked, %d likes now\n", liked.LikesCount)
	}
	return nil
}

type follower struct {
	Logger   *slog.Logger
	Config   *config.Config
	Identity *identity.Store
	Notifier *notify.Notifier

	userID string

	api *communityapi.Client
}

func (f *follower) Init(context.Context) error {
	f.api = communityapi.NewClient(&communityapi.Config{
		BaseURL: f.Config.APIBaseURL,
		Tokens:  f.Identity,
	})
	return nil
}

func (f *follower) Shutdown(context.Context) error {
	return f.api.Close()
}

func (f *follower) Run(ctx context.Context) error {
	// The server's response carries the authoritative state; the local edge
	// only needs the id for reconciliation to land on.
	list := feed.NewList(core.FollowEdge{UserID: f.userID})
	mutator := mutate.New(list, mutate.Follows(), f.Identity, f.Notifier)

	err := mutator.Toggle(ctx, f.userID, "follow user", func(ctx context.Context) (core.Relation, error) {
		return f.api.FollowUser(ctx, f.userID)
	})
	if err != nil {
		return err
	}

	edge, _ := list.Get(f.userID)
	if edge.IsFollowing {
		fmt.Printf("following, %d followers now\n", edge.FollowersCount)
	} else {
		fmt.Printf("unfollowed, %d followers now\n", edge.FollowersCount)
	}
	return nil
}
