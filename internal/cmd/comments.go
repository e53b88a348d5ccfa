package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"feedkit/internal/cmd/flags"
	"feedkit/internal/config"
	"feedkit/internal/core"
	"feedkit/internal/feed"
	"feedkit/internal/identity"
	"feedkit/internal/notify"
	"feedkit/internal/thread"
	"feedkit/pkg/communityapi"
)

var commentsCmd = &cli.Command{
	Name:  "comments",
	Usage: "Read a post's comment thread, expanding nested replies",
	Flags: []cli.Flag{
		flags.APIURL,
		flags.NATSUrl,
		flags.StatePath,
		flags.Post,
		flags.Limit,
		flags.Pages,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c,
			storageService(c),
			pal.Provide(&identity.Store{}),
			pal.Provide(&notify.Notifier{}),
			pal.Provide(&commentsReader{
				postID: c.String("post"),
				pages:  int(c.Int("pages")),
			}),
		)
	},
}

type commentsReader struct {
	Logger   *slog.Logger
	Config   *config.Config
	Identity *identity.Store
	Notifier *notify.Notifier

	postID string
	pages  int

	api *communityapi.Client
}

func (r *commentsReader) Init(context.Context) error {
	r.api = communityapi.NewClient(&communityapi.Config{
		BaseURL: r.Config.APIBaseURL,
		Tokens:  r.Identity,
	})
	return nil
}

func (r *commentsReader) Shutdown(context.Context) error {
	return r.api.Close()
}

func (r *commentsReader) Run(ctx context.Context) error {
	pager := feed.NewPager(func(ctx context.Context, cursor string, limit int, _ core.FeedFilter) (core.Page[core.Comment], error) {
		return r.api.ListComments(ctx, r.postID, communityapi.PageQuery{
			Cursor: cursor,
			Limit:  limit,
		})
	}, feed.PagerConfig{
		Limit:    r.Config.PageLimit,
		Notifier: r.Notifier,
		Action:   "load comments",
	})

	expander := thread.NewExpander(r.api.ListReplies, pager.List(), r.Notifier)

	if err := pager.LoadFirst(ctx); err != nil {
		return err
	}
	for page := 1; page < r.pages && pager.HasMore(); page++ {
		if err := pager.LoadNext(ctx); err != nil {
			return err
		}
	}

	for _, comment := range pager.Items() {
		if err := r.printThread(ctx, expander, comment, 0); err != nil {
			return err
		}
	}

	return nil
}

// printThread renders a comment and, within the nesting cap, its expanded
// replies. Below the cap only the flat hidden-replies count is shown.
func (r *commentsReader) printThread(ctx context.Context, expander *thread.Expander, comment core.Comment, depth int) error {
	indent := strings.Repeat("    ", depth)
	fmt.Printf("%s@%s  [likes %d]\n", indent, comment.Author.Username, comment.LikesCount)
	fmt.Printf("%s%s\n", indent, comment.Content)

	if comment.RepliesCount == 0 {
		return nil
	}

	if !expander.Expandable(depth + 1) {
		fmt.Printf("%s… %d more replies\n", indent, comment.RepliesCount)
		return nil
	}

	replies, err := expander.Expand(ctx, comment.ID)
	if err != nil {
		return err
	}

	for _, reply := range replies {
		if err := r.printThread(ctx, expander, reply, depth+1); err != nil {
			return err
		}
	}

	if hidden := expander.HiddenCount(comment); hidden > 0 {
		fmt.Printf("%s… %d more replies\n", indent, hidden)
	}

	return nil
}
