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
	"feedkit/internal/notify"
	"feedkit/pkg/communityapi"
)

var feedCmd = &cli.Command{
	Name:  "feed",
	Usage: "Read the post feed, one page at a time",
	Flags: []cli.Flag{
		flags.APIURL,
		flags.NATSUrl,
		flags.StatePath,
		flags.Community,
		flags.Filter,
		flags.Limit,
		flags.Pages,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c,
			storageService(c),
			pal.Provide(&identity.Store{}),
			pal.Provide(&notify.Notifier{}),
			pal.Provide(&feedReader{
				pages: int(c.Int("pages")),
			}),
		)
	},
}

type feedReader struct {
	Logger   *slog.Logger
	Config   *config.Config
	Identity *identity.Store
	Notifier *notify.Notifier

	pages int

	api *communityapi.Client
}

func (f *feedReader) Init(context.Context) error {
	f.api = communityapi.NewClient(&communityapi.Config{
		BaseURL: f.Config.APIBaseURL,
		Tokens:  f.Identity,
	})
	return nil
}

func (f *feedReader) Shutdown(context.Context) error {
	return f.api.Close()
}

func (f *feedReader) Run(ctx context.Context) error {
	community := f.Config.CommunityID
	pager := feed.NewPager(func(ctx context.Context, cursor string, limit int, filter core.FeedFilter) (core.Page[core.Post], error) {
		return f.api.ListFeed(ctx, communityapi.PageQuery{
			Cursor:      cursor,
			Limit:       limit,
			Filter:      filter,
			CommunityID: community,
		})
	}, feed.PagerConfig{
		Limit:    f.Config.PageLimit,
		Filter:   core.FeedFilter(f.Config.Filter),
		Notifier: f.Notifier,
		Action:   "load feed",
	})

	if err := pager.LoadFirst(ctx); err != nil {
		return err
	}
	printPosts(pager.Items())

	for page := 1; page < f.pages && pager.HasMore(); page++ {
		before := pager.List().Len()
		if err := pager.LoadNext(ctx); err != nil {
			return err
		}
		printPosts(pager.Items()[before:])
	}

	if total := pager.Total(); total > int64(pager.List().Len()) {
		fmt.Printf("… %d more posts\n", total-int64(pager.List().Len()))
	}

	return nil
}

func printPosts(posts []core.Post) {
	for _, post := range posts {
		fmt.Printf("%s  @%s  [likes %d] [comments %d]\n", post.ID, post.Author.Username, post.LikesCount, post.CommentsCount)
		fmt.Printf("    %s\n", post.Content)
	}
}
