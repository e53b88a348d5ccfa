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
	"feedkit/internal/history"
)

var historyCmd = &cli.Command{
	Name:  "history",
	Usage: "List recently seen items from the local history database",
	Flags: []cli.Flag{
		flags.DatabaseURL,
		flags.Limit,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c,
			pal.Provide[core.DB](&history.DB{}),
			pal.Provide(&history.Recorder{}),
			pal.Provide(&historyReader{}),
		)
	},
}

type historyReader struct {
	Logger   *slog.Logger
	Config   *config.Config
	Recorder *history.Recorder
}

func (h *historyReader) Run(ctx context.Context) error {
	items, err := h.Recorder.Recent(ctx, h.Config.PageLimit)
	if err != nil {
		return err
	}

	for _, item := range items {
		fmt.Printf("%s  %s  @%s  %s\n", item.SeenAt.Format("2006-01-02 15:04"), item.Kind, item.AuthorUsername, item.Content)
	}
	return nil
}
