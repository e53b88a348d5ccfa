package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"
	"github.com/zhulik/pips"
	"github.com/zhulik/pips/apply"

	"feedkit/internal/cmd/flags"
	"feedkit/internal/config"
	"feedkit/internal/core"
	"feedkit/internal/history"
	"feedkit/internal/identity"
	"feedkit/internal/live"
	"feedkit/internal/metrics"
	"feedkit/internal/notify"
)

var watchCmd = &cli.Command{
	Name:  "watch",
	Usage: "Follow the live event stream, surface notifications, serve metrics",
	Flags: []cli.Flag{
		flags.APIURL,
		flags.LiveURL,
		flags.NATSUrl,
		flags.StatePath,
		flags.DatabaseURL,
		flags.MetricsAddr,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		services := []pal.ServiceDef{
			storageService(c),
			pal.Provide(&identity.Store{}),
			pal.Provide(&notify.Notifier{}),
			pal.Provide(&live.Subscriber{}),
			pal.Provide(&metrics.HTTPServer{}),
			pal.Provide(&watcher{recording: c.String("database-url") != ""}),
		}

		if c.String("database-url") != "" {
			services = append(services,
				pal.Provide[core.DB](&history.DB{}),
				pal.Provide(&history.Recorder{}),
				pal.Provide(&metrics.Collector{}),
			)
		}

		return run(ctx, c, services...)
	},
}

type watcher struct {
	Logger   *slog.Logger
	Config   *config.Config
	Notifier *notify.Notifier
	Live     *live.Subscriber

	recording bool
	recorder  *history.Recorder
}

func (w *watcher) Init(ctx context.Context) error {
	w.Logger = w.Logger.With("component", "cmd.watcher")

	if w.recording {
		recorder, err := pal.Build[history.Recorder](ctx, pal.FromContext(ctx))
		if err != nil {
			return err
		}
		w.recorder = recorder
	}

	return nil
}

func (w *watcher) Run(ctx context.Context) error {
	notices := w.Notifier.Subscribe(64)
	go func() {
		for notice := range notices {
			fmt.Printf("[%s] %s: %s\n", notice.Level, notice.Action, notice.Message)
		}
	}()

	return pips.New[*core.LiveEvent, any]().
		Then(apply.Each(w.surface)).
		Then(apply.Map(func(ctx context.Context, event *core.LiveEvent) (any, error) {
			if w.recorder != nil && event.Kind == core.LiveEventPost && event.Post != nil {
				return nil, w.recorder.RecordPosts(ctx, *event.Post)
			}
			return nil, nil
		})).
		Run(ctx, w.Live.C()).
		Wait(ctx)
}

func (w *watcher) surface(_ context.Context, event *core.LiveEvent) error {
	switch event.Kind {
	case core.LiveEventPost:
		if event.Post != nil {
			w.Notifier.Info("new post", fmt.Sprintf("@%s posted: %s", event.Post.Author.Username, event.Post.Content))
		}
	case core.LiveEventComment:
		if event.Comment != nil {
			w.Notifier.Info("new reply", fmt.Sprintf("@%s replied: %s", event.Comment.Author.Username, event.Comment.Content))
		}
	case core.LiveEventNotification:
		w.Notifier.Info("notification", event.Message)
	default:
		w.Logger.Debug("ignoring live event", "kind", event.Kind)
	}
	return nil
}
