package cmd

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"feedkit/internal/cmd/flags"
	"feedkit/internal/config"
	"feedkit/internal/core"
	"feedkit/internal/kv"
	"feedkit/pkg/clicfg"
)

const VERSION = "0.1.0"

var cmd = &cli.Command{
	Name:    "feedkit",
	Usage:   "feedkit is a command line client for the community platform",
	Version: VERSION,
	Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
		if err := initLogger(c.String("log-level")); err != nil {
			return ctx, err
		}
		return ctx, nil
	},
	Flags: []cli.Flag{
		flags.LogLevel,
	},
	Commands: []*cli.Command{
		loginCmd,
		logoutCmd,
		feedCmd,
		commentsCmd,
		likeCmd,
		followCmd,
		historyCmd,
		watchCmd,
	},
}

func Run() {
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *cli.Command, services ...pal.ServiceDef) error {
	cfg := config.Config{}
	if err := clicfg.ParseFlags(c, &cfg); err != nil {
		return err
	}
	services = append(services, pal.Provide(&cfg))

	return pal.New(services...).
		InjectSlog().
		InitTimeout(5*time.Second).
		HealthCheckTimeout(1*time.Second).
		ShutdownTimeout(10*time.Second).
		Run(ctx, syscall.SIGINT, syscall.SIGTERM)
}

// storageService picks the durable state backend: a JetStream bucket when a
// NATS server is configured, the local state file otherwise.
func storageService(c *cli.Command) pal.ServiceDef {
	if c.String("nats-url") != "" {
		return pal.Provide[core.KeyValueStore](&kv.NATS{})
	}
	return pal.Provide[core.KeyValueStore](&kv.File{})
}
