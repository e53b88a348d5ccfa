package flags

import (
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

var validFilters = []string{"", "latest", "trending", "following"}

var APIURL = &cli.StringFlag{
	Name:    "api-url",
	Aliases: []string{"a"},
	Usage:   "The base URL of the community platform API",
	Value:   "https://api.openwave.community",
	Sources: cli.EnvVars("FEEDKIT_API_URL"),
}

var LiveURL = &cli.StringFlag{
	Name:    "live-url",
	Usage:   "The websocket URL of the live event stream",
	Sources: cli.EnvVars("FEEDKIT_LIVE_URL"),
}

var NATSUrl = &cli.StringFlag{
	Name:    "nats-url",
	Aliases: []string{"n"},
	Usage:   "The URL of the NATS server backing durable client state; a local file is used when empty",
	Sources: cli.EnvVars("NATS_URL"),
}

var StatePath = &cli.StringFlag{
	Name:    "state-path",
	Usage:   "Path of the local state file, defaults to ~/.feedkit/state.json",
	Sources: cli.EnvVars("FEEDKIT_STATE_PATH"),
}

var DatabaseURL = &cli.StringFlag{
	Name:    "database-url",
	Usage:   "Postgres DSN for the local seen-items history",
	Sources: cli.EnvVars("DATABASE_URL"),
}

var MetricsAddr = &cli.StringFlag{
	Name:    "metrics-addr",
	Usage:   "Listen address of the metrics server",
	Value:   ":8090",
	Sources: cli.EnvVars("FEEDKIT_METRICS_ADDR"),
}

var Limit = &cli.IntFlag{
	Name:    "limit",
	Usage:   "Items per page",
	Value:   10,
	Sources: cli.EnvVars("FEEDKIT_PAGE_LIMIT"),
}

var Pages = &cli.IntFlag{
	Name:  "pages",
	Usage: "How many pages to load",
	Value: 1,
}

var Community = &cli.StringFlag{
	Name:    "community",
	Aliases: []string{"c"},
	Usage:   "Scope the feed to one community",
}

var Filter = &cli.StringFlag{
	Name:    "filter",
	Aliases: []string{"f"},
	Usage:   "Feed filter: latest, trending or following",
	Validator: func(value string) error {
		if !slices.Contains(validFilters, value) {
			return fmt.Errorf("invalid filter: %s, allowed values are: latest, trending, following", value)
		}
		return nil
	},
}

var Username = &cli.StringFlag{
	Name:    "username",
	Aliases: []string{"u"},
	Usage:   "Username to sign in with",
	Sources: cli.EnvVars("FEEDKIT_USERNAME"),
}

var Password = &cli.StringFlag{
	Name:    "password",
	Usage:   "Password to sign in with",
	Sources: cli.EnvVars("FEEDKIT_PASSWORD"),
}

var Post = &cli.StringFlag{
	Name:     "post",
	Usage:    "Post id",
	Required: true,
}

var User = &cli.StringFlag{
	Name:     "user",
	Usage:    "User id",
	Required: true,
}

var LogLevel = &cli.StringFlag{
	Name:    "log-level",
	Aliases: []string{"l"},
	Usage:   "The level of the logs",
	Value:   "info",
	Validator: func(value string) error {
		if !slices.Contains(validLogLevels, value) {
			return fmt.Errorf("invalid log level: %s, allowed values are: %s", value, validLogLevels)
		}
		return nil
	},
	Sources: cli.EnvVars("LOG_LEVEL"),
}
