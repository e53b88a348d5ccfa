package config

type Config struct {
	APIBaseURL  string `flag:"api-url"`
	LiveURL     string `flag:"live-url"`
	NATSURL     string `flag:"nats-url"`
	StatePath   string `flag:"state-path"`
	DatabaseURL string `flag:"database-url"`
	MetricsAddr string `flag:"metrics-addr"`

	CommunityID string `flag:"community"`
	Filter      string `flag:"filter"`

	PageLimit int    `flag:"limit"`
	LogLevel  string `flag:"log-level"`
}
