package communityapi

import (
	"time"

	"resty.dev/v3"
)

type Config struct {
	// BaseURL is the root of the platform API, e.g. https://api.example.com.
	BaseURL string

	// Tokens supplies the bearer token for authenticated requests. May be nil.
	Tokens TokenSource

	TransportSettings *resty.TransportSettings

	RequestMiddlewares  []resty.RequestMiddleware
	ResponseMiddlewares []resty.ResponseMiddleware
}

var DefaultTransportSettings = &resty.TransportSettings{
	DialerTimeout:         5 * time.Second,
	DialerKeepAlive:       5 * time.Second,
	IdleConnTimeout:       30 * time.Second,
	TLSHandshakeTimeout:   5 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ResponseHeaderTimeout: 10 * time.Second,
}
