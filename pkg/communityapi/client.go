package communityapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"resty.dev/v3"

	"feedkit/internal/core"
)

// TokenSource supplies the viewer's bearer token, if any. The identity store
// implements it; anonymous clients pass nil.
type TokenSource interface {
	Token() (string, bool)
}

// Client is a typed wrapper over the community platform's REST API. Every
// response arrives in the same envelope: {success, data, error}. Payloads are
// validated at this boundary so nothing loosely-typed leaks inward.
type Client struct {
	client  *resty.Client
	baseURL string
	tokens  TokenSource
}

func NewClient(cfg *Config) *Client {
	if cfg == nil {
		cfg = &Config{}
	}

	transport := cfg.TransportSettings
	if transport == nil {
		transport = DefaultTransportSettings
	}

	client := resty.NewWithTransportSettings(transport)

	for _, m := range cfg.RequestMiddlewares {
		client.AddRequestMiddleware(m)
	}
	for _, m := range cfg.ResponseMiddlewares {
		client.AddResponseMiddleware(m)
	}
	client.AddResponseMiddleware(observeLatency)

	return &Client{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		tokens:  cfg.Tokens,
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) r(ctx context.Context) *resty.Request {
	req := c.client.R().WithContext(ctx)
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.SetAuthToken(token)
		}
	}
	return req
}

type envelope[T any] struct {
	Success bool      `json:"success"`
	Data    T         `json:"data"`
	Error   *apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorEnvelope is what non-2xx responses carry; data is ignored.
type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   *apiError `json:"error"`
}

func getJSON[T any](ctx context.Context, c *Client, path string, query map[string]string) (T, error) {
	var zero T

	res, err := c.r(ctx).
		SetQueryParams(query).
		SetResult(&envelope[T]{}).
		SetError(&errorEnvelope{}).
		Get(c.baseURL + path)
	if err != nil {
		return zero, fmt.Errorf("%w: %s", core.ErrNetwork, err)
	}

	return unwrap[T](res)
}

func postJSON[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	var zero T

	req := c.r(ctx).
		SetResult(&envelope[T]{}).
		SetError(&errorEnvelope{})

	if body != nil {
		req.SetBody(body)
		req.SetHeader("Idempotency-Key", newIdempotencyKey())
	}

	res, err := req.Post(c.baseURL + path)
	if err != nil {
		return zero, fmt.Errorf("%w: %s", core.ErrNetwork, err)
	}

	return unwrap[T](res)
}

func unwrap[T any](res *resty.Response) (T, error) {
	var zero T

	if res.IsError() {
		return zero, statusError(res)
	}

	env, ok := res.Result().(*envelope[T])
	if !ok {
		return zero, fmt.Errorf("%w: unexpected response shape", core.ErrServer)
	}
	if !env.Success {
		if env.Error != nil {
			return zero, fmt.Errorf("%w: %s", core.ErrServer, env.Error.Message)
		}
		return zero, fmt.Errorf("%w: request not successful", core.ErrServer)
	}

	return env.Data, nil
}

func statusError(res *resty.Response) error {
	message := http.StatusText(res.StatusCode())
	if env, ok := res.Error().(*errorEnvelope); ok && env != nil && env.Error != nil && env.Error.Message != "" {
		message = env.Error.Message
	}

	var kind error
	switch code := res.StatusCode(); {
	case code == http.StatusUnauthorized:
		kind = core.ErrAuthRequired
	case code == http.StatusForbidden:
		kind = core.ErrForbidden
	case code == http.StatusNotFound:
		kind = core.ErrNotFound
	case code == http.StatusTooManyRequests:
		kind = core.ErrRateLimited
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		kind = core.ErrValidation
	default:
		kind = core.ErrServer
	}

	return fmt.Errorf("%w: %s", kind, message)
}

func clamp(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
