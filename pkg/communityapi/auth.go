package communityapi

import (
	"context"
	"fmt"

	"feedkit/internal/core"
)

const (
	loginPath  = "/auth/login"
	logoutPath = "/auth/logout"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionPayload struct {
	User  core.Author `json:"user"`
	Token string      `json:"token"`
}

func (c *Client) Login(ctx context.Context, creds Credentials) (core.Session, error) {
	if creds.Username == "" || creds.Password == "" {
		return core.Session{}, fmt.Errorf("%w: username and password are required", core.ErrValidation)
	}

	data, err := postJSON[sessionPayload](ctx, c, loginPath, creds)
	if err != nil {
		return core.Session{}, err
	}

	if data.Token == "" || data.User.ID == "" {
		return core.Session{}, fmt.Errorf("%w: malformed session payload", core.ErrServer)
	}

	return core.Session{User: data.User, Token: data.Token}, nil
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := postJSON[struct{}](ctx, c, logoutPath, nil)
	return err
}
