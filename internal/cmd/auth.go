package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
	"github.com/zhulik/pal"

	"feedkit/internal/cmd/flags"
	"feedkit/internal/config"
	"feedkit/internal/identity"
	"feedkit/pkg/communityapi"
)

var loginCmd = &cli.Command{
	Name:  "login",
	Usage: "Sign in to the community platform and persist the session",
	Flags: []cli.Flag{
		flags.APIURL,
		flags.NATSUrl,
		flags.StatePath,
		flags.Username,
		flags.Password,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c,
			storageService(c),
			pal.Provide(&identity.Store{}),
			pal.Provide(&login{
				username: c.String("username"),
				password: c.String("password"),
			}),
		)
	},
}

var logoutCmd = &cli.Command{
	Name:  "logout",
	Usage: "Sign out and purge the persisted session",
	Flags: []cli.Flag{
		flags.APIURL,
		flags.NATSUrl,
		flags.StatePath,
	},
	Action: func(ctx context.Context, c *cli.Command) error {
		return run(ctx, c,
			storageService(c),
			pal.Provide(&identity.Store{}),
			pal.Provide(&logout{}),
		)
	},
}

type login struct {
	Logger   *slog.Logger
	Config   *config.Config
	Identity *identity.Store

	username string
	password string

	api *communityapi.Client
}

func (l *login) Init(context.Context) error {
	l.api = communityapi.NewClient(&communityapi.Config{BaseURL: l.Config.APIBaseURL})
	return nil
}

func (l *login) Shutdown(context.Context) error {
	return l.api.Close()
}

func (l *login) Run(ctx context.Context) error {
	if session, ok := l.Identity.Current(); ok {
		fmt.Printf("already signed in as %s\n", session.User.Username)
		return nil
	}

	if err := l.Identity.BeginLogin(); err != nil {
		return err
	}

	session, err := l.api.Login(ctx, communityapi.Credentials{
		Username: l.username,
		Password: l.password,
	})
	if err != nil {
		l.Identity.FailLogin()
		return err
	}

	if err := l.Identity.CompleteLogin(ctx, session); err != nil {
		return err
	}

	fmt.Printf("signed in as %s\n", session.User.Username)
	return nil
}

type logout struct {
	Logger   *slog.Logger
	Config   *config.Config
	Identity *identity.Store

	api *communityapi.Client
}

func (l *logout) Init(context.Context) error {
	l.api = communityapi.NewClient(&communityapi.Config{
		BaseURL: l.Config.APIBaseURL,
		Tokens:  l.Identity,
	})
	return nil
}

func (l *logout) Shutdown(context.Context) error {
	return l.api.Close()
}

func (l *logout) Run(ctx context.Context) error {
	// Best effort on the server side; the local session is purged regardless.
	if _, ok := l.Identity.Current(); ok {
		if err := l.api.Logout(ctx); err != nil {
			l.Logger.Warn("server-side logout failed", "error", err)
		}
	}

	if err := l.Identity.Logout(ctx); err != nil {
		return err
	}

	fmt.Println("signed out")
	return nil
}
