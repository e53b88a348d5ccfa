// Package identity holds the signed-in viewer's session: the only piece of
// state shared across views. It rehydrates from durable storage during Init,
// before any network activity, and purges storage on logout.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"feedkit/internal/core"
	"feedkit/internal/kv"
)

// sessionKey is the single namespaced root key everything persisted lives
// under.
const sessionKey = "feedkit.session"

type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
)

var ErrBadTransition = errors.New("invalid identity state transition")

type Store struct {
	Logger *slog.Logger
	KV     core.KeyValueStore

	mu      sync.RWMutex
	state   State
	session core.Session
}

// persistedSession is the serialization boundary: only plain serializable
// fields cross into storage.
type persistedSession struct {
	User  persistedUser `json:"user"`
	Token string        `json:"token"`
}

type persistedUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (s *Store) Init(ctx context.Context) error {
	s.Logger = s.Logger.With("component", "identity.Store")
	s.state = StateAnonymous

	raw, err := s.KV.Get(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil
		}
		return err
	}

	var persisted persistedSession
	if err := json.Unmarshal(raw, &persisted); err != nil {
		// A corrupt session is dropped, not fatal: the viewer signs in again.
		s.Logger.Warn("dropping unreadable persisted session", "error", err)
		return s.KV.Delete(ctx, sessionKey)
	}

	if persisted.Token == "" || persisted.User.ID == "" {
		return s.KV.Delete(ctx, sessionKey)
	}

	s.session = core.Session{
		User: core.Author{
			ID:       persisted.User.ID,
			Username: persisted.User.Username,
		},
		Token: persisted.Token,
	}
	s.state = StateAuthenticated
	s.Logger.Debug("session rehydrated", "user", persisted.User.Username)

	return nil
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Current returns the session when authenticated.
func (s *Store) Current() (core.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != StateAuthenticated {
		return core.Session{}, false
	}
	return s.session, true
}

// Token implements the API client's token source.
func (s *Store) Token() (string, bool) {
	session, ok := s.Current()
	if !ok {
		return "", false
	}
	return session.Token, true
}

// RequireAuthenticated gates mutations: anything that writes checks here
// before issuing a network call.
func (s *Store) RequireAuthenticated() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != StateAuthenticated {
		return core.ErrAuthRequired
	}
	return nil
}

func (s *Store) BeginLogin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAnonymous {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, s.state, StateAuthenticating)
	}
	s.state = StateAuthenticating
	return nil
}

// CompleteLogin persists the session and enters the authenticated state. If
// persistence fails the store falls back to anonymous so that state and
// storage never disagree.
func (s *Store) CompleteLogin(ctx context.Context, session core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAuthenticating {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, s.state, StateAuthenticated)
	}

	raw, err := json.Marshal(persistedSession{
		User: persistedUser{
			ID:       session.User.ID,
			Username: session.User.Username,
		},
		Token: session.Token,
	})
	if err != nil {
		s.state = StateAnonymous
		return err
	}

	if err := s.KV.Put(ctx, sessionKey, raw); err != nil {
		s.state = StateAnonymous
		return err
	}

	s.session = session
	s.state = StateAuthenticated
	return nil
}

// FailLogin returns to anonymous after an unsuccessful login attempt.
func (s *Store) FailLogin() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateAuthenticating {
		s.state = StateAnonymous
	}
}

// Logout purges the persisted session and returns to anonymous. Purging
// happens even if the store was already anonymous.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateAnonymous
	s.session = core.Session{}

	return s.KV.Delete(ctx, sessionKey)
}
