// Package live subscribes to the platform's push stream over a websocket:
// new posts, new replies and notifications for the signed-in viewer.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/zhulik/pips"

	"feedkit/internal/config"
	"feedkit/internal/core"
	"feedkit/internal/identity"
	"feedkit/pkg/retry"
)

type Subscriber struct {
	Logger   *slog.Logger
	Config   *config.Config
	Identity *identity.Store

	ch chan pips.D[*core.LiveEvent]

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
}

func (s *Subscriber) Init(context.Context) error {
	s.Logger = s.Logger.With("component", "live.Subscriber")
	s.ch = make(chan pips.D[*core.LiveEvent])
	return nil
}

func (s *Subscriber) HealthCheck(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return errors.New("live stream not connected")
	}
	return nil
}

func (s *Subscriber) Shutdown(context.Context) error {
	defer close(s.ch)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// C is the stream of decoded events; consumed through a pipeline.
func (s *Subscriber) C() <-chan pips.D[*core.LiveEvent] {
	return s.ch
}

// Run connects and reads until the context is canceled, reconnecting with a
// short delay when the connection drops.
func (s *Subscriber) Run(ctx context.Context) error {
	if s.Config.LiveURL == "" {
		<-ctx.Done()
		return nil
	}

	err := retry.WrapWithRetry(func() error {
		return s.readLoop(ctx)
	}, func(err error, _ int) bool {
		if ctx.Err() != nil {
			return false
		}
		s.Logger.Warn("live stream dropped, reconnecting", "error", err)
		return true
	}, time.Second)()

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Subscriber) readLoop(ctx context.Context) error {
	header := http.Header{}
	if token, ok := s.Identity.Token(); ok {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.Config.LiveURL, header)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.conn = conn
	s.connected = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.connected = false
		s.conn = nil
		s.mu.Unlock()
		conn.Close()
	}()

	s.Logger.Info("subscribed to the live stream", "url", s.Config.LiveURL)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		event := &core.LiveEvent{}
		if err := json.Unmarshal(raw, event); err != nil {
			s.Logger.Warn("dropping undecodable live event", "error", err)
			continue
		}

		select {
		case s.ch <- pips.NewD(event):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
