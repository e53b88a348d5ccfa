package kv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	libnats "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"feedkit/internal/config"
)

const bucketName = "feedkit"

// NATS keeps client state in a JetStream key-value bucket, shared between
// devices signed into the same account.
type NATS struct {
	Logger *slog.Logger
	Config *config.Config

	js jetstream.JetStream
	kv jetstream.KeyValue
}

func (n *NATS) Init(ctx context.Context) error {
	n.Logger = n.Logger.With("component", "kv.NATS")

	nc, err := libnats.Connect(n.Config.NATSURL)
	if err != nil {
		return err
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return err
	}
	n.js = js

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket: bucketName,
	})
	if err != nil {
		return err
	}
	n.kv = kv

	return nil
}

func (n *NATS) HealthCheck(context.Context) error {
	_, err := n.js.Conn().RTT()
	return err
}

func (n *NATS) Shutdown(context.Context) error {
	return n.js.Conn().Drain()
}

func (n *NATS) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := n.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, err
	}
	return entry.Value(), nil
}

func (n *NATS) Put(ctx context.Context, key string, value []byte) error {
	_, err := n.kv.Put(ctx, key, value)
	if err != nil {
		return fmt.Errorf("failed to store key %s: %w", key, err)
	}
	return nil
}

func (n *NATS) Delete(ctx context.Context, key string) error {
	err := n.kv.Delete(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil
	}
	return err
}
