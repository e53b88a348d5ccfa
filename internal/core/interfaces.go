package core

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// KeyValueStore is durable client-side state: the persisted session lives
// here. Implementations: NATS JetStream KV, local file.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Notifier fans user-facing notices out to whoever renders them.
type Notifier interface {
	Info(action, message string)
	Error(action, message string)
}

type DB interface {
	Model(a any) *gorm.DB
	EstimatedCount(tableName string) (int64, error)
	DB() (*sql.DB, error)
}
