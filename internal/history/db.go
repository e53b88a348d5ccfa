// Package history keeps a local record of items the viewer has seen, for the
// history listing and offline lookups.
package history

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"feedkit/internal/config"
)

var ErrNoDatabaseURL = errors.New("no database URL configured")

type DB struct {
	Config *config.Config

	db *gorm.DB
}

func (d *DB) Init(context.Context) error {
	if d.Config.DatabaseURL == "" {
		return ErrNoDatabaseURL
	}

	gormDB, err := gorm.Open(postgres.Open(d.Config.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}
	d.db = gormDB

	return d.db.AutoMigrate(&SeenItem{})
}

func (d *DB) Model(a any) *gorm.DB {
	return d.db.Model(a)
}

func (d *DB) EstimatedCount(tableName string) (int64, error) {
	var count int64
	return count, d.db.Raw(
		`SELECT reltuples::bigint AS count
				FROM pg_class
				WHERE relname = ?`, tableName,
	).Scan(&count).Error
}

func (d *DB) DB() (*sql.DB, error) {
	return d.db.DB()
}

func (d *DB) Shutdown(context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return nil
	}
	return sqlDB.Close()
}
