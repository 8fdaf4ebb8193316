package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yeremiapane/food-order-app/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound dikembalikan saat key dokumen belum ada atau sudah expired.
var ErrNotFound = errors.New("document not found")

// Backend is the external key-value service holding the shared document and the
// bounded event list. Implementations never interpret the payloads.
type Backend interface {
	ReadDocument(ctx context.Context, key string) ([]byte, error)
	// WriteDocument overwrites unconditionally; ttl <= 0 means no expiry.
	WriteDocument(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// PushEvent prepends payload, keeps the newest limit entries and refreshes ttl.
	PushEvent(ctx context.Context, stream string, payload []byte, limit int, ttl time.Duration) error
	// PopEvents returns up to max live entries, newest first, and clears the stream.
	PopEvents(ctx context.Context, stream string, max int, ttl time.Duration) ([][]byte, error)
	Close() error
}

// Open memilih backend sesuai STORE_DRIVER.
func Open(cfg *config.Config) (Backend, error) {
	if cfg.StoreDriver == "redis" {
		return NewRedisBackend(cfg.RedisURL)
	}

	var dialector gorm.Dialector
	switch cfg.StoreDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.StoreDSN)
	case "mysql":
		dialector = mysql.Open(cfg.StoreDSN)
	case "postgres":
		dialector = postgres.Open(cfg.StoreDSN)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.StoreDriver, err)
	}
	return NewSQLBackend(db)
}
