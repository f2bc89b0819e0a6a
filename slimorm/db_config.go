package slimorm

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/lunagic/slimorm/slimormservices/cache"
	"github.com/lunagic/slimorm/slimormservices/queue"
)

type ConfigFunc func(db *DB) error

func WithLogger(logger *slog.Logger) ConfigFunc {
	return func(db *DB) error {
		if logger == nil {
			return errors.New("logger is nil")
		}

		db.logger = logger

		return nil
	}
}

// WithCountCache remembers Count results for ttl. Writes do not invalidate
// cached counts; they expire.
func WithCountCache(driver cache.Driver, ttl time.Duration) ConfigFunc {
	return func(db *DB) error {
		if driver == nil {
			return errors.New("count cache driver is nil")
		}

		db.countCache = cache.NewRepository[uint64, int64](driver, "slimorm-count")
		db.countCacheTTL = ttl

		return nil
	}
}

// WithChangeFeed publishes a ChangeEvent after every successful insert,
// update and delete.
func WithChangeFeed(changes queue.Queue[ChangeEvent]) ConfigFunc {
	return func(db *DB) error {
		if !changes.Enabled() {
			return errors.New("change feed queue was not created with queue.NewQueue")
		}

		db.changes = changes

		return nil
	}
}

// withClosers hands connections to the DB so Close releases them.
func withClosers(closers ...io.Closer) ConfigFunc {
	return func(db *DB) error {
		db.closers = append(db.closers, closers...)
		return nil
	}
}
