package database

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
)

type ServiceConfigFunc func(service *Service) error

func WithPostConnectFunc(callback func(db *sql.DB) error) ServiceConfigFunc {
	return func(service *Service) error {
		return callback(service.db.DB)
	}
}

func WithPreRunFunc(preRunFunc func(ctx context.Context, statement string, args []any) error) ServiceConfigFunc {
	return func(service *Service) error {
		service.preRunFuncs = append(service.preRunFuncs, preRunFunc)
		return nil
	}
}

func WithPostRunFunc(postRunFunc func(ctx context.Context) error) ServiceConfigFunc {
	return func(service *Service) error {
		service.postRunFuncs = append(service.postRunFuncs, postRunFunc)
		return nil
	}
}

// WithLogger logs every statement after placeholders were compiled for the
// dialect, so the logged text is what the driver received.
func WithLogger(logger *slog.Logger) ServiceConfigFunc {
	return func(service *Service) error {
		if logger == nil {
			return errors.New("logger is nil")
		}

		driverName := service.driver.driverName()
		service.preRunFuncs = append(service.preRunFuncs, func(ctx context.Context, statement string, args []any) error {
			logger.InfoContext(ctx, "Database Run",
				"driver", driverName,
				"statement", statement,
				"args", args,
			)

			return nil
		})

		return nil
	}
}
