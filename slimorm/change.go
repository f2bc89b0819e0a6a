package slimorm

import (
	"context"
	"database/sql"
)

type Operation string

const (
	OperationInsert Operation = "insert"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// ChangeEvent describes one successful write.
type ChangeEvent struct {
	Operation    Operation      `json:"operation"`
	Table        string         `json:"table"`
	Statement    string         `json:"statement"`
	Parameters   map[string]any `json:"parameters"`
	InsertID     int64          `json:"insert_id,omitempty"`
	RowsAffected int64          `json:"rows_affected,omitempty"`
}

func newChangeEvent(operation Operation, table string, statement string, parameters map[string]any, result sql.Result) ChangeEvent {
	event := ChangeEvent{
		Operation:  operation,
		Table:      table,
		Statement:  statement,
		Parameters: parameters,
	}

	if result != nil {
		if affected, err := result.RowsAffected(); err == nil {
			event.RowsAffected = affected
		}
	}

	return event
}

func (db *DB) publishChange(ctx context.Context, event ChangeEvent) error {
	if !db.changes.Enabled() {
		return nil
	}

	if err := db.changes.Publish(ctx, event); err != nil {
		db.logger.WarnContext(ctx, "Change Feed Publish Failed",
			"operation", event.Operation,
			"table", event.Table,
			"error", err,
		)

		return err
	}

	return nil
}
