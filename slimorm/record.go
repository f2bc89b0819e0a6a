package slimorm

import (
	"context"
	"database/sql"
	"encoding/json"
)

// Record is one row of a Model. A record remembers the primary key it was
// loaded with, so Save keeps updating the same row even after the key
// column is changed.
type Record struct {
	model    *Model
	data     *Data
	identity any
}

// Get returns nil for columns that were never set.
func (record *Record) Get(column string) any {
	value, _ := record.data.Get(column)
	return value
}

func (record *Record) Set(column string, value any) *Record {
	record.data.Set(column, value)
	return record
}

func (record *Record) Has(column string) bool {
	return record.data.Has(column)
}

func (record *Record) Remove(column string) *Record {
	record.data.Remove(column)
	return record
}

// Identity is the primary key the record was loaded or saved with, nil for
// records that were never saved.
func (record *Record) Identity() any {
	return record.identity
}

func (record *Record) ToMap() map[string]any {
	return record.data.Map()
}

func (record *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(record.data.Map())
}

// Save updates the row the record was loaded from, or inserts a new one and
// stores the generated key. When the write succeeds but publishing the
// change fails, the record is still marked saved and the error returned.
func (record *Record) Save(ctx context.Context) error {
	primaryKey := record.model.primaryKey

	if record.identity != nil {
		result, err := record.model.Where(primaryKey, "=", record.identity).Update(ctx, record.data)
		if result == nil {
			return err
		}

		if identity, found := record.data.Get(primaryKey); found && identity != nil {
			record.identity = identity
		}

		return err
	}

	// A change feed error still comes with the id of the inserted row.
	id, err := record.model.Insert(ctx, record.data)
	if err != nil && id == 0 {
		return err
	}

	record.data.Set(primaryKey, id)
	record.identity = id

	return err
}

// Delete removes the row the record was loaded from.
func (record *Record) Delete(ctx context.Context) (sql.Result, error) {
	if record.identity == nil {
		return nil, ErrPrimaryKeyMissing
	}

	return record.model.Where(record.model.primaryKey, "=", record.identity).Delete(ctx)
}
