package slimorm

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/lunagic/slimorm/slimorm/internal/sqltext"
	"github.com/lunagic/slimorm/slimormservices/cache"
)

func (b *Builder[T]) engine() (Engine, error) {
	if b.err != nil {
		return nil, b.err
	}

	if !b.db.connected() {
		return nil, ErrUninitializedConnection
	}

	return b.db.engine, nil
}

func (b *Builder[T]) parameters() map[string]any {
	if len(b.bindings) == 0 {
		return nil
	}

	return b.Bindings()
}

func (b *Builder[T]) rows(ctx context.Context) ([]Row, error) {
	engine, err := b.engine()
	if err != nil {
		return nil, err
	}

	results, err := engine.Select(ctx, b.RenderSelect(), b.parameters())
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(results))
	for _, result := range results {
		rows = append(rows, Row(result))
	}

	return rows, nil
}

// Get runs the SELECT and maps every row.
func (b *Builder[T]) Get(ctx context.Context) ([]T, error) {
	rows, err := b.rows(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, len(rows))
	for _, row := range rows {
		item, err := b.mapper(row)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}

// First limits the query to one row and returns it, or the zero T (nil for
// Row and *Record) when nothing matched.
func (b *Builder[T]) First(ctx context.Context) (T, error) {
	var zero T

	items, err := b.Limit(1).Get(ctx)
	if err != nil {
		return zero, err
	}

	if len(items) == 0 {
		return zero, nil
	}

	return items[0], nil
}

// Count replaces the selection with COUNT(*), drops the ordering and
// returns the count, 0 when no row comes back.
func (b *Builder[T]) Count(ctx context.Context) (int64, error) {
	b.selects = []string{"COUNT(*) AS " + b.quoter.Identifier("count_aggregate")}
	b.orders = nil

	engine, err := b.engine()
	if err != nil {
		return 0, err
	}

	query := b.RenderSelect()
	parameters := b.parameters()

	cacheKey, cacheable := b.db.countCacheKey(query, parameters)
	if cacheable {
		count, err := b.db.countCache.Get(ctx, cacheKey)
		if err == nil {
			return count, nil
		}

		if !errors.Is(err, cache.ErrNotFound) {
			b.db.logger.WarnContext(ctx, "Count Cache Read Failed", "error", err)
		}
	}

	results, err := engine.Select(ctx, query, parameters)
	if err != nil {
		return 0, err
	}

	if len(results) == 0 {
		return 0, nil
	}

	count, err := toInt64(results[0]["count_aggregate"])
	if err != nil {
		return 0, err
	}

	if cacheable {
		if err := b.db.countCache.Set(ctx, cacheKey, count, b.db.countCacheTTL); err != nil {
			b.db.logger.WarnContext(ctx, "Count Cache Write Failed", "error", err)
		}
	}

	return count, nil
}

// Max returns the largest value of column, nil when there is none.
func (b *Builder[T]) Max(ctx context.Context, column string) (any, error) {
	return b.aggregate(ctx, "MAX", column, "max_aggregate")
}

// Min returns the smallest value of column, nil when there is none.
func (b *Builder[T]) Min(ctx context.Context, column string) (any, error) {
	return b.aggregate(ctx, "MIN", column, "min_aggregate")
}

func (b *Builder[T]) aggregate(ctx context.Context, function string, column string, alias string) (any, error) {
	b.selects = []string{fmt.Sprintf(
		"%s(%s) AS %s",
		function,
		b.quoter.Identifier(column),
		b.quoter.Identifier(alias),
	)}
	b.orders = nil

	rows, err := b.rows(ctx)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return rows[0][alias], nil
}

// Insert runs an INSERT of data and returns the id the database assigned.
func (b *Builder[T]) Insert(ctx context.Context, data *Data) (int64, error) {
	engine, err := b.engine()
	if err != nil {
		return 0, err
	}

	query := b.RenderInsert(data)
	parameters := data.Map()

	id, err := engine.Insert(ctx, query, parameters, b.identityColumn)
	if err != nil {
		return 0, err
	}

	event := newChangeEvent(OperationInsert, b.tableName(), query, parameters, nil)
	event.InsertID = id
	event.RowsAffected = 1

	return id, b.db.publishChange(ctx, event)
}

// Update sets data on every matching row. Without a WHERE clause it fails
// with ErrPrecondition unless WithoutWhereGuard was called.
func (b *Builder[T]) Update(ctx context.Context, data *Data) (sql.Result, error) {
	engine, err := b.engine()
	if err != nil {
		return nil, err
	}

	if b.whereMandatory && strings.TrimSpace(b.where) == "" {
		return nil, errWhereMandatory
	}

	query := b.RenderUpdate(data)

	// WHERE bindings win over a SET column of the same name
	parameters := data.Map()
	maps.Copy(parameters, b.bindings)

	result, err := engine.Execute(ctx, query, parameters)
	if err != nil {
		return nil, err
	}

	return result, b.db.publishChange(ctx, newChangeEvent(OperationUpdate, b.tableName(), query, parameters, result))
}

// Delete removes every matching row. There is no WHERE guard.
func (b *Builder[T]) Delete(ctx context.Context) (sql.Result, error) {
	engine, err := b.engine()
	if err != nil {
		return nil, err
	}

	query := b.RenderDelete()
	parameters := b.parameters()

	result, err := engine.Execute(ctx, query, parameters)
	if err != nil {
		return nil, err
	}

	return result, b.db.publishChange(ctx, newChangeEvent(OperationDelete, b.tableName(), query, parameters, result))
}

func (b *Builder[T]) tableName() string {
	return sqltext.StripQuotes(b.tableList())
}

func (db *DB) countCacheKey(query string, parameters map[string]any) (uint64, bool) {
	if db.countCache == nil {
		return 0, false
	}

	encodedParameters, err := json.Marshal(parameters)
	if err != nil {
		return 0, false
	}

	return xxhash.Sum64String(query + "\x00" + string(encodedParameters)), true
}

func toInt64(value any) (int64, error) {
	switch typed := value.(type) {
	case nil:
		return 0, nil
	case int64:
		return typed, nil
	case int:
		return int64(typed), nil
	case int32:
		return int64(typed), nil
	case uint64:
		return int64(typed), nil
	case float64:
		return int64(typed), nil
	case []byte:
		return strconv.ParseInt(string(typed), 10, 64)
	case string:
		return strconv.ParseInt(typed, 10, 64)
	}

	return 0, fmt.Errorf("unexpected aggregate type %T", value)
}
