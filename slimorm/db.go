package slimorm

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/lunagic/slimorm/slimorm/internal/sqltext"
	"github.com/lunagic/slimorm/slimormservices/cache"
	"github.com/lunagic/slimorm/slimormservices/database"
	"github.com/lunagic/slimorm/slimormservices/queue"
)

// Engine runs rendered statements. Parameters are keyed by placeholder name
// without the leading colon; a nil map means the statement has none.
type Engine interface {
	Select(ctx context.Context, query string, parameters map[string]any) ([]map[string]any, error)
	Execute(ctx context.Context, query string, parameters map[string]any) (sql.Result, error)
	Insert(ctx context.Context, query string, parameters map[string]any, identityColumn string) (int64, error)
	IdentifierQuote() string
}

var _ Engine = (*database.Service)(nil)

// DB is the connection context every builder is created from. Its query
// methods only start a chain; results are fetched through a Model or by
// finishing the chain on the returned builder.
//
// A nil *DB still builds queries, but every terminal operation fails with
// ErrUninitializedConnection.
type DB struct {
	engine        Engine
	logger        *slog.Logger
	countCache    *cache.Repository[uint64, int64]
	countCacheTTL time.Duration
	changes       queue.Queue[ChangeEvent]
	closers       []io.Closer
}

func New(engine Engine, configFuncs ...ConfigFunc) (*DB, error) {
	if engine == nil {
		return nil, ErrUninitializedConnection
	}

	db := &DB{
		engine: engine,
		logger: slog.Default(),
	}

	for _, configFunc := range configFuncs {
		if err := configFunc(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Close releases the connections the DB was opened with, newest first. A DB
// built with New around an engine the caller owns has nothing to close.
func (db *DB) Close() error {
	if db == nil {
		return nil
	}

	var err error
	for _, closer := range slices.Backward(db.closers) {
		err = errors.Join(err, closer.Close())
	}

	db.closers = nil

	return err
}

func (db *DB) connected() bool {
	return db != nil && db.engine != nil
}

func (db *DB) quoter() sqltext.Quoter {
	if !db.connected() {
		return sqltext.Backtick
	}

	return sqltext.Quoter(db.engine.IdentifierQuote())
}

// Query starts an empty builder returning plain rows.
func (db *DB) Query() *Builder[Row] {
	return newBuilder(db, func(row Row) (Row, error) {
		return row, nil
	}, DefaultPrimaryKey)
}

func (db *DB) Select(expression string) *Builder[Row] {
	return db.Query().Select(expression)
}

func (db *DB) Table(name string) *Builder[Row] {
	return db.Query().Table(name)
}

func (db *DB) Join(table string, leftColumn string, operator string, rightColumn string) *Builder[Row] {
	return db.Query().Join(table, leftColumn, operator, rightColumn)
}

func (db *DB) LeftJoin(table string, leftColumn string, operator string, rightColumn string) *Builder[Row] {
	return db.Query().LeftJoin(table, leftColumn, operator, rightColumn)
}

func (db *DB) RightJoin(table string, leftColumn string, operator string, rightColumn string) *Builder[Row] {
	return db.Query().RightJoin(table, leftColumn, operator, rightColumn)
}

func (db *DB) JoinOfType(joinType string, table string, leftColumn string, operator string, rightColumn string) *Builder[Row] {
	return db.Query().JoinOfType(joinType, table, leftColumn, operator, rightColumn)
}

func (db *DB) Where(column string, args ...any) *Builder[Row] {
	return db.Query().Where(column, args...)
}

func (db *DB) OrWhere(column string, args ...any) *Builder[Row] {
	return db.Query().OrWhere(column, args...)
}

func (db *DB) WhereWith(combinator string, column string, args ...any) *Builder[Row] {
	return db.Query().WhereWith(combinator, column, args...)
}

func (db *DB) WhereGroup(group func(query *Builder[Row])) *Builder[Row] {
	return db.Query().WhereGroup(group)
}

func (db *DB) OrWhereGroup(group func(query *Builder[Row])) *Builder[Row] {
	return db.Query().OrWhereGroup(group)
}

func (db *DB) WhereGroupWith(combinator string, group func(query *Builder[Row])) *Builder[Row] {
	return db.Query().WhereGroupWith(combinator, group)
}

func (db *DB) WhereNull(column string) *Builder[Row] {
	return db.Query().WhereNull(column)
}

func (db *DB) OrWhereNull(column string) *Builder[Row] {
	return db.Query().OrWhereNull(column)
}

func (db *DB) WhereNullWith(combinator string, column string) *Builder[Row] {
	return db.Query().WhereNullWith(combinator, column)
}

func (db *DB) WhereRaw(fragment string, bindings map[string]any) *Builder[Row] {
	return db.Query().WhereRaw(fragment, bindings)
}

func (db *DB) Limit(limit int) *Builder[Row] {
	return db.Query().Limit(limit)
}

func (db *DB) Offset(offset int) *Builder[Row] {
	return db.Query().Offset(offset)
}

func (db *DB) OrderBy(columns ...string) *Builder[Row] {
	return db.Query().OrderBy(columns...)
}

func (db *DB) OrderByAsc(column string) *Builder[Row] {
	return db.Query().OrderByAsc(column)
}

func (db *DB) OrderByDesc(column string) *Builder[Row] {
	return db.Query().OrderByDesc(column)
}

func (db *DB) GroupBy(columns ...string) *Builder[Row] {
	return db.Query().GroupBy(columns...)
}

// Connection opens a DB on first use and hands the same instance, or the
// same error, to every later caller.
type Connection struct {
	once sync.Once
	open func() (*DB, error)
	db   *DB
	err  error
}

func NewConnection(open func() (*DB, error)) *Connection {
	return &Connection{
		open: open,
	}
}

func (connection *Connection) DB() (*DB, error) {
	if connection == nil || connection.open == nil {
		return nil, ErrUninitializedConnection
	}

	connection.once.Do(func() {
		connection.db, connection.err = connection.open()
	})

	return connection.db, connection.err
}
