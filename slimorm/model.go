package slimorm

import (
	"context"
	"database/sql"
	"errors"
)

const DefaultPrimaryKey = "id"

// Model maps one table to Records. Its query methods start a chain on a
// builder with the table already set.
type Model struct {
	db         *DB
	table      string
	primaryKey string
}

type ModelOption func(model *Model)

func WithPrimaryKey(primaryKey string) ModelOption {
	return func(model *Model) {
		if primaryKey != "" {
			model.primaryKey = primaryKey
		}
	}
}

func (db *DB) Model(table string, options ...ModelOption) *Model {
	model := &Model{
		db:         db,
		table:      table,
		primaryKey: DefaultPrimaryKey,
	}

	for _, option := range options {
		option(model)
	}

	return model
}

func (model *Model) TableName() string {
	return model.table
}

func (model *Model) PrimaryKey() string {
	return model.primaryKey
}

// Query starts a builder over the model's table.
func (model *Model) Query() *Builder[*Record] {
	return newBuilder(model.db, model.record, model.primaryKey).Table(model.table)
}

// record maps a result row. Rows that carry the primary key come back
// loaded; partial selections come back as unsaved records.
func (model *Model) record(row Row) (*Record, error) {
	record, err := model.Load(row)
	if errors.Is(err, ErrPrimaryKeyMissing) {
		return model.New(DataOf(row)), nil
	}

	return record, err
}

// New builds a record that has not been saved yet. Save inserts it.
func (model *Model) New(data *Data) *Record {
	if data == nil {
		data = NewData()
	}

	return &Record{
		model: model,
		data:  data.clone(),
	}
}

// Load builds a record for a row that already exists. Save updates it.
func (model *Model) Load(row Row) (*Record, error) {
	identity, found := row[model.primaryKey]
	if !found || identity == nil {
		return nil, ErrPrimaryKeyMissing
	}

	return &Record{
		model:    model,
		data:     DataOf(row),
		identity: identity,
	}, nil
}

// Find returns the record whose primary key equals value, or nil.
func (model *Model) Find(ctx context.Context, value any) (*Record, error) {
	return model.FindBy(ctx, model.primaryKey, value)
}

// FindBy returns the first record whose field equals value, or nil.
func (model *Model) FindBy(ctx context.Context, field string, value any) (*Record, error) {
	return model.Query().Where(field, "=", value).First(ctx)
}

// Create inserts data and reads the new row back. A change feed error is
// returned alongside the record.
func (model *Model) Create(ctx context.Context, data *Data) (*Record, error) {
	id, err := model.Insert(ctx, data)
	if err != nil && id == 0 {
		return nil, err
	}

	record, findErr := model.Find(ctx, id)
	if findErr != nil {
		return nil, findErr
	}

	return record, err
}

func (model *Model) Select(expression string) *Builder[*Record] {
	return model.Query().Select(expression)
}

func (model *Model) Table(name string) *Builder[*Record] {
	return model.Query().Table(name)
}

func (model *Model) Join(table string, leftColumn string, operator string, rightColumn string) *Builder[*Record] {
	return model.Query().Join(table, leftColumn, operator, rightColumn)
}

func (model *Model) LeftJoin(table string, leftColumn string, operator string, rightColumn string) *Builder[*Record] {
	return model.Query().LeftJoin(table, leftColumn, operator, rightColumn)
}

func (model *Model) RightJoin(table string, leftColumn string, operator string, rightColumn string) *Builder[*Record] {
	return model.Query().RightJoin(table, leftColumn, operator, rightColumn)
}

func (model *Model) JoinOfType(joinType string, table string, leftColumn string, operator string, rightColumn string) *Builder[*Record] {
	return model.Query().JoinOfType(joinType, table, leftColumn, operator, rightColumn)
}

func (model *Model) Where(column string, args ...any) *Builder[*Record] {
	return model.Query().Where(column, args...)
}

func (model *Model) OrWhere(column string, args ...any) *Builder[*Record] {
	return model.Query().OrWhere(column, args...)
}

func (model *Model) WhereWith(combinator string, column string, args ...any) *Builder[*Record] {
	return model.Query().WhereWith(combinator, column, args...)
}

func (model *Model) WhereGroup(group func(query *Builder[*Record])) *Builder[*Record] {
	return model.Query().WhereGroup(group)
}

func (model *Model) OrWhereGroup(group func(query *Builder[*Record])) *Builder[*Record] {
	return model.Query().OrWhereGroup(group)
}

func (model *Model) WhereGroupWith(combinator string, group func(query *Builder[*Record])) *Builder[*Record] {
	return model.Query().WhereGroupWith(combinator, group)
}

func (model *Model) WhereNull(column string) *Builder[*Record] {
	return model.Query().WhereNull(column)
}

func (model *Model) OrWhereNull(column string) *Builder[*Record] {
	return model.Query().OrWhereNull(column)
}

func (model *Model) WhereNullWith(combinator string, column string) *Builder[*Record] {
	return model.Query().WhereNullWith(combinator, column)
}

func (model *Model) WhereRaw(fragment string, bindings map[string]any) *Builder[*Record] {
	return model.Query().WhereRaw(fragment, bindings)
}

func (model *Model) Limit(limit int) *Builder[*Record] {
	return model.Query().Limit(limit)
}

func (model *Model) Offset(offset int) *Builder[*Record] {
	return model.Query().Offset(offset)
}

func (model *Model) OrderBy(columns ...string) *Builder[*Record] {
	return model.Query().OrderBy(columns...)
}

func (model *Model) OrderByAsc(column string) *Builder[*Record] {
	return model.Query().OrderByAsc(column)
}

func (model *Model) OrderByDesc(column string) *Builder[*Record] {
	return model.Query().OrderByDesc(column)
}

func (model *Model) GroupBy(columns ...string) *Builder[*Record] {
	return model.Query().GroupBy(columns...)
}

func (model *Model) Get(ctx context.Context) ([]*Record, error) {
	return model.Query().Get(ctx)
}

func (model *Model) First(ctx context.Context) (*Record, error) {
	return model.Query().First(ctx)
}

func (model *Model) Count(ctx context.Context) (int64, error) {
	return model.Query().Count(ctx)
}

func (model *Model) Max(ctx context.Context, column string) (any, error) {
	return model.Query().Max(ctx, column)
}

func (model *Model) Min(ctx context.Context, column string) (any, error) {
	return model.Query().Min(ctx, column)
}

func (model *Model) Insert(ctx context.Context, data *Data) (int64, error) {
	return model.Query().Insert(ctx, data)
}

// Update has no WHERE clause to work with and always fails with
// ErrPrecondition. Use Where(...).Update instead.
func (model *Model) Update(ctx context.Context, data *Data) (sql.Result, error) {
	return model.Query().Update(ctx, data)
}

func (model *Model) Delete(ctx context.Context) (sql.Result, error) {
	return model.Query().Delete(ctx)
}

func (model *Model) Paginate(ctx context.Context, page int, perPage int) (Page[*Record], error) {
	return model.Query().Paginate(ctx, page, perPage)
}
