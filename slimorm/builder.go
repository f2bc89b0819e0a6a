package slimorm

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/lunagic/slimorm/slimorm/internal/sqltext"
)

const (
	CombinatorAnd = "AND"
	CombinatorOr  = "OR"

	directionAsc  = "ASC"
	directionDesc = "DESC"
)

type orderTerm struct {
	column    string
	direction string
}

// Builder composes one SQL statement. Every chain method mutates the
// builder and returns it. T is what result rows are mapped into.
//
// Operators, combinators, join columns, select expressions and raw WHERE
// fragments are written into the statement verbatim. Only pass trusted
// literals; values belong in bindings.
type Builder[T any] struct {
	db             *DB
	quoter         sqltext.Quoter
	mapper         func(row Row) (T, error)
	identityColumn string

	selects []string
	tables  []string
	joins   []string
	where   string
	groups  []string
	orders  []orderTerm
	limit   *int
	offset  *int

	bindings       map[string]any
	sequence       int
	whereMandatory bool
	err            error
}

func newBuilder[T any](db *DB, mapper func(row Row) (T, error), identityColumn string) *Builder[T] {
	return &Builder[T]{
		db:             db,
		quoter:         db.quoter(),
		mapper:         mapper,
		identityColumn: identityColumn,
		bindings:       map[string]any{},
		whereMandatory: true,
	}
}

// fail records the first misuse of the builder. It is returned by every
// terminal operation.
func (b *Builder[T]) fail(err error) *Builder[T] {
	if b.err == nil {
		b.err = err
	}

	return b
}

// Err is the first argument error recorded while chaining.
func (b *Builder[T]) Err() error {
	return b.err
}

// Select replaces the default * on first use. Later calls append the
// expression after a space; commas are up to the caller.
func (b *Builder[T]) Select(expression string) *Builder[T] {
	b.selects = append(b.selects, expression)
	return b
}

func (b *Builder[T]) Table(name string) *Builder[T] {
	b.tables = append(b.tables, b.quoter.Identifier(name))
	return b
}

func (b *Builder[T]) Join(table string, leftColumn string, operator string, rightColumn string) *Builder[T] {
	return b.JoinOfType("", table, leftColumn, operator, rightColumn)
}

func (b *Builder[T]) LeftJoin(table string, leftColumn string, operator string, rightColumn string) *Builder[T] {
	return b.JoinOfType("LEFT", table, leftColumn, operator, rightColumn)
}

func (b *Builder[T]) RightJoin(table string, leftColumn string, operator string, rightColumn string) *Builder[T] {
	return b.JoinOfType("RIGHT", table, leftColumn, operator, rightColumn)
}

func (b *Builder[T]) JoinOfType(joinType string, table string, leftColumn string, operator string, rightColumn string) *Builder[T] {
	b.joins = append(b.joins, sqltext.Join(
		joinType,
		"JOIN",
		b.quoter.Identifier(table),
		"ON",
		leftColumn,
		operator,
		rightColumn,
	))

	return b
}

// Where adds an AND condition. Called with one argument it compares for
// equality; with two the first is the operator.
//
//	Where("age", 25)       // `age` = :1_sql_data
//	Where("age", ">=", 25) // `age` >= :1_sql_data
func (b *Builder[T]) Where(column string, args ...any) *Builder[T] {
	return b.WhereWith(CombinatorAnd, column, args...)
}

func (b *Builder[T]) OrWhere(column string, args ...any) *Builder[T] {
	return b.WhereWith(CombinatorOr, column, args...)
}

// WhereWith is Where joined to the previous condition by combinator.
func (b *Builder[T]) WhereWith(combinator string, column string, args ...any) *Builder[T] {
	operator, value, err := whereArguments(args)
	if err != nil {
		return b.fail(fmt.Errorf("where %s: %w", column, err))
	}

	placeholder := b.bind(value)
	b.where = sqltext.Append(
		b.where,
		combinator,
		fmt.Sprintf("%s %s :%s", b.quoter.Identifier(column), operator, placeholder),
	)

	return b
}

func whereArguments(args []any) (string, any, error) {
	switch len(args) {
	case 1:
		return "=", args[0], nil
	case 2:
		operator, isString := args[0].(string)
		if !isString {
			return "", nil, fmt.Errorf("%w: operator must be a string, got %T", ErrInvalidArgument, args[0])
		}

		return operator, args[1], nil
	}

	return "", nil, fmt.Errorf("%w: expected a value or an operator and a value, got %d arguments", ErrInvalidArgument, len(args))
}

// WhereGroup adds a parenthesized group of conditions built by group.
func (b *Builder[T]) WhereGroup(group func(query *Builder[T])) *Builder[T] {
	return b.WhereGroupWith(CombinatorAnd, group)
}

func (b *Builder[T]) OrWhereGroup(group func(query *Builder[T])) *Builder[T] {
	return b.WhereGroupWith(CombinatorOr, group)
}

// WhereGroupWith runs group against a fresh builder and splices its
// conditions in. Every binding of the group is renamed to
// <next>_<name>_sub_q so nested groups never collide with the parent.
func (b *Builder[T]) WhereGroupWith(combinator string, group func(query *Builder[T])) *Builder[T] {
	if group == nil {
		return b.fail(fmt.Errorf("%w: where group callback is nil", ErrInvalidArgument))
	}

	child := newBuilder(b.db, b.mapper, b.identityColumn)
	child.quoter = b.quoter
	group(child)

	if child.err != nil {
		return b.fail(child.err)
	}

	if strings.TrimSpace(child.where) == "" {
		return b
	}

	next := b.sequence + 1
	renames := map[string]string{}
	for _, name := range slices.Sorted(maps.Keys(child.bindings)) {
		renamed := fmt.Sprintf("%d_%s_sub_q", next, name)
		renames[name] = renamed
		b.bindings[renamed] = child.bindings[name]
		b.sequence++
	}

	b.where = sqltext.Append(
		b.where,
		combinator,
		"("+sqltext.RenamePlaceholders(child.where, renames)+")",
	)

	return b
}

func (b *Builder[T]) WhereNull(column string) *Builder[T] {
	return b.WhereNullWith(CombinatorAnd, column)
}

func (b *Builder[T]) OrWhereNull(column string) *Builder[T] {
	return b.WhereNullWith(CombinatorOr, column)
}

func (b *Builder[T]) WhereNullWith(combinator string, column string) *Builder[T] {
	b.where = sqltext.Append(b.where, combinator, b.quoter.Identifier(column)+" IS NULL")
	return b
}

// WhereRaw appends fragment as is, without a combinator, and merges
// bindings under their own names. Keeping those names unique is up to the
// caller.
func (b *Builder[T]) WhereRaw(fragment string, bindings map[string]any) *Builder[T] {
	b.where = sqltext.Join(b.where, fragment)
	for _, name := range slices.Sorted(maps.Keys(bindings)) {
		b.bindings[strings.TrimPrefix(name, ":")] = bindings[name]
		b.sequence++
	}

	return b
}

func (b *Builder[T]) Limit(limit int) *Builder[T] {
	if limit < 0 {
		return b.fail(fmt.Errorf("%w: negative limit %d", ErrInvalidArgument, limit))
	}

	b.limit = &limit

	return b
}

func (b *Builder[T]) Offset(offset int) *Builder[T] {
	if offset < 0 {
		return b.fail(fmt.Errorf("%w: negative offset %d", ErrInvalidArgument, offset))
	}

	b.offset = &offset

	return b
}

// OrderBy takes column names, each optionally followed by ASC or DESC (any
// case). A direction with no undirected column before it is ignored.
func (b *Builder[T]) OrderBy(columns ...string) *Builder[T] {
	for _, column := range columns {
		direction := strings.ToUpper(strings.TrimSpace(column))
		if direction != directionAsc && direction != directionDesc {
			b.orders = append(b.orders, orderTerm{column: column})
			continue
		}

		if last := len(b.orders) - 1; last >= 0 && b.orders[last].direction == "" {
			b.orders[last].direction = direction
		}
	}

	return b
}

func (b *Builder[T]) OrderByAsc(column string) *Builder[T] {
	return b.OrderBy(column, directionAsc)
}

func (b *Builder[T]) OrderByDesc(column string) *Builder[T] {
	return b.OrderBy(column, directionDesc)
}

// GroupBy replaces any previous grouping.
func (b *Builder[T]) GroupBy(columns ...string) *Builder[T] {
	b.groups = slices.Clone(columns)
	return b
}

// WithoutWhereGuard lets Update run without a WHERE clause.
func (b *Builder[T]) WithoutWhereGuard() *Builder[T] {
	b.whereMandatory = false
	return b
}

// Bindings returns a copy of the named parameters collected so far.
func (b *Builder[T]) Bindings() map[string]any {
	return maps.Clone(b.bindings)
}

// Clone returns an independent copy of the builder.
func (b *Builder[T]) Clone() *Builder[T] {
	clone := *b
	clone.selects = slices.Clone(b.selects)
	clone.tables = slices.Clone(b.tables)
	clone.joins = slices.Clone(b.joins)
	clone.groups = slices.Clone(b.groups)
	clone.orders = slices.Clone(b.orders)
	clone.bindings = maps.Clone(b.bindings)

	if b.limit != nil {
		limit := *b.limit
		clone.limit = &limit
	}

	if b.offset != nil {
		offset := *b.offset
		clone.offset = &offset
	}

	return &clone
}
