package slimorm

import (
	"fmt"
	"strings"

	"github.com/lunagic/slimorm/slimorm/internal/sqltext"
	"github.com/lunagic/slimorm/slimormtools"
)

// RenderSelect renders SELECT, FROM, JOIN, WHERE, GROUP BY, ORDER BY, LIMIT
// and OFFSET in that order, skipping the empty ones.
func (b *Builder[T]) RenderSelect() string {
	selectExpression := "*"
	if len(b.selects) > 0 {
		selectExpression = sqltext.Join(b.selects...)
	}

	return sqltext.Join(
		"SELECT",
		selectExpression,
		b.fromClause(),
		sqltext.Join(b.joins...),
		b.whereClause(),
		b.groupClause(),
		b.orderClause(),
		b.limitClause(),
		b.offsetClause(),
	)
}

// RenderInsert uses the column names as placeholder names.
func (b *Builder[T]) RenderInsert(data *Data) string {
	columns := data.Columns()

	return sqltext.Join(
		"INSERT INTO",
		b.tableList(),
		"("+strings.Join(b.quoter.Identifiers(columns), ", ")+")",
		"VALUES",
		"("+strings.Join(slimormtools.Map(columns, placeholder), ", ")+")",
	)
}

// RenderUpdate uses the column names as SET placeholder names, so a column
// must not share a name with a WHERE binding.
func (b *Builder[T]) RenderUpdate(data *Data) string {
	assignments := slimormtools.Map(data.Columns(), func(column string) string {
		return b.quoter.Identifier(column) + " = " + placeholder(column)
	})

	return sqltext.Join(
		"UPDATE",
		b.tableList(),
		"SET",
		strings.Join(assignments, ", "),
		b.whereClause(),
	)
}

func (b *Builder[T]) RenderDelete() string {
	return sqltext.Join(
		"DELETE FROM",
		b.tableList(),
		b.whereClause(),
	)
}

func placeholder(column string) string {
	return ":" + column
}

func (b *Builder[T]) tableList() string {
	return sqltext.Join(b.tables...)
}

func (b *Builder[T]) fromClause() string {
	if len(b.tables) == 0 {
		return ""
	}

	return "FROM " + b.tableList()
}

func (b *Builder[T]) whereClause() string {
	if strings.TrimSpace(b.where) == "" {
		return ""
	}

	return "WHERE " + b.where
}

func (b *Builder[T]) groupClause() string {
	if len(b.groups) == 0 {
		return ""
	}

	return "GROUP BY " + strings.Join(b.quoter.Identifiers(b.groups), ", ")
}

func (b *Builder[T]) orderClause() string {
	if len(b.orders) == 0 {
		return ""
	}

	return "ORDER BY " + strings.Join(
		slimormtools.Map(b.orders, func(term orderTerm) string {
			return sqltext.Join(b.quoter.Identifier(term.column), term.direction)
		}),
		", ",
	)
}

func (b *Builder[T]) limitClause() string {
	if b.limit == nil {
		return ""
	}

	return fmt.Sprintf("LIMIT %d", *b.limit)
}

func (b *Builder[T]) offsetClause() string {
	if b.offset == nil {
		return ""
	}

	return fmt.Sprintf("OFFSET %d", *b.offset)
}
