package utils

import (
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"
)

var spaceFinder = regexp.MustCompile(`(?m)\s^\s+`)

// Prepare turns a statement with :name placeholders into the driver's
// positional form. Slice values expand to one placeholder per element.
// Statements without parameters are passed through untouched.
func Prepare(statement string, parameters map[string]any, numberedParams bool) (string, []any, error) {
	statement = strings.TrimSpace(spaceFinder.ReplaceAllString(statement, " "))

	if len(parameters) == 0 {
		return statement, nil, nil
	}

	namedStatement, args, err := sqlx.Named(escapeQuotedColons(statement), parameters)
	if err != nil {
		return "", nil, err
	}

	expandedStatement, args, err := sqlx.In(namedStatement, args...)
	if err != nil {
		return "", nil, err
	}

	bindType := sqlx.QUESTION
	if numberedParams {
		bindType = sqlx.DOLLAR
	}

	return sqlx.Rebind(bindType, expandedStatement), args, nil
}

// escapeQuotedColons doubles every colon inside a quoted string or quoted
// identifier so sqlx.Named keeps it as text. A doubled quote closes and
// reopens the literal, which leaves it quoted.
func escapeQuotedColons(statement string) string {
	if !strings.Contains(statement, ":") {
		return statement
	}

	var builder strings.Builder
	var quote rune

	for _, char := range statement {
		switch {
		case quote == 0 && (char == '\'' || char == '"' || char == '`'):
			quote = char
		case quote != 0 && char == quote:
			quote = 0
		case quote != 0 && char == ':':
			builder.WriteRune(':')
		}

		builder.WriteRune(char)
	}

	return builder.String()
}
