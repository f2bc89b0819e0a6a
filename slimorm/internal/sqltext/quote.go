package sqltext

import (
	"strings"

	"github.com/lunagic/slimorm/slimormtools"
)

// Quoter wraps identifiers in a dialect's quote character.
type Quoter string

const (
	Backtick    Quoter = "`"
	DoubleQuote Quoter = `"`
)

// quoteCharacters are stripped from caller input before wrapping.
const quoteCharacters = "`\""

// Identifier quotes a table or column name. Existing quote characters are
// removed and every dot separated segment is wrapped on its own, so
// "users.id" becomes `users`.`id`.
func (q Quoter) Identifier(name string) string {
	if q == "" {
		q = Backtick
	}

	segments := strings.Split(StripQuotes(name), ".")

	return strings.Join(
		slimormtools.Map(segments, func(segment string) string {
			return string(q) + strings.TrimSpace(segment) + string(q)
		}),
		".",
	)
}

// Identifiers quotes every name in order.
func (q Quoter) Identifiers(names []string) []string {
	return slimormtools.Map(names, q.Identifier)
}

func StripQuotes(name string) string {
	return strings.Trim(
		strings.Map(func(r rune) rune {
			if strings.ContainsRune(quoteCharacters, r) {
				return -1
			}

			return r
		}, name),
		" ",
	)
}
