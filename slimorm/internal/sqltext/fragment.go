package sqltext

import (
	"regexp"
	"strings"

	"github.com/lunagic/slimorm/slimormtools"
)

// Join glues non-empty fragments with a single space.
func Join(fragments ...string) string {
	return strings.Join(
		slimormtools.Filter(
			slimormtools.Map(fragments, strings.TrimSpace),
			func(fragment string) bool {
				return fragment != ""
			},
		),
		" ",
	)
}

// Append adds fragment to expression, separated by combinator when the
// expression already has content.
func Append(expression string, combinator string, fragment string) string {
	if strings.TrimSpace(expression) == "" {
		return strings.TrimSpace(fragment)
	}

	return Join(expression, combinator, fragment)
}

var placeholderPattern = regexp.MustCompile(`:(\w+)`)

// RenamePlaceholders rewrites every :name token found in renames to
// :renames[name]. Tokens are matched whole, in a single pass.
func RenamePlaceholders(statement string, renames map[string]string) string {
	if len(renames) == 0 {
		return statement
	}

	return placeholderPattern.ReplaceAllStringFunc(statement, func(token string) string {
		if renamed, found := renames[token[1:]]; found {
			return ":" + renamed
		}

		return token
	})
}

// Placeholders lists the :name tokens of statement in order of appearance.
func Placeholders(statement string) []string {
	return slimormtools.Map(
		placeholderPattern.FindAllStringSubmatch(statement, -1),
		func(match []string) string {
			return match[1]
		},
	)
}
