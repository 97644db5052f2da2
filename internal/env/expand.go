// Package env expands ${env.NAME} expressions in configuration text.
package env

import (
	"os"
	"strings"
	"unicode"
)

const prefix = "${env."

// Expand replaces every ${env.NAME} in value with os.Getenv(NAME).
func Expand(value string) string {
	return ExpandWith(value, os.Getenv)
}

// ExpandWith replaces every ${env.NAME} in value with lookup(NAME). Names
// may hold letters, digits and '_'; anything else leaves the expression
// untouched. An unterminated expression is kept literally.
func ExpandWith(value string, lookup func(string) string) string {
	var b strings.Builder
	i := 0
	for {
		idx := strings.Index(value[i:], prefix)
		if idx < 0 {
			b.WriteString(value[i:])
			break
		}
		b.WriteString(value[i : i+idx])
		startKey := i + idx + len(prefix)
		endKey := strings.IndexByte(value[startKey:], '}')
		if endKey < 0 {
			b.WriteString(value[i+idx:])
			break
		}
		key := value[startKey : startKey+endKey]
		if !isName(key) {
			// keep the prefix and rescan after it so nested expressions expand
			b.WriteString(value[i+idx : startKey])
			i = startKey
			continue
		}
		b.WriteString(lookup(key))
		i = startKey + endKey + 1
	}
	return b.String()
}

func isName(key string) bool {
	for _, r := range key {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}
