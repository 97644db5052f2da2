package bootline

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes start at 1 so they never clash with parsly.EOF.
const (
	whitespaceCode = iota + 1
	pidCode
	colonCode
	nameCode
)

var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	pidToken        = parsly.NewToken(pidCode, "PID", &pidMatcher{})
	colonToken      = parsly.NewToken(colonCode, ":", matcher.NewByte(':'))
	nameToken       = parsly.NewToken(nameCode, "Name", &nameMatcher{})
)

// pidMatcher matches an optionally negative run of digits. Sign is accepted
// here so that negative pids surface as pid errors rather than syntax errors.
type pidMatcher struct{}

func (m *pidMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	if pos >= size {
		return 0
	}
	matched := 0
	if input[pos] == '-' {
		matched++
	}
	digits := 0
	for i := pos + matched; i < size && isDigit(input[i]); i++ {
		digits++
	}
	if digits == 0 {
		return 0
	}
	return matched + digits
}

// nameMatcher matches everything up to the next whitespace.
type nameMatcher struct{}

func (m *nameMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		if isSpace(input[i]) {
			break
		}
		matched++
	}
	return matched
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
