// Package bootline parses the process list given on a boot line, for
// example "1:init 5:shell 9:getty". Entries are whitespace separated
// pid:name pairs.
package bootline

import (
	"fmt"
	"github.com/spf13/cast"
	"github.com/viant/parsly"
	"github.com/viant/proctab/model/proc"
	"strings"
)

// Entry is one pid:name pair.
type Entry struct {
	PID  int    `json:"pid" yaml:"pid" toml:"pid"`
	Name string `json:"name" yaml:"name" toml:"name"`
}

func (e *Entry) String() string {
	return fmt.Sprintf("%d:%s", e.PID, e.Name)
}

// Validate checks the entry against descriptor rules.
func (e *Entry) Validate() error {
	if err := proc.ValidatePID(e.PID); err != nil {
		return err
	}
	return proc.ValidateName(e.Name)
}

// Parse parses a boot line. An empty or blank line yields no entries.
// Syntax errors report the cursor position; pid and name values are checked
// with the descriptor validation rules.
func Parse(input []byte) ([]*Entry, error) {
	cursor := parsly.NewCursor("bootline", input, 0)
	var entries []*Entry
	for {
		matched := cursor.MatchAfterOptional(whitespaceToken, pidToken)
		switch matched.Code {
		case pidCode:
		case parsly.EOF:
			return entries, nil
		default:
			return nil, cursor.NewError(pidToken)
		}
		pidText := matched.Text(cursor)
		pid, err := cast.ToIntE(decimal(pidText))
		if err != nil {
			return nil, fmt.Errorf("invalid pid %q: %w", pidText, err)
		}

		matched = cursor.MatchOne(colonToken)
		if matched.Code != colonCode {
			return nil, cursor.NewError(colonToken)
		}
		matched = cursor.MatchOne(nameToken)
		if matched.Code != nameCode {
			return nil, cursor.NewError(nameToken)
		}
		entry := &Entry{PID: pid, Name: matched.Text(cursor)}
		if err = entry.Validate(); err != nil {
			return nil, fmt.Errorf("entry %v: %w", entry, err)
		}
		entries = append(entries, entry)
	}
}

// decimal strips leading zeros so the value is never read as octal.
func decimal(text string) string {
	sign := ""
	if strings.HasPrefix(text, "-") {
		sign, text = "-", text[1:]
	}
	text = strings.TrimLeft(text, "0")
	if text == "" {
		return "0"
	}
	return sign + text
}

// ParseString is a convenience wrapper around Parse.
func ParseString(line string) ([]*Entry, error) {
	return Parse([]byte(line))
}
