package report

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	sgdiff "github.com/sourcegraph/go-diff/diff"
	"github.com/viant/proctab/model/proc"
)

// DiffStats counts changed slot lines.
type DiffStats struct {
	Added   int
	Removed int
}

// Diff produces a unified diff between two snapshot renderings. Identical
// snapshots yield an empty diff.
func Diff(before, after *proc.Snapshot) (string, DiffStats, error) {
	oldText, newText := Snapshot(before), Snapshot(after)
	if oldText == newText {
		return "", DiffStats{}, nil
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldText),
		B:        difflib.SplitLines(newText),
		FromFile: label(before),
		ToFile:   label(after),
		Context:  1,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", DiffStats{}, err
	}
	stats, err := diffStats(text)
	if err != nil {
		return "", DiffStats{}, err
	}
	return text, stats, nil
}

func label(s *proc.Snapshot) string {
	if s.ID == "" {
		return "snapshot"
	}
	return "snapshot/" + s.ID
}

func diffStats(text string) (DiffStats, error) {
	fileDiff, err := sgdiff.ParseFileDiff([]byte(text))
	if err != nil {
		return DiffStats{}, fmt.Errorf("parse diff: %w", err)
	}
	var stats DiffStats
	for _, hunk := range fileDiff.Hunks {
		for _, line := range strings.Split(string(hunk.Body), "\n") {
			switch {
			case strings.HasPrefix(line, "+"):
				stats.Added++
			case strings.HasPrefix(line, "-"):
				stats.Removed++
			}
		}
	}
	return stats, nil
}
