// Package report renders process table content as human readable text.
package report

import (
	"fmt"
	"github.com/viant/proctab/model/proc"
	"io"
	"strings"
)

// Format returns "Process ID: <pid>, Name: <name>".
func Format(d proc.Descriptor) string {
	return fmt.Sprintf("Process ID: %d, Name: %s", d.PID(), d.Name())
}

// Init writes the init process line of table to w.
func Init(w io.Writer, table *proc.Table) error {
	d, err := table.Init()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, Format(d))
	return err
}

// Table writes one line per occupied slot.
func Table(w io.Writer, table *proc.Table) error {
	for index, d := range table.Occupied() {
		if _, err := fmt.Fprintf(w, "[%d] %s\n", index, Format(d)); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot renders a snapshot the same way Table renders a live table,
// preceded by a capacity header and marking the init slot.
func Snapshot(s *proc.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "capacity: %d\n", s.Capacity)
	for _, record := range s.Slots {
		marker := ""
		if s.InitSlot != nil && *s.InitSlot == record.Index {
			marker = " (init)"
		}
		fmt.Fprintf(&b, "[%d] Process ID: %d, Name: %s%s\n", record.Index, record.PID, record.Name, marker)
	}
	return b.String()
}
