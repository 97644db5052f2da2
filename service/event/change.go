package event

import "fmt"

// Kinds of table change.
const (
	KindAssign  = "assign"
	KindReset   = "reset"
	KindInit    = "init"
	KindRestore = "restore"
)

// TableChange describes one mutation of a process table slot.
type TableChange struct {
	Kind  string `json:"kind"`
	Index int    `json:"index"`
	PID   int    `json:"pid"`
	Name  string `json:"name"`
}

func (c *TableChange) String() string {
	return fmt.Sprintf("%s slot %d -> %d:%s", c.Kind, c.Index, c.PID, c.Name)
}
