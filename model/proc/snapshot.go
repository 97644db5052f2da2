package proc

import (
	"fmt"
	"github.com/viant/proctab/internal/clock"
	"github.com/viant/proctab/internal/idgen"
	"time"
)

// Snapshot is a serialisable image of a table. Only occupied slots are
// recorded.
type Snapshot struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"createdAt"`
	Capacity  int           `json:"capacity"`
	InitSlot  *int          `json:"initSlot,omitempty"`
	Slots     []*SlotRecord `json:"slots"`
}

// SlotRecord is one occupied slot of a snapshot.
type SlotRecord struct {
	Index int    `json:"index"`
	PID   int    `json:"pid"`
	Name  string `json:"name"`
}

// Snapshot captures the current table content. Slots are read one at a time,
// so concurrent writers may produce a snapshot mixing states of different
// slots, but never a torn descriptor.
func (t *Table) Snapshot() *Snapshot {
	ret := &Snapshot{
		ID:        idgen.New(),
		CreatedAt: clock.Now(),
		Capacity:  t.Capacity(),
		Slots:     []*SlotRecord{},
	}
	if index, ok := t.InitSlot(); ok {
		ret.InitSlot = &index
	}
	for index, d := range t.Occupied() {
		ret.Slots = append(ret.Slots, &SlotRecord{Index: index, PID: d.PID(), Name: d.Name()})
	}
	return ret
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	ret := *s
	if s.InitSlot != nil {
		index := *s.InitSlot
		ret.InitSlot = &index
	}
	ret.Slots = make([]*SlotRecord, len(s.Slots))
	for i, record := range s.Slots {
		clone := *record
		ret.Slots[i] = &clone
	}
	return &ret
}

// Restore rebuilds a table from a snapshot, validating every record the same
// way Assign and Initialize do.
func Restore(s *Snapshot) (*Table, error) {
	if s == nil {
		return nil, fmt.Errorf("snapshot was nil")
	}
	table, err := New(s.Capacity)
	if err != nil {
		return nil, err
	}
	initIndex := noInit
	if s.InitSlot != nil {
		initIndex = *s.InitSlot
		if err = table.checkIndex(initIndex); err != nil {
			return nil, fmt.Errorf("invalid init slot: %w", err)
		}
	}
	seen := make(map[int]bool, len(s.Slots))
	for _, record := range s.Slots {
		if record == nil {
			continue
		}
		if err = table.checkIndex(record.Index); err != nil {
			return nil, err
		}
		if seen[record.Index] {
			return nil, fmt.Errorf("duplicate record for slot %d", record.Index)
		}
		seen[record.Index] = true
		if record.PID == InitPID && record.Index != initIndex {
			return nil, fmt.Errorf("%w: pid %d recorded outside init slot at %d", ErrInvalidPid, InitPID, record.Index)
		}
		if record.Index == initIndex && record.PID != InitPID {
			return nil, fmt.Errorf("%w: init slot %d holds pid %d", ErrInvalidPid, initIndex, record.PID)
		}
		if err = table.slots[record.Index].Assign(record.PID, record.Name); err != nil {
			return nil, fmt.Errorf("slot %d: %w", record.Index, err)
		}
	}
	if initIndex != noInit {
		if !seen[initIndex] {
			return nil, fmt.Errorf("%w: init slot %d has no record", ErrInitNotSet, initIndex)
		}
		table.initSlot.Store(int32(initIndex))
	}
	return table, nil
}
