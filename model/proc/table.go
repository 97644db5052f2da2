package proc

import (
	"fmt"
	"iter"
	"sync"
	"sync/atomic"
)

// DefaultCapacity is the capacity of the reference process table.
const DefaultCapacity = 4

// MaxCapacity bounds the number of slots a table may allocate.
const MaxCapacity = 1 << 16

const noInit = -1

// Table is a fixed-capacity process table. Each slot carries its own lock:
// any number of readers or a single SlotGuard may hold a slot at a time.
type Table struct {
	slots    []Descriptor
	locks    []sync.RWMutex
	initMu   sync.Mutex   // serialises Initialize
	initSlot atomic.Int32 // init reference, noInit while unset
}

// New creates a table of capacity empty slots. The capacity cannot change
// afterwards.
func New(capacity int) (*Table, error) {
	if capacity <= 0 || capacity > MaxCapacity {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidCapacity, capacity, MaxCapacity)
	}
	ret := &Table{
		slots: make([]Descriptor, capacity),
		locks: make([]sync.RWMutex, capacity),
	}
	ret.initSlot.Store(noInit)
	return ret, nil
}

// Capacity returns the number of slots.
func (t *Table) Capacity() int {
	return len(t.slots)
}

func (t *Table) checkIndex(index int) error {
	if index < 0 || index >= len(t.slots) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(t.slots))
	}
	return nil
}

// Slot returns a copy of the descriptor at index.
func (t *Table) Slot(index int) (Descriptor, error) {
	if err := t.checkIndex(index); err != nil {
		return Descriptor{}, err
	}
	t.locks[index].RLock()
	defer t.locks[index].RUnlock()
	return t.slots[index], nil
}

// SlotMut acquires exclusive access to the slot at index. It blocks while
// readers or another guard hold the slot. The guard must be released.
func (t *Table) SlotMut(index int) (*SlotGuard, error) {
	if err := t.checkIndex(index); err != nil {
		return nil, err
	}
	t.locks[index].Lock()
	return &SlotGuard{table: t, index: index}, nil
}

// Update runs fn with exclusive access to the slot at index.
func (t *Table) Update(index int, fn func(guard *SlotGuard) error) error {
	guard, err := t.SlotMut(index)
	if err != nil {
		return err
	}
	defer guard.Release()
	return fn(guard)
}

// FindByPID yields the indices of slots holding pid, in slot order. Every
// call starts a fresh scan.
func (t *Table) FindByPID(pid int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := range t.slots {
			t.locks[i].RLock()
			match := t.slots[i].pid == pid
			t.locks[i].RUnlock()
			if match && !yield(i) {
				return
			}
		}
	}
}

// Occupied yields every non-empty slot with a copy of its descriptor.
func (t *Table) Occupied() iter.Seq2[int, Descriptor] {
	return func(yield func(int, Descriptor) bool) {
		for i := range t.slots {
			t.locks[i].RLock()
			d := t.slots[i]
			t.locks[i].RUnlock()
			if d.IsEmpty() {
				continue
			}
			if !yield(i, d) {
				return
			}
		}
	}
}

// SlotGuard is exclusive write access to one slot. Only the table hands
// out guards; pid InitPID can only be stored by Initialize, and the init
// slot keeps InitPID once published.
type SlotGuard struct {
	table    *Table
	index    int
	released bool
}

// Index returns the guarded slot index.
func (g *SlotGuard) Index() int {
	return g.index
}

// Descriptor returns a copy of the guarded descriptor.
func (g *SlotGuard) Descriptor() (Descriptor, error) {
	if g.released {
		return Descriptor{}, ErrGuardReleased
	}
	return g.table.slots[g.index], nil
}

// Assign validates and stores pid and name in the guarded slot.
func (g *SlotGuard) Assign(pid int, name string) error {
	if g.released {
		return ErrGuardReleased
	}
	isInit := int(g.table.initSlot.Load()) == g.index
	switch {
	case isInit && pid != InitPID:
		return fmt.Errorf("%w: init slot %d must keep pid %d", ErrInvalidPid, g.index, InitPID)
	case !isInit && pid == InitPID:
		return fmt.Errorf("%w: pid %d is reserved for init", ErrInvalidPid, InitPID)
	}
	return g.table.slots[g.index].Assign(pid, name)
}

// Reset empties the guarded slot. The init slot cannot be reset.
func (g *SlotGuard) Reset() error {
	if g.released {
		return ErrGuardReleased
	}
	if int(g.table.initSlot.Load()) == g.index {
		return fmt.Errorf("%w: init slot %d must keep pid %d", ErrInvalidPid, g.index, InitPID)
	}
	g.table.slots[g.index].Reset()
	return nil
}

// Release gives up the slot. Calling it more than once is a no-op.
func (g *SlotGuard) Release() {
	if g.released {
		return
	}
	g.released = true
	g.table.locks[g.index].Unlock()
}
