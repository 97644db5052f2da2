package proc

import "fmt"

// InitSlotIndex is the slot Initialize writes the init process to.
const InitSlotIndex = 0

// Initialize writes the init process (pid InitPID, name) into slot
// InitSlotIndex and publishes it as the init reference. It succeeds once per
// table; later calls fail with ErrInitAlreadySet and leave the init process
// untouched. If name is invalid the reference stays unset.
func (t *Table) Initialize(name string) error {
	t.initMu.Lock()
	defer t.initMu.Unlock()
	if index := t.initSlot.Load(); index != noInit {
		return fmt.Errorf("%w: slot %d", ErrInitAlreadySet, index)
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	t.locks[InitSlotIndex].Lock()
	defer t.locks[InitSlotIndex].Unlock()
	if err := t.slots[InitSlotIndex].Assign(InitPID, name); err != nil {
		return err
	}
	t.initSlot.Store(InitSlotIndex)
	return nil
}

// Init returns a copy of the init descriptor, or ErrInitNotSet before a
// successful Initialize.
func (t *Table) Init() (Descriptor, error) {
	index, ok := t.InitSlot()
	if !ok {
		return Descriptor{}, ErrInitNotSet
	}
	return t.Slot(index)
}

// InitSlot returns the init reference.
func (t *Table) InitSlot() (int, bool) {
	index := int(t.initSlot.Load())
	return index, index != noInit
}
