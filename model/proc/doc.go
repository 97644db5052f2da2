// Package proc implements the process table: a fixed-capacity registry of
// process descriptors with a distinguished init slot.
//
// The table owns every descriptor outright. Callers read a slot through
// Slot, which returns a copy taken under the slot's shared lock, and write a
// slot through SlotMut, which hands out an exclusive SlotGuard that must be
// released:
//
//	table, _ := proc.New(proc.DefaultCapacity)
//	_ = table.Initialize("init")
//	guard, _ := table.SlotMut(1)
//	_ = guard.Assign(5, "shell")
//	guard.Release()
//	for index := range table.FindByPID(5) {
//		...
//	}
//
// The init process is located through an index held by the table rather
// than a pointer into the slot array, so a missing init is reported as
// ErrInitNotSet instead of dangling.
package proc
