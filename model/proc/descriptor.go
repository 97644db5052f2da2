package proc

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

const (
	// NameCapacity is the descriptor name storage size, terminator included.
	NameCapacity = 16
	// MaxNameLen is the longest name, in bytes, a descriptor accepts.
	MaxNameLen = NameCapacity - 1

	// UnusedPID marks an empty slot.
	UnusedPID = 0
	// InitPID is the pid of the init process.
	InitPID = 1
)

// Descriptor identifies one process. The zero value is an empty slot.
type Descriptor struct {
	pid  int
	name [NameCapacity]byte
}

// NewEmpty returns a descriptor representing an unused slot.
func NewEmpty() Descriptor {
	return Descriptor{}
}

// PID returns the process identifier, UnusedPID for an empty slot.
func (d Descriptor) PID() int {
	return d.pid
}

// Name returns the process name.
func (d Descriptor) Name() string {
	for i, b := range d.name {
		if b == 0 {
			return string(d.name[:i])
		}
	}
	return string(d.name[:])
}

// IsEmpty reports whether the descriptor holds no process.
func (d Descriptor) IsEmpty() bool {
	return d.pid == UnusedPID && d.name[0] == 0
}

// Assign sets the descriptor pid and name. Names that do not fit are
// rejected with ErrInvalidName rather than truncated, so two distinct names
// can never alias in storage. On error the descriptor is left unchanged.
func (d *Descriptor) Assign(pid int, name string) error {
	if err := ValidatePID(pid); err != nil {
		return err
	}
	if err := ValidateName(name); err != nil {
		return err
	}
	d.pid = pid
	d.name = [NameCapacity]byte{}
	copy(d.name[:], name)
	return nil
}

// Reset returns the descriptor to the empty state.
func (d *Descriptor) Reset() {
	*d = Descriptor{}
}

func (d Descriptor) String() string {
	if d.IsEmpty() {
		return "<empty>"
	}
	return strconv.Itoa(d.pid) + ":" + d.Name()
}

// ValidatePID checks that pid is non-negative.
func ValidatePID(pid int) error {
	if pid < 0 {
		return fmt.Errorf("%w: %d is negative", ErrInvalidPid, pid)
	}
	return nil
}

// ValidateName checks that name is non-empty, printable and at most
// MaxNameLen bytes long.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case len(name) > MaxNameLen:
		return fmt.Errorf("%w: %q is %d bytes, max %d", ErrInvalidName, name, len(name), MaxNameLen)
	case !utf8.ValidString(name):
		return fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidName, name)
	}
	for _, r := range name {
		if !unicode.IsPrint(r) {
			return fmt.Errorf("%w: %q contains non-printable character %U", ErrInvalidName, name, r)
		}
	}
	return nil
}
