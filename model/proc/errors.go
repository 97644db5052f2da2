package proc

import "errors"

// Process table errors. Detail is appended with fmt.Errorf("%w: ..."), so
// callers should match with errors.Is.
var (
	// ErrInvalidPid is returned when a pid is negative or violates the init
	// pid reservation.
	ErrInvalidPid = errors.New("proc: invalid pid")

	// ErrInvalidName is returned when a name is empty, does not fit the
	// descriptor storage or contains non-printable characters.
	ErrInvalidName = errors.New("proc: invalid name")

	// ErrInvalidCapacity is returned when a table capacity is outside
	// [1, MaxCapacity].
	ErrInvalidCapacity = errors.New("proc: invalid capacity")

	// ErrIndexOutOfRange is returned for slot indices outside [0, capacity).
	ErrIndexOutOfRange = errors.New("proc: index out of range")

	// ErrInitAlreadySet is returned by a second Initialize.
	ErrInitAlreadySet = errors.New("proc: init already set")

	// ErrInitNotSet is returned when the init process is read before Initialize.
	ErrInitNotSet = errors.New("proc: init not set")

	// ErrGuardReleased is returned when a released SlotGuard is used.
	ErrGuardReleased = errors.New("proc: slot guard released")
)
