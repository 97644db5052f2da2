package proctab

import "errors"

var (
	// ErrNotBooted is returned by operations that need a booted table.
	ErrNotBooted = errors.New("proctab: table not booted")

	// ErrAlreadyBooted is returned by a second Boot call.
	ErrAlreadyBooted = errors.New("proctab: table already booted")
)
