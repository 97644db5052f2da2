package idgen

import "github.com/google/uuid"

func newUUID() string { return uuid.New().String() }

// NewFunc produces identifiers; override in tests and restore with Reset.
var NewFunc = newUUID

// New returns a new globally unique identifier.
func New() string { return NewFunc() }

// Reset restores the default generator.
func Reset() { NewFunc = newUUID }
