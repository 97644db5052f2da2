// Package dao defines the storage contract used to persist process table
// snapshots.
package dao

import (
	"context"
)

// Service stores entities of type T keyed by K. Implementations return
// ErrNotFound for unknown keys and ErrNilEntity for nil saves.
type Service[K comparable, T any] interface {
	// Save inserts or replaces t.
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	// List returns the entities matching every parameter, oldest first.
	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
