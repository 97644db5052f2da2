package store

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/viant/proctab/service/dao"
	"testing"
)

type record struct {
	ID    string
	Value int
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore[string, record](func(r *record) string { return r.ID }, func(r *record) *record {
		clone := *r
		return &clone
	})

	assert.ErrorIs(t, s.Save(ctx, nil), dao.ErrNilEntity)

	original := &record{ID: "b", Value: 1}
	assert.NoError(t, s.Save(ctx, original))
	assert.NoError(t, s.Save(ctx, &record{ID: "a", Value: 2}))
	original.Value = 100

	loaded, err := s.Load(ctx, "b")
	assert.NoError(t, err)
	assert.Equal(t, 1, loaded.Value)

	list, err := s.List(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []*record{{ID: "b", Value: 1}, {ID: "a", Value: 2}}, list)
	assert.Equal(t, 2, s.Len())

	assert.NoError(t, s.Delete(ctx, "b"))
	assert.ErrorIs(t, s.Delete(ctx, "b"), dao.ErrNotFound)
	_, err = s.Load(ctx, "b")
	assert.ErrorIs(t, err, dao.ErrNotFound)
	assert.Equal(t, 1, s.Len())
}
