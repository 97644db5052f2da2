package memory

import (
	"context"
	"github.com/viant/proctab/model/proc"
	"github.com/viant/proctab/service/dao"
	"github.com/viant/proctab/service/dao/criteria"
	"github.com/viant/proctab/service/dao/store"
)

// Service implements an in-memory, thread-safe snapshot store. Snapshots are
// cloned on save and load, so a stored snapshot never changes behind the
// caller's back.
type Service struct {
	store *store.MemoryStore[string, proc.Snapshot]
}

var _ dao.Service[string, proc.Snapshot] = (*Service)(nil)

func (s *Service) Save(ctx context.Context, snapshot *proc.Snapshot) error {
	if snapshot == nil {
		return dao.ErrNilEntity
	}
	if snapshot.ID == "" {
		return dao.ErrInvalidID
	}
	return s.store.Save(ctx, snapshot)
}

func (s *Service) Load(ctx context.Context, id string) (*proc.Snapshot, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	return s.store.Load(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	return s.store.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*proc.Snapshot, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*proc.Snapshot, 0, len(all))
	for _, snapshot := range all {
		if !criteria.FilterSnapshot(snapshot.Capacity, snapshot.InitSlot != nil, parameters) {
			continue
		}
		out = append(out, snapshot)
	}
	return out, nil
}

func New() *Service {
	return &Service{store: store.NewMemoryStore[string, proc.Snapshot](snapshotID, (*proc.Snapshot).Clone)}
}

func snapshotID(s *proc.Snapshot) string {
	return s.ID
}
