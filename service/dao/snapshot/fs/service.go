package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/proctab/internal/logger"
	"github.com/viant/proctab/model/proc"
	"github.com/viant/proctab/service/dao"
	"github.com/viant/proctab/service/dao/criteria"
	"path"
	"sort"
	"strings"
	"sync"
)

const extension = ".json"

// Service stores each snapshot as a JSON file under a base URL.
type Service struct {
	baseURL string
	fs      afs.Service
	mu      sync.RWMutex
}

var _ dao.Service[string, proc.Snapshot] = (*Service)(nil)

// Save writes the snapshot to <baseURL>/<id>.json, replacing any previous file.
func (s *Service) Save(ctx context.Context, snapshot *proc.Snapshot) error {
	if snapshot == nil {
		return dao.ErrNilEntity
	}
	if snapshot.ID == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	URL := s.snapshotURL(snapshot.ID)
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save snapshot to %s: %w", URL, err)
	}
	return nil
}

// Load reads a snapshot by id.
func (s *Service) Load(ctx context.Context, id string) (*proc.Snapshot, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	URL := s.snapshotURL(id)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check if snapshot exists: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("snapshot %s: %w", id, dao.ErrNotFound)
	}

	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	snapshot := &proc.Snapshot{}
	if err = json.Unmarshal(data, snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot %s: %w", id, err)
	}
	return snapshot, nil
}

// Delete removes a snapshot file.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	URL := s.snapshotURL(id)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to check if snapshot exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("snapshot %s: %w", id, dao.ErrNotFound)
	}
	if err = s.fs.Delete(ctx, URL); err != nil {
		return fmt.Errorf("failed to delete snapshot file: %w", err)
	}
	return nil
}

// List returns every readable snapshot under the base URL ordered by
// creation time. Files that cannot be read or decoded are logged and skipped.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*proc.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.baseURL, option.NewRecursive(false))
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot files: %w", err)
	}

	var snapshots []*proc.Snapshot
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), extension) {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			logger.Warnw("skipping unreadable snapshot", "url", object.URL(), "error", err)
			continue
		}
		snapshot := &proc.Snapshot{}
		if err = json.Unmarshal(data, snapshot); err != nil {
			logger.Warnw("skipping malformed snapshot", "url", object.URL(), "error", err)
			continue
		}
		if !criteria.FilterSnapshot(snapshot.Capacity, snapshot.InitSlot != nil, parameters) {
			continue
		}
		snapshots = append(snapshots, snapshot)
	}
	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].CreatedAt.Before(snapshots[j].CreatedAt)
	})
	return snapshots, nil
}

func (s *Service) snapshotURL(id string) string {
	return url.Join(s.baseURL, path.Base(id)+extension)
}

// New creates a filesystem snapshot store rooted at baseURL, creating the
// location when missing.
func New(baseURL string) (*Service, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}

	fs := afs.New()
	ctx := context.Background()
	exists, _ := fs.Exists(ctx, baseURL)
	if !exists {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create snapshot location: %w", err)
		}
	}

	baseURL = url.Normalize(baseURL, file.Scheme)
	return &Service{baseURL: baseURL, fs: fs}, nil
}
