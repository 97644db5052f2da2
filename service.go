package proctab

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/viant/proctab/internal/idgen"
	"github.com/viant/proctab/internal/logger"
	"github.com/viant/proctab/model/proc"
	"github.com/viant/proctab/service/dao"
	"github.com/viant/proctab/service/dao/snapshot/fs"
	"github.com/viant/proctab/service/dao/snapshot/memory"
	"github.com/viant/proctab/service/event"
	"github.com/viant/proctab/service/report"
	"github.com/viant/proctab/tracing"
	"go.uber.org/zap"
)

// Service owns one process table for its whole lifetime and wires it to
// logging, tracing, change events and snapshot storage.
type Service struct {
	config      *Config
	table       *proc.Table
	tableID     string
	snapshotDAO dao.Service[string, proc.Snapshot]
	events      *event.Service
	logger      *zap.Logger
	tracingErr  error
	mux         sync.RWMutex
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	if s.tracingErr != nil {
		return fmt.Errorf("failed to initialise tracing: %w", s.tracingErr)
	}
	return s.ensureBaseSetup()
}

func (s *Service) ensureBaseSetup() error {
	if s.logger == nil {
		s.logger = logger.Default()
	}
	if s.config.Log.Debug {
		logger.SetDebug(true)
	}
	if s.config.Tracing.Enabled {
		tc := s.config.Tracing
		if err := tracing.Init(tc.ServiceName, tc.ServiceVersion, tc.Output); err != nil {
			return fmt.Errorf("failed to initialise tracing: %w", err)
		}
	}
	if s.events == nil {
		s.events = event.New(s.config.Events)
	}
	if s.snapshotDAO == nil {
		if URL := s.config.Snapshot.URL; URL != "" {
			snapshotDAO, err := fs.New(URL)
			if err != nil {
				return err
			}
			s.snapshotDAO = snapshotDAO
		} else {
			s.snapshotDAO = memory.New()
		}
	}
	return nil
}

// Config returns the service configuration.
func (s *Service) Config() *Config {
	return s.config
}

// Events returns the table change event service.
func (s *Service) Events() *event.Service {
	return s.events
}

// Table returns the booted table, or nil before Boot.
func (s *Service) Table() *proc.Table {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.table
}

func (s *Service) bootedTable() (*proc.Table, error) {
	table := s.Table()
	if table == nil {
		return nil, ErrNotBooted
	}
	return table, nil
}

// Boot creates the table, initializes the init process and places the
// remaining boot entries in slots 1..n. A failed boot leaves the service
// without a table.
func (s *Service) Boot(ctx context.Context) (err error) {
	_, span := tracing.StartSpan(ctx, "proctab.boot", tracing.KindInternal)
	defer func() { tracing.EndSpan(span, err) }()

	s.mux.Lock()
	defer s.mux.Unlock()
	if s.table != nil {
		return ErrAlreadyBooted
	}
	if err = s.config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	plan, err := s.config.Table.Plan()
	if err != nil {
		return err
	}
	table, err := proc.New(s.config.Table.Capacity)
	if err != nil {
		return err
	}
	if err = table.Initialize(plan.InitName); err != nil {
		return fmt.Errorf("failed to initialize init process: %w", err)
	}
	var changes []*event.TableChange
	changes = append(changes, &event.TableChange{Kind: event.KindInit, Index: proc.InitSlotIndex, PID: proc.InitPID, Name: plan.InitName})
	for i, entry := range plan.Entries {
		index := i + 1
		if err = table.Update(index, func(guard *proc.SlotGuard) error {
			return guard.Assign(entry.PID, entry.Name)
		}); err != nil {
			return fmt.Errorf("failed to place boot entry %v: %w", entry, err)
		}
		changes = append(changes, &event.TableChange{Kind: event.KindAssign, Index: index, PID: entry.PID, Name: entry.Name})
	}

	s.table = table
	s.tableID = idgen.New()
	s.events.SetTableID(s.tableID)
	span.WithAttributes(map[string]string{"proctab.table_id": s.tableID})
	s.logger.Info("table booted",
		zap.String("tableID", s.tableID),
		zap.Int("capacity", table.Capacity()),
		zap.String("init", plan.InitName),
		zap.Int("processes", len(plan.Entries)+1))
	for _, change := range changes {
		s.publish(change)
	}
	return nil
}

// Init returns the init descriptor. Before a successful Boot it fails with
// proc.ErrInitNotSet.
func (s *Service) Init(ctx context.Context) (proc.Descriptor, error) {
	table := s.Table()
	if table == nil {
		return proc.Descriptor{}, fmt.Errorf("%w: %v", proc.ErrInitNotSet, ErrNotBooted)
	}
	return table.Init()
}

// Slot returns a copy of the descriptor at index.
func (s *Service) Slot(index int) (proc.Descriptor, error) {
	table, err := s.bootedTable()
	if err != nil {
		return proc.Descriptor{}, err
	}
	return table.Slot(index)
}

// Assign stores pid and name in the slot at index.
func (s *Service) Assign(ctx context.Context, index, pid int, name string) (err error) {
	_, span := tracing.StartSpan(ctx, "proctab.assign", tracing.KindInternal)
	span.WithSlot(index, pid, name)
	defer func() { tracing.EndSpan(span, err) }()

	table, err := s.bootedTable()
	if err != nil {
		return err
	}
	if err = table.Update(index, func(guard *proc.SlotGuard) error {
		return guard.Assign(pid, name)
	}); err != nil {
		s.logger.Warn("assign rejected", zap.Int("slot", index), zap.Int("pid", pid), zap.String("name", name), zap.Error(err))
		return err
	}
	s.logger.Debug("slot assigned", zap.Int("slot", index), zap.Int("pid", pid), zap.String("name", name))
	s.publish(&event.TableChange{Kind: event.KindAssign, Index: index, PID: pid, Name: name})
	return nil
}

// Reset empties the slot at index.
func (s *Service) Reset(ctx context.Context, index int) (err error) {
	_, span := tracing.StartSpan(ctx, "proctab.reset", tracing.KindInternal)
	span.WithAttributes(tracing.SlotAttributes(index))
	defer func() { tracing.EndSpan(span, err) }()

	table, err := s.bootedTable()
	if err != nil {
		return err
	}
	if err = table.Update(index, (*proc.SlotGuard).Reset); err != nil {
		return err
	}
	s.logger.Debug("slot reset", zap.Int("slot", index))
	s.publish(&event.TableChange{Kind: event.KindReset, Index: index})
	return nil
}

// Find returns the indices of slots holding pid.
func (s *Service) Find(pid int) []int {
	table := s.Table()
	if table == nil {
		return nil
	}
	return slices.Collect(table.FindByPID(pid))
}

// Checkpoint captures the table and stores the snapshot.
func (s *Service) Checkpoint(ctx context.Context) (snapshot *proc.Snapshot, err error) {
	ctx, span := tracing.StartSpan(ctx, "proctab.checkpoint", tracing.KindClient)
	defer func() { tracing.EndSpan(span, err) }()

	table, err := s.bootedTable()
	if err != nil {
		return nil, err
	}
	snapshot = table.Snapshot()
	if err = s.snapshotDAO.Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}
	s.logger.Info("snapshot saved", zap.String("snapshotID", snapshot.ID), zap.Int("slots", len(snapshot.Slots)))
	return snapshot, nil
}

// Snapshots lists stored snapshots.
func (s *Service) Snapshots(ctx context.Context, parameters ...*dao.Parameter) ([]*proc.Snapshot, error) {
	return s.snapshotDAO.List(ctx, parameters...)
}

// Restore replaces the table with one rebuilt from the stored snapshot id.
// The service does not need to be booted first.
func (s *Service) Restore(ctx context.Context, id string) (err error) {
	ctx, span := tracing.StartSpan(ctx, "proctab.restore", tracing.KindClient)
	span.WithAttributes(map[string]string{"proctab.snapshot_id": id})
	defer func() { tracing.EndSpan(span, err) }()

	snapshot, err := s.snapshotDAO.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load snapshot %s: %w", id, err)
	}
	table, err := proc.Restore(snapshot)
	if err != nil {
		return fmt.Errorf("failed to restore snapshot %s: %w", id, err)
	}

	s.mux.Lock()
	s.table = table
	s.tableID = idgen.New()
	s.events.SetTableID(s.tableID)
	s.mux.Unlock()

	s.logger.Info("table restored", zap.String("snapshotID", id), zap.Int("capacity", table.Capacity()))
	for index, d := range table.Occupied() {
		s.publish(&event.TableChange{Kind: event.KindRestore, Index: index, PID: d.PID(), Name: d.Name()})
	}
	return nil
}

// Diff renders a unified diff between two stored snapshots.
func (s *Service) Diff(ctx context.Context, beforeID, afterID string) (text string, stats report.DiffStats, err error) {
	ctx, span := tracing.StartSpan(ctx, "proctab.diff", tracing.KindClient)
	span.WithAttributes(map[string]string{"proctab.before_id": beforeID, "proctab.after_id": afterID})
	defer func() { tracing.EndSpan(span, err) }()

	before, err := s.snapshotDAO.Load(ctx, beforeID)
	if err != nil {
		return "", stats, fmt.Errorf("failed to load snapshot %s: %w", beforeID, err)
	}
	after, err := s.snapshotDAO.Load(ctx, afterID)
	if err != nil {
		return "", stats, fmt.Errorf("failed to load snapshot %s: %w", afterID, err)
	}
	if text, stats, err = report.Diff(before, after); err != nil {
		return "", stats, err
	}
	s.logger.Debug("snapshots compared", zap.String("before", beforeID), zap.String("after", afterID),
		zap.Int("added", stats.Added), zap.Int("removed", stats.Removed))
	return text, stats, nil
}

// Report writes the init process line, "Process ID: 1, Name: init".
func (s *Service) Report(w io.Writer) error {
	table, err := s.bootedTable()
	if err != nil {
		return err
	}
	return report.Init(w, table)
}

// Close stops event listeners.
func (s *Service) Close() {
	s.events.Close()
}

// publish emits a change event without blocking the caller on a full queue.
func (s *Service) publish(change *event.TableChange) {
	if err := s.events.Offer(change); err != nil {
		s.logger.Warn("failed to publish change", zap.Stringer("change", change), zap.Error(err))
	}
}

// New creates a service. Unless overridden by options, it uses
// DefaultConfig, an in-memory event queue and in-memory snapshot storage
// (or file storage when Config.Snapshot.URL is set).
func New(options ...Option) (*Service, error) {
	ret := &Service{config: DefaultConfig()}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}
