package event

import (
	"context"
	"github.com/viant/proctab/service/messaging/memory"
	"sync"
)

const serviceName = "proctab"

// Service publishes TableChange events for one table and dispatches them to
// at most one listener at a time.
type Service struct {
	tableID   string
	queue     *memory.Queue[Event[TableChange]]
	publisher *Publisher[TableChange]
	listener  *Listener[TableChange]
	mux       sync.Mutex
}

// New creates an event service backed by a memory queue.
func New(config memory.Config) *Service {
	queue := memory.NewQueue[Event[TableChange]](config)
	return &Service{
		queue:     queue,
		publisher: NewPublisher[TableChange](queue),
	}
}

// SetTableID tags subsequent events with the table identifier.
func (s *Service) SetTableID(id string) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.tableID = id
}

// Publish emits a change event, blocking while the queue is full.
func (s *Service) Publish(ctx context.Context, change *TableChange) error {
	return s.publisher.Publish(ctx, s.newEvent(change))
}

// Offer emits a change event without blocking; it fails with
// memory.ErrQueueFull when no listener keeps up.
func (s *Service) Offer(change *TableChange) error {
	return s.queue.Offer(s.newEvent(change))
}

func (s *Service) newEvent(change *TableChange) *Event[TableChange] {
	s.mux.Lock()
	tableID := s.tableID
	s.mux.Unlock()
	return NewEvent(&Context{TableID: tableID, EventType: change.Kind, Service: serviceName}, *change)
}

// Consume returns the next pending event, blocking until one is available.
func (s *Service) Consume(ctx context.Context) (*Event[TableChange], error) {
	return s.publisher.Consume(ctx)
}

// Pending returns the number of unconsumed events.
func (s *Service) Pending() int {
	return s.queue.Size()
}

// DeadLetters returns the number of events dropped after exhausting retries.
func (s *Service) DeadLetters() int {
	return s.queue.DLQSize()
}

// SetListener replaces the current listener with handler.
func (s *Service) SetListener(ctx context.Context, handler Handler[TableChange]) {
	s.mux.Lock()
	previous := s.listener
	s.listener = NewListener[TableChange](s.publisher, handler)
	s.listener.Start(ctx)
	s.mux.Unlock()
	if previous != nil {
		previous.Stop()
	}
}

// Close stops the listener, if any.
func (s *Service) Close() {
	s.mux.Lock()
	listener := s.listener
	s.listener = nil
	s.mux.Unlock()
	if listener != nil {
		listener.Stop()
	}
}
