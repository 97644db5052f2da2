package event

import (
	"context"
	"errors"
	"github.com/viant/proctab/internal/logger"
)

// Handler processes one event. A returned error nacks the event, which is
// redelivered until the queue retry limit and then dead-lettered.
type Handler[T any] func(*Event[T]) error

// Listener feeds consumed events to a handler on its own goroutine.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   Handler[T]
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewListener[T any](publisher *Publisher[T], handler Handler[T]) *Listener[T] {
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		done:      make(chan struct{}),
	}
}

// Start consumes events until ctx is done or Stop is called.
func (l *Listener[T]) Start(ctx context.Context) {
	ctx, l.cancel = context.WithCancel(ctx)
	go func() {
		defer close(l.done)
		for {
			msg, err := l.publisher.Next(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return
				}
				logger.Errorw("failed to consume event", "error", err)
				continue
			}
			if msg == nil {
				continue
			}
			if err = l.handler(msg.T()); err != nil {
				logger.Warnw("event handler failed", "messageID", msg.ID(), "error", err)
				err = msg.Nack(err)
			} else {
				err = msg.Ack()
			}
			if err != nil {
				logger.Errorw("failed to settle event", "messageID", msg.ID(), "error", err)
			}
		}
	}()
}

// Stop cancels the listener and waits for its goroutine to exit.
func (l *Listener[T]) Stop() {
	if l.cancel == nil {
		return
	}
	l.cancel()
	<-l.done
}
