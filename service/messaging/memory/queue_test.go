package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Index int
	Name  string
}

func TestQueue(t *testing.T) {
	queue := NewQueue[testPayload](DefaultConfig())
	ctx := context.Background()

	require.NoError(t, queue.Publish(ctx, &testPayload{Index: 0, Name: "init"}))
	assert.Equal(t, 1, queue.Size())
	assert.Error(t, queue.Publish(ctx, nil))

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, message.ID())
	assert.Equal(t, "init", message.T().Name)
	assert.Equal(t, 0, queue.Size())

	assert.NoError(t, message.Ack())
	assert.Error(t, message.Ack())
	assert.Error(t, message.Nack(errors.New("late")))
}

func TestQueueRetries(t *testing.T) {
	config := DefaultConfig()
	config.MaxRetries = 2
	queue := NewQueue[testPayload](config)
	ctx := context.Background()

	require.NoError(t, queue.Publish(ctx, &testPayload{Index: 1, Name: "shell"}))
	var id string
	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		message, err := queue.Consume(ctx)
		require.NoError(t, err)
		if id == "" {
			id = message.ID()
		}
		assert.Equal(t, id, message.ID())
		require.NoError(t, message.Nack(errors.New("handler failed")))
	}
	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, 1, queue.DLQSize())
}

func TestQueueContext(t *testing.T) {
	config := DefaultConfig()
	config.QueueBuffer = 1
	queue := NewQueue[testPayload](config)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.NoError(t, queue.Publish(ctx, &testPayload{}))
	assert.ErrorIs(t, queue.Publish(ctx, &testPayload{}), context.DeadlineExceeded)

	_, err := queue.Consume(context.Background())
	require.NoError(t, err)
	_, err = queue.Consume(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueueOffer(t *testing.T) {
	config := DefaultConfig()
	config.QueueBuffer = 1
	queue := NewQueue[testPayload](config)

	require.NoError(t, queue.Offer(&testPayload{Name: "init"}))
	assert.ErrorIs(t, queue.Offer(&testPayload{Name: "shell"}), ErrQueueFull)
	assert.Error(t, queue.Offer(nil))
	assert.Equal(t, 1, queue.Size())
}
