package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notice struct {
	InstanceID string
	Outcome    string
}

func TestQueue_PublishConsume(t *testing.T) {
	ctx := context.Background()
	queue := NewQueue[notice](DefaultConfig())
	require.NoError(t, queue.Publish(ctx, &notice{InstanceID: "wf-1", Outcome: "approved"}))
	require.NoError(t, queue.Publish(ctx, &notice{InstanceID: "wf-2", Outcome: "rejected"}))
	assert.Equal(t, 2, queue.Size())

	first, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, "wf-1", first.T().InstanceID)
	require.NoError(t, first.Ack())
	assert.ErrorIs(t, first.Ack(), ErrProcessed)
	assert.ErrorIs(t, first.Nack(nil), ErrProcessed)
	assert.Equal(t, 1, queue.Size())
}

func TestQueue_Retries(t *testing.T) {
	ctx := context.Background()
	config := DefaultConfig()
	config.MaxRetries = 1
	config.RetryDelay = time.Millisecond
	queue := NewQueue[notice](config)
	require.NoError(t, queue.Publish(ctx, &notice{InstanceID: "wf-1"}))

	for attempt := 0; attempt < 2; attempt++ {
		waitCtx, cancel := context.WithTimeout(ctx, time.Second)
		msg, err := queue.Consume(waitCtx)
		cancel()
		require.NoError(t, err)
		assert.Equal(t, attempt, msg.(*Message[notice]).Retries())
		require.NoError(t, msg.Nack(nil))
	}
	assert.Eventually(t, func() bool { return len(queue.DeadLetters()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, "wf-1", queue.DeadLetters()[0].InstanceID)
	assert.Equal(t, 0, queue.Size())
}

func TestQueue_ConsumeCancelled(t *testing.T) {
	queue := NewQueue[notice](DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := queue.Consume(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, queue.Publish(ctx, &notice{}), context.Canceled)
}

func TestQueue_NonBlocking(t *testing.T) {
	config := DefaultConfig()
	config.QueueBuffer = 1
	config.NonBlocking = true
	queue := NewQueue[notice](config)
	require.NoError(t, queue.Publish(context.Background(), &notice{InstanceID: "wf-1"}))
	assert.ErrorIs(t, queue.Publish(context.Background(), &notice{InstanceID: "wf-2"}), ErrFull)
}
