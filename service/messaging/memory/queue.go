package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/viant/approvalflow/internal/clock"
	"github.com/viant/approvalflow/internal/idgen"
	"github.com/viant/approvalflow/service/messaging"
)

var (
	// ErrProcessed is returned when a message is acked or nacked twice
	ErrProcessed = errors.New("message already processed")
	// ErrFull is returned by a non blocking queue when its buffer is full
	ErrFull = errors.New("queue is full")
)

// Config for memory queue implementation
type Config struct {
	MaxRetries  int
	RetryDelay  time.Duration
	DeadLetter  bool
	QueueBuffer int
	// NonBlocking makes Publish fail with ErrFull instead of waiting
	NonBlocking bool
}

// DefaultConfig returns a standard configuration for memory queue
func DefaultConfig() Config {
	return Config{
		MaxRetries:  3,
		RetryDelay:  100 * time.Millisecond,
		DeadLetter:  true,
		QueueBuffer: 100,
	}
}

// Message is an in-memory queue message
type Message[T any] struct {
	id        string
	payload   T
	queue     *Queue[T]
	retries   int
	createdAt time.Time
	processed bool
	mu        sync.Mutex
}

// ID returns message id
func (m *Message[T]) ID() string { return m.id }

// Retries returns number of failed attempts
func (m *Message[T]) Retries() int { return m.retries }

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// Ack acknowledges the message as processed successfully
func (m *Message[T]) Ack() error {
	return m.settle()
}

// Nack requeues the message after RetryDelay or moves it to dead letters
// once MaxRetries is exhausted.
func (m *Message[T]) Nack(_ error) error {
	if err := m.settle(); err != nil {
		return err
	}
	retry := &Message[T]{id: m.id, payload: m.payload, queue: m.queue, retries: m.retries + 1, createdAt: m.createdAt}
	m.queue.retry(retry)
	return nil
}

func (m *Message[T]) settle() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return ErrProcessed
	}
	m.processed = true
	return nil
}

// Queue implements an in-memory messaging.Queue
type Queue[T any] struct {
	messages chan *Message[T]
	config   Config
	dead     []*Message[T]
	mu       sync.Mutex
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{
		messages: make(chan *Message[T], config.QueueBuffer),
		config:   config,
	}
}

// Publish adds a new item to the queue, waiting while the buffer is full
// unless the queue is non blocking
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := &Message[T]{id: idgen.New(), payload: *t, queue: q, createdAt: clock.Now()}
	if q.config.NonBlocking {
		select {
		case q.messages <- msg:
			return nil
		default:
			return ErrFull
		}
	}
	select {
	case q.messages <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume blocks until a message is available or ctx is done
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *Queue[T]) retry(msg *Message[T]) {
	if msg.retries > q.config.MaxRetries {
		if q.config.DeadLetter {
			q.mu.Lock()
			q.dead = append(q.dead, msg)
			q.mu.Unlock()
		}
		return
	}
	time.AfterFunc(q.config.RetryDelay, func() {
		q.messages <- msg
	})
}

// Size returns the current number of messages in the queue
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// DeadLetters returns payloads of messages that exhausted retries
func (q *Queue[T]) DeadLetters() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	ret := make([]T, 0, len(q.dead))
	for _, msg := range q.dead {
		ret = append(ret, msg.payload)
	}
	return ret
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
