package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/approvalflow/internal/clock"
	"github.com/viant/approvalflow/internal/idgen"
	"github.com/viant/approvalflow/service/messaging"
)

// ErrProcessed is returned when a message is acked or nacked twice
var ErrProcessed = errors.New("message already processed")

// State represents the state of a message in the filesystem queue
type State string

const (
	StatePending    State = "pending"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateDead       State = "dead"
)

// Message is a filesystem queue message. Each message is a JSON file moved
// between state directories.
type Message[T any] struct {
	ID        string    `json:"id"`
	Data      T         `json:"data"`
	State     State     `json:"state"`
	Error     string    `json:"error,omitempty"`
	Retries   int       `json:"retries"`
	NotBefore time.Time `json:"notBefore,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	name      string
	queue     *Queue[T]
	processed bool
	mu        sync.Mutex
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.Data
}

// Ack moves the message to completed
func (m *Message[T]) Ack() error {
	if err := m.settle(); err != nil {
		return err
	}
	m.State = StateCompleted
	return m.queue.transfer(context.Background(), m, StateProcessing)
}

// Nack returns the message to pending after RetryDelay, or to dead once
// MaxRetries is exhausted
func (m *Message[T]) Nack(err error) error {
	if settleErr := m.settle(); settleErr != nil {
		return settleErr
	}
	if err != nil {
		m.Error = err.Error()
	}
	m.Retries++
	m.State = StatePending
	m.NotBefore = clock.Now().Add(m.queue.config.RetryDelay)
	if m.Retries > m.queue.config.MaxRetries {
		m.State = StateDead
	}
	return m.queue.transfer(context.Background(), m, StateProcessing)
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

// QueueConfig holds configuration for filesystem queue
type QueueConfig struct {
	BasePath   string
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultConfig returns a default queue configuration
func DefaultConfig() QueueConfig {
	return QueueConfig{
		BasePath:   "/tmp/approvalflow/queue",
		MaxRetries: 3,
		RetryDelay: time.Second,
	}
}

// Queue implements a filesystem-based messaging.Queue. Consume never blocks,
// it returns a nil message when nothing is due.
type Queue[T any] struct {
	fs     afs.Service
	config QueueConfig
	seq    uint64
	mu     sync.Mutex
}

// NewQueue creates a new filesystem-based queue
func NewQueue[T any](fs afs.Service, config QueueConfig) (*Queue[T], error) {
	if config.BasePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	config.BasePath = url.Normalize(config.BasePath, file.Scheme)
	q := &Queue[T]{fs: fs, config: config}
	ctx := context.Background()
	for _, state := range []State{StatePending, StateProcessing, StateCompleted, StateDead} {
		dir := q.dir(state)
		if exists, _ := fs.Exists(ctx, dir); exists {
			continue
		}
		if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return q, nil
}

// Publish writes a new pending message
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	now := clock.Now()
	msg := &Message[T]{ID: idgen.New(), Data: *t, State: StatePending, CreatedAt: now}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.seq++
	msg.name = fmt.Sprintf("%020d-%08d-%s.json", now.UnixNano(), q.seq, msg.ID)
	return q.write(ctx, msg)
}

// Consume moves the oldest due pending message to processing
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	names, err := q.names(ctx, StatePending)
	if err != nil {
		return nil, err
	}
	now := clock.Now()
	for _, name := range names {
		msg, err := q.read(ctx, StatePending, name)
		if err != nil {
			return nil, err
		}
		if now.Before(msg.NotBefore) {
			continue
		}
		msg.State = StateProcessing
		if err = q.move(ctx, msg, StatePending); err != nil {
			return nil, err
		}
		return msg, nil
	}
	return nil, nil
}

// Size returns number of messages in state
func (q *Queue[T]) Size(ctx context.Context, state State) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	names, err := q.names(ctx, state)
	return len(names), err
}

func (q *Queue[T]) transfer(ctx context.Context, msg *Message[T], from State) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.move(ctx, msg, from)
}

func (q *Queue[T]) move(ctx context.Context, msg *Message[T], from State) error {
	if err := q.write(ctx, msg); err != nil {
		return err
	}
	if err := q.fs.Delete(ctx, url.Join(q.dir(from), msg.name)); err != nil {
		return fmt.Errorf("failed to remove %s message %s: %w", from, msg.ID, err)
	}
	return nil
}

func (q *Queue[T]) write(ctx context.Context, msg *Message[T]) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	URL := url.Join(q.dir(msg.State), msg.name)
	if err = q.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write message %s: %w", msg.ID, err)
	}
	return nil
}

func (q *Queue[T]) read(ctx context.Context, state State, name string) (*Message[T], error) {
	URL := url.Join(q.dir(state), name)
	data, err := q.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read message %s: %w", URL, err)
	}
	msg := &Message[T]{}
	if err = json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message %s: %w", URL, err)
	}
	msg.name = name
	msg.queue = q
	return msg, nil
}

func (q *Queue[T]) names(ctx context.Context, state State) ([]string, error) {
	objects, err := q.fs.List(ctx, q.dir(state), option.NewRecursive(false))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s messages: %w", state, err)
	}
	var ret []string
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		ret = append(ret, object.Name())
	}
	sort.Strings(ret)
	return ret, nil
}

func (q *Queue[T]) dir(state State) string {
	return url.Join(q.config.BasePath, string(state))
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
