package event

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const idleDelay = 100 * time.Millisecond

// Listener dispatches consumed events to a handler until stopped
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	logger    *zap.Logger
	cancel    context.CancelFunc
	done      chan struct{}
	once      sync.Once
}

// NewListener creates a listener
func NewListener[T any](publisher *Publisher[T], handler func(*Event[T]), logger *zap.Logger) *Listener[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Listener[T]{publisher: publisher, handler: handler, logger: logger, done: make(chan struct{})}
}

// Start starts dispatching in a background goroutine
func (l *Listener[T]) Start(ctx context.Context) {
	ctx, l.cancel = context.WithCancel(ctx)
	go func() {
		defer close(l.done)
		for {
			if ctx.Err() != nil {
				return
			}
			event, err := l.publisher.Consume(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Warn("failed to consume event", zap.Error(err))
			}
			if event == nil {
				select {
				case <-ctx.Done():
					return
				case <-time.After(idleDelay):
				}
				continue
			}
			l.handler(event)
		}
	}()
}

// Stop stops the listener and waits for the dispatch loop to exit
func (l *Listener[T]) Stop() {
	l.once.Do(func() {
		if l.cancel == nil {
			close(l.done)
			return
		}
		l.cancel()
		<-l.done
	})
}
