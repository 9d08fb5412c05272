package event

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/approvalflow/service/messaging"
	"github.com/viant/approvalflow/service/messaging/fs"
	"github.com/viant/approvalflow/service/messaging/memory"
	"go.uber.org/zap"
)

const sharedQueue = "any"

// Service manages typed publishers and listeners on a single queue vendor
type Service struct {
	publisher       *Publisher[any]
	listener        *Listener[any]
	typedPublishers map[reflect.Type]any
	typedListeners  map[reflect.Type]stopper
	mux             sync.RWMutex
	queueVendor     messaging.Vendor
	fsQueueConfig   func(name string) fs.QueueConfig
	memQueueConfig  func(name string) memory.Config
	logger          *zap.Logger
}

type stopper interface{ Stop() }

// SetListener dispatches every published event to handler
func (s *Service) SetListener(ctx context.Context, handler func(*Event[any])) {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.listener != nil {
		s.listener.Stop()
	}
	s.listener = NewListener[any](s.publisher, handler, s.logger)
	s.listener.Start(ctx)
}

// Close stops all listeners
func (s *Service) Close() {
	s.mux.Lock()
	defer s.mux.Unlock()
	if s.listener != nil {
		s.listener.Stop()
		s.listener = nil
	}
	for key, listener := range s.typedListeners {
		listener.Stop()
		delete(s.typedListeners, key)
	}
}

// New creates an event service
func New(queueVendor messaging.Vendor, opts ...Option) (*Service, error) {
	ret := &Service{
		queueVendor:     queueVendor,
		typedPublishers: make(map[reflect.Type]any),
		typedListeners:  make(map[reflect.Type]stopper),
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	switch queueVendor {
	case messaging.VendorFs:
		if ret.fsQueueConfig == nil {
			return nil, fmt.Errorf("fs queue vendor requires fs queue config")
		}
	case messaging.VendorMemory:
		if ret.memQueueConfig == nil {
			ret.memQueueConfig = func(string) memory.Config {
				config := memory.DefaultConfig()
				config.NonBlocking = true
				return config
			}
		}
	default:
		return nil, fmt.Errorf("unsupported queue vendor: %s", queueVendor)
	}
	queue, err := QueueOf[Event[any]](ret, sharedQueue)
	if err != nil {
		return nil, err
	}
	ret.publisher = NewPublisher[any](queue)
	return ret, nil
}

// QueueOf creates a named queue on the service vendor
func QueueOf[T any](s *Service, name string) (messaging.Queue[T], error) {
	switch s.queueVendor {
	case messaging.VendorFs:
		return fs.NewQueue[T](afs.New(), s.fsQueueConfig(name))
	case messaging.VendorMemory:
		return memory.NewQueue[T](s.memQueueConfig(name)), nil
	}
	return nil, fmt.Errorf("unsupported queue vendor: %s", s.queueVendor)
}

func keyOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// SetListenerOf dispatches events of type T to handler
func SetListenerOf[T any](ctx context.Context, s *Service, handler func(*Event[T])) error {
	publisher, err := PublisherOf[T](s)
	if err != nil {
		return err
	}
	key := keyOf[T]()
	s.mux.Lock()
	defer s.mux.Unlock()
	if existing, ok := s.typedListeners[key]; ok {
		existing.Stop()
	}
	listener := NewListener[T](publisher, handler, s.logger)
	s.typedListeners[key] = listener
	listener.Start(ctx)
	return nil
}

// PublisherOf returns a publisher for the provided type
func PublisherOf[T any](s *Service) (*Publisher[T], error) {
	key := keyOf[T]()
	s.mux.RLock()
	ret, ok := s.typedPublishers[key]
	s.mux.RUnlock()
	if ok {
		return ret.(*Publisher[T]), nil
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if ret, ok = s.typedPublishers[key]; ok {
		return ret.(*Publisher[T]), nil
	}
	queue, err := QueueOf[Event[T]](s, key.Name())
	if err != nil {
		return nil, err
	}
	publisher := NewPublisher[T](queue)
	publisher.anyQueue = s.publisher.queue
	s.typedPublishers[key] = publisher
	return publisher, nil
}

// Publish publishes data of type T under eventCtx
func Publish[T any](ctx context.Context, s *Service, eventCtx *Context, data T) error {
	publisher, err := PublisherOf[T](s)
	if err != nil {
		return err
	}
	return publisher.Publish(ctx, NewEvent[T](eventCtx, data))
}
