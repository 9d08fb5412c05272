package event

import (
	"github.com/viant/approvalflow/service/messaging/fs"
	"github.com/viant/approvalflow/service/messaging/memory"
	"go.uber.org/zap"
)

// Option customises the event service
type Option func(s *Service)

// WithFsQueueConfig sets the filesystem queue configuration per queue name
func WithFsQueueConfig(newConfig func(name string) fs.QueueConfig) Option {
	return func(s *Service) {
		s.fsQueueConfig = newConfig
	}
}

// WithMemoryQueueConfig sets the memory queue configuration per queue name
func WithMemoryQueueConfig(newConfig func(name string) memory.Config) Option {
	return func(s *Service) {
		s.memQueueConfig = newConfig
	}
}

// WithLogger sets the logger used by listeners
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}
