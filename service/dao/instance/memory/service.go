package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/viant/approvalflow/runtime/instance"
	"github.com/viant/approvalflow/service/dao"
	"github.com/viant/approvalflow/service/dao/criteria"
)

// Service implements an in-memory instance storage.  All operations are
// thread-safe and return copies of the underlying objects so callers can
// mutate them freely.
type Service struct {
	instances map[string]*instance.Instance
	mux       sync.RWMutex
}

// Compile-time check that Service implements the generic DAO interface.
var _ dao.Service[string, instance.Instance] = (*Service)(nil)

// Save persists a clone of the instance and bumps its version.
func (s *Service) Save(_ context.Context, anInstance *instance.Instance) error {
	if anInstance == nil {
		return dao.ErrNilEntity
	}
	if anInstance.ID == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	stored, exists := s.instances[anInstance.ID]
	storedVersion := 0
	if exists {
		storedVersion = stored.Version
	}
	next, err := dao.NextVersion(anInstance.ID, anInstance.Version, storedVersion, exists)
	if err != nil {
		return err
	}
	anInstance.Version = next
	s.instances[anInstance.ID] = anInstance.Clone()
	return nil
}

// Load retrieves a copy of the instance or dao.ErrNotFound.
func (s *Service) Load(_ context.Context, id string) (*instance.Instance, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mux.RLock()
	anInstance, ok := s.instances[id]
	s.mux.RUnlock()

	if !ok {
		return nil, dao.ErrNotFound
	}
	return anInstance.Clone(), nil
}

// Delete removes an instance.
func (s *Service) Delete(_ context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.instances[id]; !ok {
		return dao.ErrNotFound
	}
	delete(s.instances, id)
	return nil
}

// List returns copies of instances matching the Status parameter, ordered by creation time.
func (s *Service) List(_ context.Context, parameters ...*dao.Parameter) ([]*instance.Instance, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	out := make([]*instance.Instance, 0, len(s.instances))
	for _, anInstance := range s.instances {
		if !criteria.FilterByStatus(string(anInstance.Status), parameters) {
			continue
		}
		out = append(out, anInstance.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// New constructor.
func New() *Service {
	return &Service{instances: map[string]*instance.Instance{}}
}
