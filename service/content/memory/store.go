package memory

import (
	"context"
	"sync"

	"github.com/viant/approvalflow/service/content"
	"github.com/viant/approvalflow/service/dao/store"
)

// Store is an in-memory content store. Changes made to resources returned by
// Get stay private to the session until Commit.
type Store struct {
	records *store.MemoryStore[string, content.Resource]
	pending map[string]*content.Resource
	mu      sync.Mutex
}

// Put seeds a resource
func (s *Store) Put(ctx context.Context, resource *content.Resource) error {
	return s.records.Save(ctx, resource.Clone())
}

// Get returns a session copy of the resource at path
func (s *Store) Get(ctx context.Context, path string) (*content.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ret, ok := s.pending[path]; ok {
		return ret, nil
	}
	stored, err := s.records.Load(ctx, path)
	if err != nil || stored == nil {
		return nil, err
	}
	ret := stored.Clone()
	s.pending[path] = ret
	return ret, nil
}

// Commit stores pending resources
func (s *Store) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path, resource := range s.pending {
		if err := s.records.Save(ctx, resource.Clone()); err != nil {
			return err
		}
		delete(s.pending, path)
	}
	return nil
}

// Len returns number of stored resources
func (s *Store) Len() int {
	return s.records.Len()
}

// New creates an in-memory content store
func New() *Store {
	return &Store{
		records: store.NewMemoryStore[string, content.Resource](func(r *content.Resource) string { return r.Path }),
		pending: map[string]*content.Resource{},
	}
}

var _ content.Store = (*Store)(nil)
