package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/approvalflow/service/content"
)

// Store keeps each resource as <base>/<path>.json. Resources fetched with Get
// are uploaded back on Commit.
type Store struct {
	basePath string
	fs       afs.Service
	loaded   map[string]*content.Resource
	mu       sync.Mutex
}

// Put writes a resource directly
func (s *Store) Put(ctx context.Context, resource *content.Resource) error {
	return s.upload(ctx, resource)
}

// Get returns the resource at path or nil when absent
func (s *Store) Get(ctx context.Context, path string) (*content.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ret, ok := s.loaded[path]; ok {
		return ret, nil
	}
	URL := s.resourceURL(path)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check resource %v: %w", path, err)
	}
	if !exists {
		return nil, nil
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read resource %v: %w", path, err)
	}
	ret := &content.Resource{}
	if err = json.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode resource %v: %w", path, err)
	}
	ret.Path = path
	s.loaded[path] = ret
	return ret, nil
}

// Commit uploads every resource fetched in this session
func (s *Store) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path, resource := range s.loaded {
		if err := s.upload(ctx, resource); err != nil {
			return err
		}
		delete(s.loaded, path)
	}
	return nil
}

func (s *Store) upload(ctx context.Context, resource *content.Resource) error {
	data, err := json.Marshal(resource)
	if err != nil {
		return fmt.Errorf("failed to encode resource %v: %w", resource.Path, err)
	}
	URL := s.resourceURL(resource.Path)
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write resource %v: %w", resource.Path, err)
	}
	return nil
}

func (s *Store) resourceURL(path string) string {
	return url.Join(s.basePath, strings.Trim(path, "/")+".json")
}

// New creates a filesystem content store
func New(basePath string) (*Store, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	return &Store{
		basePath: url.Normalize(basePath, file.Scheme),
		fs:       afs.New(),
		loaded:   map[string]*content.Resource{},
	}, nil
}

var _ content.Store = (*Store)(nil)
