package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/approvalflow/runtime/instance"
	"github.com/viant/approvalflow/service/dao"
	"github.com/viant/approvalflow/service/dao/criteria"
	"go.uber.org/zap"
)

// Service implements a filesystem-based instance storage. Any afs supported
// URL (file, mem, s3, gs) can be used as base location. Version checks are
// serialised within a single process only.
type Service struct {
	basePath string
	fs       afs.Service
	logger   *zap.Logger
	mu       sync.RWMutex
}

// Ensure Service implements dao.Service
var _ dao.Service[string, instance.Instance] = (*Service)(nil)

// Save persists an instance as JSON and bumps its version
func (s *Service) Save(ctx context.Context, anInstance *instance.Instance) error {
	if anInstance == nil {
		return dao.ErrNilEntity
	}
	if anInstance.ID == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.load(ctx, anInstance.ID)
	exists := err == nil
	if err != nil && err != dao.ErrNotFound {
		return err
	}
	storedVersion := 0
	if exists {
		storedVersion = stored.Version
	}
	next, err := dao.NextVersion(anInstance.ID, anInstance.Version, storedVersion, exists)
	if err != nil {
		return err
	}

	toSave := anInstance.Clone()
	toSave.Version = next
	data, err := json.Marshal(toSave)
	if err != nil {
		return fmt.Errorf("failed to marshal instance: %w", err)
	}

	filePath := s.instancePath(anInstance.ID)
	if err = s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save instance to file %s: %w", filePath, err)
	}
	anInstance.Version = next
	return nil
}

// Load retrieves an instance from the filesystem
func (s *Service) Load(ctx context.Context, id string) (*instance.Instance, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load(ctx, id)
}

func (s *Service) load(ctx context.Context, id string) (*instance.Instance, error) {
	filePath := s.instancePath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check if instance exists: %w", err)
	}
	if !exists {
		return nil, dao.ErrNotFound
	}

	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read instance file: %w", err)
	}

	var anInstance instance.Instance
	if err := json.Unmarshal(data, &anInstance); err != nil {
		return nil, fmt.Errorf("failed to unmarshal instance data: %w", err)
	}
	return &anInstance, nil
}

// Delete removes an instance from the filesystem
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.instancePath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to check if instance exists: %w", err)
	}
	if !exists {
		return dao.ErrNotFound
	}
	if err := s.fs.Delete(ctx, filePath); err != nil {
		return fmt.Errorf("failed to delete instance file: %w", err)
	}
	return nil
}

// List returns instances matching the Status parameter
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*instance.Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.basePath, option.NewRecursive(false))
	if err != nil {
		return nil, fmt.Errorf("failed to list instance files: %w", err)
	}

	var instances []*instance.Instance
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			s.logger.Warn("failed to read instance file", zap.String("url", object.URL()), zap.Error(err))
			continue
		}
		var anInstance instance.Instance
		if err := json.Unmarshal(data, &anInstance); err != nil {
			s.logger.Warn("failed to unmarshal instance", zap.String("url", object.URL()), zap.Error(err))
			continue
		}
		if !criteria.FilterByStatus(string(anInstance.Status), parameters) {
			continue
		}
		instances = append(instances, &anInstance)
	}
	sort.Slice(instances, func(i, j int) bool {
		if instances[i].CreatedAt.Equal(instances[j].CreatedAt) {
			return instances[i].ID < instances[j].ID
		}
		return instances[i].CreatedAt.Before(instances[j].CreatedAt)
	})
	return instances, nil
}

func (s *Service) instancePath(id string) string {
	return url.Join(s.basePath, fmt.Sprintf("%s.json", path.Base(id)))
}

// New creates a new filesystem instance storage service
func New(basePath string, logger *zap.Logger) (*Service, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	fs := afs.New()
	basePath = url.Normalize(basePath, file.Scheme)

	ctx := context.Background()
	exists, _ := fs.Exists(ctx, basePath)
	if !exists {
		if err := fs.Create(ctx, basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{basePath: basePath, fs: fs, logger: logger}, nil
}
