package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/viant/approvalflow/runtime/instance"
	"github.com/viant/approvalflow/service/dao"
	"github.com/viant/approvalflow/service/dao/criteria"
)

// DefaultPrefix is used when no key prefix is configured
const DefaultPrefix = "approvalflow:"

// Config represents redis connection settings
type Config struct {
	Address  string        `json:"address" yaml:"address"`
	Password string        `json:"password,omitempty" yaml:"password,omitempty"`
	Database int           `json:"database" yaml:"database"`
	Prefix   string        `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	TTL      time.Duration `json:"ttl,omitempty" yaml:"ttl,omitempty"`
}

// Service implements instance storage on redis. Saves run inside WATCH/MULTI
// so concurrent writers across processes see dao.ErrConflict.
type Service struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Ensure Service implements dao.Service
var _ dao.Service[string, instance.Instance] = (*Service)(nil)

// Save persists an instance and bumps its version
func (s *Service) Save(ctx context.Context, anInstance *instance.Instance) error {
	if anInstance == nil {
		return dao.ErrNilEntity
	}
	if anInstance.ID == "" {
		return dao.ErrInvalidID
	}
	key := s.instanceKey(anInstance.ID)
	next := 0
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := s.get(ctx, tx, key)
		exists := err == nil
		if err != nil && !errors.Is(err, dao.ErrNotFound) {
			return err
		}
		storedVersion := 0
		if exists {
			storedVersion = stored.Version
		}
		if next, err = dao.NextVersion(anInstance.ID, anInstance.Version, storedVersion, exists); err != nil {
			return err
		}
		toSave := anInstance.Clone()
		toSave.Version = next
		data, err := json.Marshal(toSave)
		if err != nil {
			return fmt.Errorf("failed to marshal instance: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			pipe.SAdd(ctx, s.indexKey(), anInstance.ID)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("%v was modified concurrently: %w", anInstance.ID, dao.ErrConflict)
	}
	if err != nil {
		return err
	}
	anInstance.Version = next
	return nil
}

// Load retrieves an instance
func (s *Service) Load(ctx context.Context, id string) (*instance.Instance, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	return s.get(ctx, s.client, s.instanceKey(id))
}

func (s *Service) get(ctx context.Context, client getter, key string) (*instance.Instance, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, dao.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %v: %w", key, err)
	}
	var anInstance instance.Instance
	if err := json.Unmarshal(data, &anInstance); err != nil {
		return nil, fmt.Errorf("failed to unmarshal instance %v: %w", key, err)
	}
	return &anInstance, nil
}

// Delete removes an instance
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	deleted, err := s.client.Del(ctx, s.instanceKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete instance %v: %w", id, err)
	}
	if err := s.client.SRem(ctx, s.indexKey(), id).Err(); err != nil {
		return fmt.Errorf("failed to update instance index: %w", err)
	}
	if deleted == 0 {
		return dao.ErrNotFound
	}
	return nil
}

// List returns indexed instances matching the Status parameter
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*instance.Instance, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list instance index: %w", err)
	}
	var ret []*instance.Instance
	for _, id := range ids {
		anInstance, err := s.get(ctx, s.client, s.instanceKey(id))
		if errors.Is(err, dao.ErrNotFound) {
			_ = s.client.SRem(ctx, s.indexKey(), id).Err()
			continue
		}
		if err != nil {
			return nil, err
		}
		if criteria.FilterByStatus(string(anInstance.Status), parameters) {
			ret = append(ret, anInstance)
		}
	}
	sort.Slice(ret, func(i, j int) bool {
		if ret[i].CreatedAt.Equal(ret[j].CreatedAt) {
			return ret[i].ID < ret[j].ID
		}
		return ret[i].CreatedAt.Before(ret[j].CreatedAt)
	})
	return ret, nil
}

func (s *Service) instanceKey(id string) string {
	return s.prefix + "instance:" + id
}

func (s *Service) indexKey() string {
	return s.prefix + "instances"
}

// Close closes the underlying client
func (s *Service) Close() error {
	return s.client.Close()
}

// New creates a redis backed instance store for an existing client
func New(client redis.UniversalClient, prefix string, ttl time.Duration) *Service {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Service{client: client, prefix: prefix, ttl: ttl}
}

// NewFromConfig dials redis and verifies the connection
func NewFromConfig(ctx context.Context, cfg *Config) (*Service, error) {
	if cfg == nil || cfg.Address == "" {
		return nil, fmt.Errorf("redis address was empty")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.Database,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis %v: %w", cfg.Address, err)
	}
	return New(client, cfg.Prefix, cfg.TTL), nil
}
