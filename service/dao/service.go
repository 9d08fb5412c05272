package dao

import (
	"context"
)

// Service is a generic entity store. Implementations backing versioned
// entities reject stale saves with ErrConflict.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
