// Package daotest holds behaviour checks shared by instance DAO implementations.
package daotest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/approvalflow/runtime/instance"
	"github.com/viant/approvalflow/service/dao"
)

// Run verifies save, optimistic versioning, load, list and delete
func Run(t *testing.T, service dao.Service[string, instance.Instance]) {
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	first := &instance.Instance{ID: "wf-1", Payload: "/content/site/marketing/page", Initiator: "author", Status: instance.StatusRunning,
		State: map[string]interface{}{instance.KeyApprovalLevel: 1}, CreatedAt: created}
	second := &instance.Instance{ID: "wf-2", Payload: "/content/site/hr/page", Status: instance.StatusCompleted,
		State: map[string]interface{}{}, CreatedAt: created.Add(time.Minute)}

	require.NoError(t, service.Save(ctx, first))
	require.NoError(t, service.Save(ctx, second))
	assert.Equal(t, 1, first.Version)

	loaded, err := service.Load(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Version)
	assert.Equal(t, "/content/site/marketing/page", loaded.Payload)
	assert.Equal(t, 1, loaded.Context().IntOr(instance.KeyApprovalLevel, 0))

	stale := loaded.Clone()
	loaded.State[instance.KeyApprovalLevel] = 2
	require.NoError(t, service.Save(ctx, loaded))
	assert.Equal(t, 2, loaded.Version)

	stale.State[instance.KeyApprovalLevel] = 5
	err = service.Save(ctx, stale)
	assert.True(t, errors.Is(err, dao.ErrConflict), "expected conflict: %v", err)

	duplicate := &instance.Instance{ID: "wf-1", Status: instance.StatusRunning}
	assert.True(t, errors.Is(service.Save(ctx, duplicate), dao.ErrConflict))

	reloaded, err := service.Load(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Context().IntOr(instance.KeyApprovalLevel, 0))

	running, err := service.List(ctx, dao.NewParameter(dao.StatusParameter, string(instance.StatusRunning)))
	require.NoError(t, err)
	require.Len(t, running, 1)
	assert.Equal(t, "wf-1", running[0].ID)

	all, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, service.Delete(ctx, "wf-2"))
	_, err = service.Load(ctx, "wf-2")
	assert.True(t, errors.Is(err, dao.ErrNotFound))
	assert.True(t, errors.Is(service.Delete(ctx, "wf-2"), dao.ErrNotFound))

	assert.True(t, errors.Is(service.Save(ctx, nil), dao.ErrNilEntity))
	assert.True(t, errors.Is(service.Save(ctx, &instance.Instance{}), dao.ErrInvalidID))
}
