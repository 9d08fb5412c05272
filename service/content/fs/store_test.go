package fs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/approvalflow/service/content"
)

func TestStore_GetCommit(t *testing.T) {
	ctx := context.Background()
	baseDir := t.TempDir()
	srv, err := New(baseDir)
	require.NoError(t, err)

	resource := &content.Resource{Path: "/content/site/hr/policy", Metadata: content.Properties{"title": "Leave"}}
	require.NoError(t, srv.Put(ctx, resource))

	missing, err := srv.Get(ctx, "/content/site/hr/none")
	require.NoError(t, err)
	assert.Nil(t, missing)

	loaded, err := srv.Get(ctx, "/content/site/hr/policy")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Leave", loaded.Metadata["title"])
	loaded.Properties()["approvalEscalated"] = true
	require.NoError(t, srv.Commit(ctx))

	reopened, err := New(baseDir)
	require.NoError(t, err)
	committed, err := reopened.Get(ctx, "/content/site/hr/policy")
	require.NoError(t, err)
	assert.Equal(t, true, committed.Metadata["approvalEscalated"])
}

func TestNew_EmptyBasePath(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}
