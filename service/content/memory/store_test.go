package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/approvalflow/service/content"
)

func TestStore_GetCommit(t *testing.T) {
	ctx := context.Background()
	srv := New()
	require.NoError(t, srv.Put(ctx, &content.Resource{Path: "/content/site/marketing/page", Metadata: content.Properties{"title": "Spring"}}))

	missing, err := srv.Get(ctx, "/content/none")
	require.NoError(t, err)
	assert.Nil(t, missing)

	resource, err := srv.Get(ctx, "/content/site/marketing/page")
	require.NoError(t, err)
	require.NotNil(t, resource)
	resource.Properties()["approvalOutcome"] = "approved"

	other := New()
	other.records = srv.records
	uncommitted, err := other.Get(ctx, "/content/site/marketing/page")
	require.NoError(t, err)
	assert.NotContains(t, uncommitted.Metadata, "approvalOutcome")

	require.NoError(t, srv.Commit(ctx))
	fresh := New()
	fresh.records = srv.records
	committed, err := fresh.Get(ctx, "/content/site/marketing/page")
	require.NoError(t, err)
	assert.Equal(t, "approved", committed.Metadata["approvalOutcome"])
	assert.Equal(t, "Spring", committed.Metadata["title"])
	assert.Equal(t, 1, srv.Len())
}
