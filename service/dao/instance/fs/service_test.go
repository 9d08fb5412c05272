package fs

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/viant/approvalflow/service/dao/instance/daotest"
)

func TestService(t *testing.T) {
	service, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	daotest.Run(t, service)
}
