package memory

import (
	"testing"

	"github.com/viant/approvalflow/service/dao/instance/daotest"
)

func TestService(t *testing.T) {
	daotest.Run(t, New())
}
