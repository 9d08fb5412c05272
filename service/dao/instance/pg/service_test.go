package pg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/approvalflow/service/dao"
)

func TestService_ListSQL(t *testing.T) {
	testCases := []struct {
		description  string
		parameters   []*dao.Parameter
		expectedSQL  string
		expectedArgs []interface{}
	}{
		{
			description: "all",
			expectedSQL: "select payload from approval_instances order by created_at, id",
		},
		{
			description:  "single status",
			parameters:   []*dao.Parameter{dao.NewParameter(dao.StatusParameter, "running")},
			expectedSQL:  "select payload from approval_instances where status in ($1) order by created_at, id",
			expectedArgs: []interface{}{"running"},
		},
		{
			description:  "many statuses",
			parameters:   []*dao.Parameter{dao.NewParameter("Model", "x"), dao.NewParameter(dao.StatusParameter, "running", "completed")},
			expectedSQL:  "select payload from approval_instances where status in ($1, $2) order by created_at, id",
			expectedArgs: []interface{}{"running", "completed"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			query, args := newService(nil, "").listSQL(tc.parameters)
			assert.Equal(t, tc.expectedSQL, query)
			assert.Equal(t, tc.expectedArgs, args)
		})
	}
}

func TestNew_EmptyDSN(t *testing.T) {
	_, err := New(context.Background(), "", "")
	assert.Error(t, err)
}
