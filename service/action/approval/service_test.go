package approval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/approvalflow/model/types"
	"github.com/viant/approvalflow/runtime/instance"
	"github.com/viant/approvalflow/service/completion"
	"github.com/viant/approvalflow/service/decision"
	"github.com/viant/approvalflow/service/escalation"
	"github.com/viant/approvalflow/service/router"
)

func newService() *Service {
	return New(router.New(), decision.New(), escalation.New(), completion.New())
}

func TestService_Methods(t *testing.T) {
	srv := newService()
	for _, name := range []string{MethodRoute, MethodDecide, MethodEscalate, MethodFinalize} {
		require.NotNil(t, srv.Methods().Lookup(name), name)
		_, err := srv.Method(name)
		assert.NoError(t, err)
	}
	_, err := srv.Method("publish")
	assert.True(t, errors.Is(err, types.ErrMethodNotFound))
}

func TestService_Steps(t *testing.T) {
	ctx := context.Background()
	srv := newService()
	wctx := instance.NewContext("wf-1")
	wctx.Set(instance.KeyApprovalLevel, 1)

	method, _ := srv.Method(MethodRoute)
	routed := &RouteOutput{}
	require.NoError(t, method(ctx, &RouteInput{Context: wctx, Path: "/content/site/marketing/page"}, routed))
	assert.Equal(t, "marketing-reviewers", routed.Group)

	method, _ = srv.Method(MethodDecide)
	decided := &DecideOutput{}
	require.NoError(t, method(ctx, &DecideInput{Context: wctx, Request: &decision.Request{Args: "DECISION:reject,COMMENTS:typo", Approver: "bob"}}, decided))
	assert.Equal(t, instance.RouteReject, decided.Result.Route)

	method, _ = srv.Method(MethodEscalate)
	escalated := &EscalateOutput{}
	require.NoError(t, method(ctx, &EscalateInput{Context: wctx}, escalated))
	assert.Equal(t, escalation.TransitionPending, escalated.Outcome.Transition)

	method, _ = srv.Method(MethodFinalize)
	finalized := &FinalizeOutput{}
	require.NoError(t, method(ctx, &FinalizeInput{Context: wctx, ContentID: "/content/site/marketing/page"}, finalized))
	assert.Equal(t, instance.OutcomeRejected, finalized.Summary.Outcome())

	method, _ = srv.Method(MethodDecide)
	assert.True(t, errors.Is(method(ctx, &RouteInput{}, decided), types.ErrInvalidInput))
	assert.True(t, errors.Is(method(ctx, &DecideInput{}, routed), types.ErrInvalidOutput))
}
