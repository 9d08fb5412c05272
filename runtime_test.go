package approvalflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/approvalflow/internal/clock"
	"github.com/viant/approvalflow/runtime/instance"
	"github.com/viant/approvalflow/service/asset"
	"github.com/viant/approvalflow/service/content"
	cmemory "github.com/viant/approvalflow/service/content/memory"
	"github.com/viant/approvalflow/service/dao"
	"github.com/viant/approvalflow/service/decision"
	"github.com/viant/approvalflow/service/escalation"
	"github.com/viant/approvalflow/service/event"
	"go.uber.org/zap"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func setClock(at time.Time) {
	clock.NowFunc = func() time.Time { return at }
}

func newTestService(t *testing.T, opts ...Option) *Service {
	srv, err := New(context.Background(), append([]Option{WithLogger(zap.NewNop())}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func TestRuntime_EndToEnd(t *testing.T) {
	defer func() { clock.NowFunc = time.Now }()
	ctx := context.Background()
	const path = "/content/site/marketing/spring-campaign"
	contentStore := cmemory.New()
	require.NoError(t, contentStore.Put(ctx, &content.Resource{Path: path}))
	srv := newTestService(t, WithContentStore(contentStore))
	rt := srv.Runtime()

	setClock(t0)
	started, err := rt.Start(ctx, path, "author", nil)
	require.NoError(t, err)
	assert.Equal(t, instance.StatusRunning, started.Status)
	assert.Equal(t, 1, started.Version)

	group, err := rt.Route(ctx, started.ID)
	require.NoError(t, err)
	assert.Equal(t, "marketing-reviewers", group)
	stored, err := rt.Instance(ctx, started.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Context().IntOr(instance.KeyApprovalLevel, 0))
	assert.Equal(t, 2, stored.Version)

	setClock(t0.Add(30 * time.Minute))
	result, err := rt.Decide(ctx, started.ID, &decision.Request{Args: "DECISION:approve,COMMENTS:looks good", Approver: "alice", StepTitle: "Initial Review"})
	require.NoError(t, err)
	assert.Equal(t, instance.RouteApprove, result.Route)
	assert.Equal(t, "[2024-03-01 09:30:00] Initial Review: APPROVE by alice - looks good", result.Line)

	setClock(t0.Add(time.Hour))
	outcome, err := rt.Escalate(ctx, started.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, escalation.TransitionPending, outcome.Transition)

	setClock(t0.Add(49 * time.Hour))
	outcome, err = rt.Escalate(ctx, started.ID, nil)
	require.NoError(t, err)
	assert.True(t, outcome.Escalated())
	assert.Equal(t, escalation.TargetDepartmentManagers, outcome.Target)

	setClock(t0.Add(50 * time.Hour))
	summary, err := rt.Finalize(ctx, started.ID)
	require.NoError(t, err)
	assert.Equal(t, instance.OutcomeApproved, summary.Outcome())
	assert.True(t, summary.Escalated)
	assert.Equal(t, "Workflow Completed\n==================\nContent: "+path+"\nOutcome: APPROVED\nEscalated: Yes\n\nApproval History:\n"+
		"[2024-03-01 09:30:00] Initial Review: APPROVE by alice - looks good\n"+
		"[2024-03-03 10:00:00] ESCALATION: Timeout after 49 hours", summary.Notification)

	status, err := rt.Status(ctx, started.ID)
	require.NoError(t, err)
	assert.Equal(t, instance.StatusCompleted, status)

	resource, err := contentStore.Get(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, instance.OutcomeApproved, resource.Metadata[asset.PropertyOutcome])
	assert.Equal(t, true, resource.Metadata[asset.PropertyEscalated])

	completions, err := event.PublisherOf[event.Completion](srv.Events())
	require.NoError(t, err)
	published, err := completions.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, started.ID, published.Context.InstanceID)
	assert.Equal(t, "author", published.Data.Initiator)
	assert.Equal(t, summary.Notification, published.Data.Notification)

	again, err := rt.Finalize(ctx, started.ID)
	require.NoError(t, err)
	assert.Equal(t, summary.Notification, again.Notification)

	_, err = rt.Route(ctx, started.ID)
	assert.True(t, errors.Is(err, ErrInstanceClosed))
}

func TestRuntime_Start(t *testing.T) {
	ctx := context.Background()
	rt := newTestService(t).Runtime()

	_, err := rt.Start(ctx, "  ", "author", nil)
	assert.True(t, errors.Is(err, ErrInvalidPayload))

	anInstance, err := rt.StartWithMetadata(ctx, "/content/site/hr/policy", "hr-bot", "high")
	require.NoError(t, err)
	wctx := anInstance.Context()
	assert.Equal(t, "high", wctx.StringOr(instance.KeyPriority, ""))
	assert.Equal(t, "hr-bot", wctx.StringOr(instance.KeyInitiatedBy, ""))
	_, ok := wctx.GetTime(instance.KeyStartedAt)
	assert.True(t, ok)

	assert.Equal(t, 2, rt.BulkStart(ctx, []string{"/content/a", "", "/content/b"}, "importer"))
	pending, err := rt.Pending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 3)
}

func TestRuntime_Terminate(t *testing.T) {
	ctx := context.Background()
	rt := newTestService(t).Runtime()
	anInstance, err := rt.Start(ctx, "/content/site/legal/terms", "author", nil)
	require.NoError(t, err)

	terminated, err := rt.Terminate(ctx, anInstance.ID)
	require.NoError(t, err)
	assert.True(t, terminated)

	terminated, err = rt.Terminate(ctx, anInstance.ID)
	require.NoError(t, err)
	assert.False(t, terminated)

	_, err = rt.Decide(ctx, anInstance.ID, &decision.Request{Args: "DECISION:approve", Approver: "alice"})
	assert.True(t, errors.Is(err, ErrInstanceClosed))
	_, err = rt.Finalize(ctx, anInstance.ID)
	assert.True(t, errors.Is(err, ErrInstanceClosed))

	pending, err := rt.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
	closed, err := rt.Instances(ctx, instance.StatusTerminated)
	require.NoError(t, err)
	assert.Len(t, closed, 1)

	_, err = rt.Terminate(ctx, "missing")
	assert.True(t, errors.Is(err, dao.ErrNotFound))
}

func TestRuntime_Decide(t *testing.T) {
	ctx := context.Background()
	srv := newTestService(t, WithConfig(func() *Config {
		cfg := DefaultConfig()
		cfg.Decision.Strict = true
		return cfg
	}()))
	rt := srv.Runtime()
	anInstance, err := rt.Start(ctx, "/content/site/marketing/page", "author", nil)
	require.NoError(t, err)

	_, err = rt.Decide(ctx, anInstance.ID, &decision.Request{Args: "DECISION:maybe", Approver: "alice"})
	assert.True(t, errors.Is(err, decision.ErrInvalidDecision))

	request := &decision.Request{Args: "DECISION:Reject,COMMENTS:fix title", InvocationID: "inv-1"}
	first, err := rt.Decide(ctx, anInstance.ID, request)
	require.NoError(t, err)
	assert.Equal(t, instance.RouteReject, first.Route)
	assert.Equal(t, "author", first.Approver)

	replay, err := rt.Decide(ctx, anInstance.ID, request)
	require.NoError(t, err)
	assert.True(t, replay.Duplicate)
	stored, err := rt.Instance(ctx, anInstance.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Context().HistoryLines(), 1)
	assert.Equal(t, "fix title", stored.Context().StringOr(instance.KeyRejectionReason, ""))
}

func TestRuntime_StaleSave(t *testing.T) {
	ctx := context.Background()
	srv := newTestService(t)
	rt := srv.Runtime()
	anInstance, err := rt.Start(ctx, "/content/site/marketing/page", "author", nil)
	require.NoError(t, err)
	stale, err := rt.Instance(ctx, anInstance.ID)
	require.NoError(t, err)

	_, err = rt.Route(ctx, anInstance.ID)
	require.NoError(t, err)
	err = srv.store.Save(ctx, stale)
	assert.True(t, errors.Is(err, dao.ErrConflict))
}

func TestRuntime_Poll(t *testing.T) {
	defer func() { clock.NowFunc = time.Now }()
	ctx := context.Background()
	rt := newTestService(t).Runtime()
	setClock(t0)
	for _, path := range []string{"/content/site/marketing/a", "/content/site/hr/b"} {
		anInstance, err := rt.Start(ctx, path, "author", nil)
		require.NoError(t, err)
		_, err = rt.Route(ctx, anInstance.ID)
		require.NoError(t, err)
	}
	setClock(t0.Add(72 * time.Hour))
	assert.Equal(t, 2, escalation.PollOnce(ctx, rt, "", nil))
	assert.Equal(t, 0, escalation.PollOnce(ctx, rt, "", nil))
}
