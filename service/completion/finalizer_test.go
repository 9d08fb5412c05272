package completion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/approvalflow/internal/clock"
	"github.com/viant/approvalflow/runtime/instance"
)

func TestFinalizer_Finalize(t *testing.T) {
	now := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	clock.NowFunc = func() time.Time { return now }
	defer func() { clock.NowFunc = time.Now }()

	testCases := []struct {
		description     string
		state           map[string]interface{}
		expectedOutcome string
		expectedText    string
	}{
		{
			description: "approved and escalated",
			state: map[string]interface{}{
				instance.KeyLastDecision:    "APPROVE",
				instance.KeyEscalated:       true,
				instance.KeyApprovalHistory: "[2024-03-01 09:30:15] Initial Review: APPROVE by alice",
			},
			expectedOutcome: instance.OutcomeApproved,
			expectedText: "Workflow Completed\n==================\nContent: /content/site/marketing/page\nOutcome: APPROVED\nEscalated: Yes\n\n" +
				"Approval History:\n[2024-03-01 09:30:15] Initial Review: APPROVE by alice",
		},
		{
			description: "rejected",
			state: map[string]interface{}{
				instance.KeyLastDecision:    "reject",
				instance.KeyApprovalHistory: "[2024-03-01 09:30:15] Initial Review: REJECT by bob - fix title",
			},
			expectedOutcome: instance.OutcomeRejected,
			expectedText: "Workflow Completed\n==================\nContent: /content/site/marketing/page\nOutcome: REJECTED\nEscalated: No\n\n" +
				"Approval History:\n[2024-03-01 09:30:15] Initial Review: REJECT by bob - fix title",
		},
		{
			description:     "no decision and no history",
			state:           map[string]interface{}{},
			expectedOutcome: instance.OutcomeRejected,
			expectedText: "Workflow Completed\n==================\nContent: /content/site/marketing/page\nOutcome: REJECTED\nEscalated: No\n\n" +
				"Approval History:\nNo history available",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			wctx := instance.NewContext("wf-1", instance.WithState(tc.state))
			summary, err := New().Finalize(context.Background(), wctx, "/content/site/marketing/page")
			require.NoError(t, err)
			assert.Equal(t, tc.expectedOutcome, summary.Outcome())
			assert.Equal(t, tc.expectedText, summary.Notification)
			assert.Equal(t, tc.expectedText, wctx.StringOr(instance.KeyCompletionNotification, ""))
			assert.Equal(t, tc.expectedOutcome, wctx.StringOr(instance.KeyWorkflowOutcome, ""))
			completed, _ := wctx.GetBool(instance.KeyWorkflowCompleted)
			assert.True(t, completed)
			completedAt, ok := wctx.GetTime(instance.KeyWorkflowCompletedTime)
			assert.True(t, ok)
			assert.True(t, now.Equal(completedAt))
		})
	}
}

func TestFinalizer_FinalizeOnce(t *testing.T) {
	wctx := instance.NewContext("wf-1")
	wctx.Set(instance.KeyLastDecision, "approve")
	finalizer := New()

	first, err := finalizer.Finalize(context.Background(), wctx, "/content/a")
	require.NoError(t, err)

	wctx.Set(instance.KeyLastDecision, "reject")
	second, err := finalizer.Finalize(context.Background(), wctx, "/content/a")
	require.NoError(t, err)
	assert.True(t, second.Approved)
	assert.Equal(t, first.Notification, second.Notification)
	assert.True(t, first.CompletedAt.Equal(second.CompletedAt))
	assert.Equal(t, instance.OutcomeApproved, wctx.StringOr(instance.KeyWorkflowOutcome, ""))
}

func TestFinalizer_NilContext(t *testing.T) {
	_, err := New().Finalize(context.Background(), nil, "/content/a")
	assert.Error(t, err)
}
