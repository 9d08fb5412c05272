package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/approvalflow/internal/clock"
	"github.com/viant/approvalflow/logging"
	"github.com/viant/approvalflow/metrics"
	"github.com/viant/approvalflow/runtime/instance"
	"go.uber.org/zap"
)

// NoHistory is reported when the workflow has no audit trail
const NoHistory = "No history available"

// Finalizer summarizes a terminal workflow and prepares its notification
type Finalizer struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Finalize writes the completion fields once. A context that is already
// completed is left untouched and its stored summary is returned.
func (f *Finalizer) Finalize(ctx context.Context, wctx *instance.Context, contentID string) (*Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if wctx == nil {
		return nil, fmt.Errorf("completion: workflow context was nil")
	}
	if completed, _ := wctx.GetBool(instance.KeyWorkflowCompleted); completed {
		summary := stored(wctx, contentID)
		f.logger.Debug("workflow already finalized", logging.InstanceID(wctx.ID))
		return summary, nil
	}

	escalated, _ := wctx.GetBool(instance.KeyEscalated)
	summary := &Summary{
		ContentID: contentID,
		Approved:  strings.EqualFold(wctx.StringOr(instance.KeyLastDecision, "unknown"), "approve"),
		Escalated: escalated,
		History:   wctx.StringOr(instance.KeyApprovalHistory, NoHistory),
	}
	summary.CompletedAt = clock.Now()
	summary.Notification = summary.Text()

	wctx.Set(instance.KeyCompletionNotification, summary.Notification)
	wctx.Set(instance.KeyWorkflowCompleted, true)
	wctx.Set(instance.KeyWorkflowCompletedTime, summary.CompletedAt)
	wctx.Set(instance.KeyWorkflowOutcome, summary.Outcome())

	f.metrics.ObserveCompletion(summary.Outcome())
	f.logger.Info("workflow completed",
		logging.InstanceID(wctx.ID),
		logging.Path(contentID),
		zap.String(logging.KeyOutcome, summary.Outcome()),
		zap.Bool("escalated", escalated))
	return summary, nil
}

func stored(wctx *instance.Context, contentID string) *Summary {
	escalated, _ := wctx.GetBool(instance.KeyEscalated)
	ret := &Summary{
		ContentID:    contentID,
		Approved:     wctx.StringOr(instance.KeyWorkflowOutcome, "") == instance.OutcomeApproved,
		Escalated:    escalated,
		History:      wctx.StringOr(instance.KeyApprovalHistory, NoHistory),
		Notification: wctx.StringOr(instance.KeyCompletionNotification, ""),
	}
	ret.CompletedAt, _ = wctx.GetTime(instance.KeyWorkflowCompletedTime)
	return ret
}

// New creates a finalizer
func New(opts ...Option) *Finalizer {
	ret := &Finalizer{}
	for _, opt := range opts {
		opt(ret)
	}
	ret.logger = logging.OrNop(ret.logger)
	return ret
}
