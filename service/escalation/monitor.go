package escalation

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/approvalflow/internal/clock"
	"github.com/viant/approvalflow/logging"
	"github.com/viant/approvalflow/metrics"
	"github.com/viant/approvalflow/runtime/instance"
	"github.com/viant/approvalflow/service/args"
	"go.uber.org/zap"
)

// DefaultThresholdHours is used when no threshold is configured
const DefaultThresholdHours = 48

// Escalation targets by level
const (
	TargetDepartmentManagers = "department-managers"
	TargetContentGovernance  = "content-governance"
	TargetAdministrators     = "administrators"
)

// Monitor escalates approval levels pending longer than a threshold
type Monitor struct {
	logger       *zap.Logger
	metrics      *metrics.Metrics
	defaultHours int
}

// Check polls the workflow context. It never fails: faults are logged and
// reported as TransitionSkipped.
func (m *Monitor) Check(ctx context.Context, wctx *instance.Context, request *Request) (outcome *Outcome) {
	if request == nil {
		request = &Request{}
	}
	escalation := args.ParseEscalation(request.Args, m.defaultHours)
	outcome = &Outcome{ThresholdHours: escalation.ThresholdHours, Transition: TransitionSkipped}
	defer func() {
		if rec := recover(); rec != nil {
			m.logger.Error("escalation check failed", zap.Any("panic", rec))
			outcome = &Outcome{ThresholdHours: escalation.ThresholdHours, Transition: TransitionSkipped}
		}
	}()
	if wctx == nil {
		m.logger.Error("escalation check failed", zap.Error(fmt.Errorf("workflow context was nil")))
		return outcome
	}
	if escalation.Invalid != "" {
		m.logger.Warn("invalid threshold, using default",
			logging.InstanceID(wctx.ID),
			zap.String("value", escalation.Invalid),
			zap.Int(logging.KeyThreshold, escalation.ThresholdHours))
	}
	if err := ctx.Err(); err != nil {
		m.logger.Warn("escalation check cancelled", logging.InstanceID(wctx.ID), zap.Error(err))
		return outcome
	}
	if wctx.Seen(request.InvocationID) {
		return outcome
	}

	started, ok := wctx.GetTime(instance.KeyCurrentStepStartTime)
	if !ok {
		wctx.Set(instance.KeyCurrentStepStartTime, clock.Now())
		wctx.Set(instance.KeyEscalated, false)
		m.logger.Debug("initialized escalation tracking", logging.InstanceID(wctx.ID))
		outcome.Transition = TransitionTracked
		return outcome
	}

	outcome.ElapsedHours = int(clock.Since(started) / time.Hour)
	if escalated, _ := wctx.GetBool(instance.KeyEscalated); escalated {
		outcome.Transition = TransitionAlreadyEscalated
		return outcome
	}
	if outcome.ElapsedHours < outcome.ThresholdHours {
		m.logger.Debug("no escalation needed",
			logging.InstanceID(wctx.ID),
			zap.Int(logging.KeyElapsedHours, outcome.ElapsedHours),
			zap.Int(logging.KeyThreshold, outcome.ThresholdHours))
		outcome.Transition = TransitionPending
		return outcome
	}

	now := clock.Now()
	outcome.Transition = TransitionEscalated
	outcome.Reason = fmt.Sprintf("Approval timeout: %d hours exceeded threshold of %d hours", outcome.ElapsedHours, outcome.ThresholdHours)
	outcome.Target = TargetFor(wctx.IntOr(instance.KeyCurrentStepLevel, 1))

	wctx.Set(instance.KeyEscalated, true)
	wctx.Set(instance.KeyEscalationTime, now)
	wctx.Set(instance.KeyEscalationReason, outcome.Reason)
	wctx.Set(instance.KeyEscalationTarget, outcome.Target)
	wctx.AppendHistory(fmt.Sprintf("[%s] ESCALATION: Timeout after %d hours", clock.Stamp(now), outcome.ElapsedHours))
	wctx.Remember(request.InvocationID)

	m.metrics.ObserveEscalation(outcome.Target)
	m.logger.Warn("approval escalated",
		logging.InstanceID(wctx.ID),
		zap.Int(logging.KeyElapsedHours, outcome.ElapsedHours),
		zap.Int(logging.KeyThreshold, outcome.ThresholdHours),
		zap.String(logging.KeyTarget, outcome.Target))
	return outcome
}

// TargetFor maps the pending level to the escalation target
func TargetFor(level int) string {
	switch level {
	case 1:
		return TargetDepartmentManagers
	case 2:
		return TargetContentGovernance
	default:
		return TargetAdministrators
	}
}

// New creates an escalation monitor
func New(opts ...Option) *Monitor {
	ret := &Monitor{defaultHours: DefaultThresholdHours}
	for _, opt := range opts {
		opt(ret)
	}
	ret.logger = logging.OrNop(ret.logger)
	return ret
}
