package decision

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/viant/approvalflow/internal/clock"
	"github.com/viant/approvalflow/logging"
	"github.com/viant/approvalflow/metrics"
	"github.com/viant/approvalflow/runtime/instance"
	"github.com/viant/approvalflow/service/args"
	"go.uber.org/zap"
)

// Recorder applies approver decisions to a workflow context
type Recorder struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
	strict  bool
}

// Record parses the request arguments, appends one audit line and sets the
// workflow route. A request carrying an already applied invocation id is
// acknowledged without side effects.
func (r *Recorder) Record(ctx context.Context, wctx *instance.Context, request *Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if wctx == nil {
		return nil, ErrNilContext
	}
	if request == nil {
		return nil, fmt.Errorf("decision: request was nil")
	}
	decision := args.ParseDecision(request.Args)
	approver := request.approver()
	if approver == "" {
		return nil, fmt.Errorf("failed to record decision for %v: %w", wctx.ID, ErrMissingApprover)
	}
	if !decision.IsKnown() {
		if r.strict {
			return nil, fmt.Errorf("failed to record decision %q for %v: %w", decision.Decision, wctx.ID, ErrInvalidDecision)
		}
		r.logger.Warn("unrecognized decision treated as approve",
			logging.InstanceID(wctx.ID),
			zap.String(logging.KeyDecision, decision.Decision))
	}
	if wctx.Seen(request.InvocationID) {
		r.logger.Info("decision already recorded",
			logging.InstanceID(wctx.ID),
			zap.String(logging.KeyInvocationID, request.InvocationID))
		return &Result{Decision: decision, Approver: approver, Route: routeOf(decision), Duplicate: true}, nil
	}

	now := clock.Now()
	line := FormatLine(now, request.stepTitle(), decision, approver)
	wctx.AppendHistory(line)
	wctx.Set(instance.KeyLastApprover, approver)
	wctx.Set(instance.KeyLastDecision, decision.Decision)
	wctx.Set(instance.KeyLastDecisionTime, now)

	route := routeOf(decision)
	wctx.Set(instance.KeyWorkflowRoute, route)
	if route == instance.RouteReject {
		wctx.Set(instance.KeyRejectionReason, decision.Comments)
	}
	wctx.Remember(request.InvocationID)

	r.metrics.ObserveDecision(route)
	r.logger.Info("decision recorded",
		logging.InstanceID(wctx.ID),
		zap.String(logging.KeyApprover, approver),
		zap.String(logging.KeyRoute, route))
	return &Result{Decision: decision, Approver: approver, Route: route, Line: line}, nil
}

// FormatLine formats an audit trail line for a decision
func FormatLine(at time.Time, stepTitle string, decision *args.Decision, approver string) string {
	line := fmt.Sprintf("[%s] %s: %s by %s", clock.Stamp(at), stepTitle, strings.ToUpper(decision.Decision), approver)
	if decision.Comments != "" {
		line += " - " + decision.Comments
	}
	return line
}

func routeOf(decision *args.Decision) string {
	if decision.IsReject() {
		return instance.RouteReject
	}
	return instance.RouteApprove
}

// New creates a decision recorder
func New(opts ...Option) *Recorder {
	ret := &Recorder{}
	for _, opt := range opts {
		opt(ret)
	}
	ret.logger = logging.OrNop(ret.logger)
	return ret
}
