package approval

import (
	"github.com/viant/approvalflow/runtime/instance"
	"github.com/viant/approvalflow/service/completion"
	"github.com/viant/approvalflow/service/decision"
	"github.com/viant/approvalflow/service/escalation"
)

// RouteInput represents route input
type RouteInput struct {
	Context *instance.Context
	Path    string
}

// RouteOutput represents route output
type RouteOutput struct {
	Group string
}

// DecideInput represents decide input
type DecideInput struct {
	Context *instance.Context
	Request *decision.Request
}

// DecideOutput represents decide output
type DecideOutput struct {
	Result *decision.Result
}

// EscalateInput represents escalate input
type EscalateInput struct {
	Context *instance.Context
	Request *escalation.Request
}

// EscalateOutput represents escalate output
type EscalateOutput struct {
	Outcome *escalation.Outcome
}

// FinalizeInput represents finalize input
type FinalizeInput struct {
	Context   *instance.Context
	ContentID string
}

// FinalizeOutput represents finalize output
type FinalizeOutput struct {
	Summary *completion.Summary
}
