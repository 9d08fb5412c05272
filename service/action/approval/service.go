// Package approval exposes the approval step handlers as an action service
// so the executor can dispatch workflow steps by name.
package approval

import (
	"context"
	"reflect"
	"strings"

	"github.com/viant/approvalflow/model/types"
	"github.com/viant/approvalflow/service/completion"
	"github.com/viant/approvalflow/service/decision"
	"github.com/viant/approvalflow/service/escalation"
	"github.com/viant/approvalflow/service/router"
)

// Name is the action service name
const Name = "approval"

// Method names
const (
	MethodRoute    = "route"
	MethodDecide   = "decide"
	MethodEscalate = "escalate"
	MethodFinalize = "finalize"
)

// Service dispatches approval steps
type Service struct {
	router    *router.Router
	recorder  *decision.Recorder
	monitor   *escalation.Monitor
	finalizer *completion.Finalizer
}

// Name returns the service name
func (s *Service) Name() string {
	return Name
}

// Methods returns the service methods
func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        MethodRoute,
			Description: "Assigns the approver group for the current approval level.",
			Input:       reflect.TypeOf(&RouteInput{}),
			Output:      reflect.TypeOf(&RouteOutput{}),
		},
		{
			Name:        MethodDecide,
			Description: "Records an approve or reject decision.",
			Input:       reflect.TypeOf(&DecideInput{}),
			Output:      reflect.TypeOf(&DecideOutput{}),
		},
		{
			Name:        MethodEscalate,
			Description: "Escalates a step waiting longer than the threshold.",
			Input:       reflect.TypeOf(&EscalateInput{}),
			Output:      reflect.TypeOf(&EscalateOutput{}),
		},
		{
			Name:        MethodFinalize,
			Description: "Produces the completion summary and notification.",
			Input:       reflect.TypeOf(&FinalizeInput{}),
			Output:      reflect.TypeOf(&FinalizeOutput{}),
		},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case MethodRoute:
		return s.route, nil
	case MethodDecide:
		return s.decide, nil
	case MethodEscalate:
		return s.escalate, nil
	case MethodFinalize:
		return s.finalize, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) route(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*RouteInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*RouteOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	output.Group = s.router.Route(ctx, input.Context, input.Path)
	return nil
}

func (s *Service) decide(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*DecideInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*DecideOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	result, err := s.recorder.Record(ctx, input.Context, input.Request)
	if err != nil {
		return err
	}
	output.Result = result
	return nil
}

func (s *Service) escalate(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*EscalateInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*EscalateOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	output.Outcome = s.monitor.Check(ctx, input.Context, input.Request)
	return nil
}

func (s *Service) finalize(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*FinalizeInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*FinalizeOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	summary, err := s.finalizer.Finalize(ctx, input.Context, input.ContentID)
	if err != nil {
		return err
	}
	output.Summary = summary
	return nil
}

// New creates an approval action service
func New(r *router.Router, recorder *decision.Recorder, monitor *escalation.Monitor, finalizer *completion.Finalizer) *Service {
	return &Service{router: r, recorder: recorder, monitor: monitor, finalizer: finalizer}
}
