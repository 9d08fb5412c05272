package approvalflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/viant/approvalflow/internal/clock"
	"github.com/viant/approvalflow/internal/idgen"
	"github.com/viant/approvalflow/logging"
	"github.com/viant/approvalflow/runtime/instance"
	"github.com/viant/approvalflow/service/action/approval"
	"github.com/viant/approvalflow/service/asset"
	"github.com/viant/approvalflow/service/completion"
	"github.com/viant/approvalflow/service/dao"
	"github.com/viant/approvalflow/service/decision"
	"github.com/viant/approvalflow/service/escalation"
	"github.com/viant/approvalflow/service/event"
	"github.com/viant/approvalflow/service/executor"
	"github.com/viant/approvalflow/tracing"
	"go.uber.org/zap"
)

// Runtime drives approval workflow instances. Every step loads the stored
// instance, runs the action on a copy of its context and saves the result
// with an optimistic version check; a lost race returns dao.ErrConflict.
type Runtime struct {
	store     dao.Service[string, instance.Instance]
	executor  executor.Service
	events    *event.Service
	annotator *asset.Annotator
	logger    *zap.Logger
}

type stepFn func(ctx context.Context, anInstance *instance.Instance, wctx *instance.Context) error

// Start creates a running instance for the content at payload. The init
// values seed the workflow context.
func (r *Runtime) Start(ctx context.Context, payload, initiator string, init map[string]interface{}) (*instance.Instance, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, ErrInvalidPayload
	}
	now := clock.Now()
	anInstance := &instance.Instance{
		ID:        idgen.New(),
		Model:     approval.Name,
		Payload:   payload,
		Initiator: initiator,
		Status:    instance.StatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}
	wctx := instance.NewContext(anInstance.ID, instance.WithState(init))
	if !wctx.Has(instance.KeyStartedAt) {
		wctx.Set(instance.KeyStartedAt, now)
	}
	if initiator != "" {
		wctx.Set(instance.KeyInitiatedBy, initiator)
	}
	anInstance.Apply(wctx)
	if err := r.store.Save(ctx, anInstance); err != nil {
		return nil, fmt.Errorf("failed to start workflow for %v: %w", payload, err)
	}
	r.logger.Info("workflow started", logging.InstanceID(anInstance.ID), logging.Path(payload))
	return anInstance, nil
}

// StartWithMetadata starts a workflow recording initiator and priority
func (r *Runtime) StartWithMetadata(ctx context.Context, payload, initiator, priority string) (*instance.Instance, error) {
	init := map[string]interface{}{}
	if priority != "" {
		init[instance.KeyPriority] = priority
	}
	return r.Start(ctx, payload, initiator, init)
}

// BulkStart starts a workflow per payload and returns the number started.
// Individual failures are logged.
func (r *Runtime) BulkStart(ctx context.Context, payloads []string, initiator string) int {
	started := 0
	for _, payload := range payloads {
		if _, err := r.Start(ctx, payload, initiator, nil); err != nil {
			r.logger.Warn("failed to start workflow", logging.Path(payload), zap.Error(err))
			continue
		}
		started++
	}
	return started
}

// Route assigns the approver group for the next approval level
func (r *Runtime) Route(ctx context.Context, id string) (string, error) {
	output := &approval.RouteOutput{}
	_, err := r.step(ctx, id, approval.MethodRoute, func(ctx context.Context, anInstance *instance.Instance, wctx *instance.Context) error {
		input := &approval.RouteInput{Context: wctx, Path: anInstance.Payload}
		return r.executor.Execute(ctx, approval.Name, approval.MethodRoute, input, output)
	})
	if err != nil {
		return "", err
	}
	return output.Group, nil
}

// Decide records an approver decision
func (r *Runtime) Decide(ctx context.Context, id string, request *decision.Request) (*decision.Result, error) {
	if request == nil {
		request = &decision.Request{}
	}
	output := &approval.DecideOutput{}
	anInstance, err := r.step(ctx, id, approval.MethodDecide, func(ctx context.Context, anInstance *instance.Instance, wctx *instance.Context) error {
		req := *request
		if req.Initiator == "" {
			req.Initiator = anInstance.Initiator
		}
		input := &approval.DecideInput{Context: wctx, Request: &req}
		return r.executor.Execute(ctx, approval.Name, approval.MethodDecide, input, output)
	})
	if err != nil {
		return nil, err
	}
	result := output.Result
	if !result.Duplicate {
		r.publish(ctx, anInstance, event.TypeDecision, event.Decision{
			Decision: result.Decision.Decision,
			Approver: result.Approver,
			Comments: result.Decision.Comments,
			Route:    result.Route,
		})
	}
	return result, nil
}

// Escalate checks the current step against the escalation threshold
func (r *Runtime) Escalate(ctx context.Context, id string, request *escalation.Request) (*escalation.Outcome, error) {
	output := &approval.EscalateOutput{}
	anInstance, err := r.step(ctx, id, approval.MethodEscalate, func(ctx context.Context, _ *instance.Instance, wctx *instance.Context) error {
		input := &approval.EscalateInput{Context: wctx, Request: request}
		return r.executor.Execute(ctx, approval.Name, approval.MethodEscalate, input, output)
	})
	if err != nil {
		return nil, err
	}
	outcome := output.Outcome
	if outcome.Escalated() {
		r.publish(ctx, anInstance, event.TypeEscalation, event.Escalation{
			Target:       outcome.Target,
			Reason:       outcome.Reason,
			ElapsedHours: outcome.ElapsedHours,
		})
	}
	return outcome, nil
}

// Finalize completes the instance, annotates its content and publishes the
// completion notification. Finalizing a completed instance returns the
// stored summary.
func (r *Runtime) Finalize(ctx context.Context, id string) (*completion.Summary, error) {
	output := &approval.FinalizeOutput{}
	wasCompleted := false
	anInstance, err := r.step(ctx, id, approval.MethodFinalize, func(ctx context.Context, anInstance *instance.Instance, wctx *instance.Context) error {
		wasCompleted = anInstance.Status == instance.StatusCompleted
		input := &approval.FinalizeInput{Context: wctx, ContentID: anInstance.Payload}
		if err := r.executor.Execute(ctx, approval.Name, approval.MethodFinalize, input, output); err != nil {
			return err
		}
		anInstance.Status = instance.StatusCompleted
		if !wasCompleted && r.annotator != nil {
			r.annotator.Annotate(ctx, wctx, output.Summary)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	summary := output.Summary
	if !wasCompleted {
		r.publish(ctx, anInstance, event.TypeCompletion, event.Completion{
			Outcome:      summary.Outcome(),
			Escalated:    summary.Escalated,
			Initiator:    anInstance.Initiator,
			Notification: summary.Notification,
		})
	}
	return summary, nil
}

// Instance returns a stored instance
func (r *Runtime) Instance(ctx context.Context, id string) (*instance.Instance, error) {
	return r.store.Load(ctx, id)
}

// Status returns instance status
func (r *Runtime) Status(ctx context.Context, id string) (instance.Status, error) {
	anInstance, err := r.store.Load(ctx, id)
	if err != nil {
		return "", err
	}
	return anInstance.Status, nil
}

// Instances lists instances, optionally filtered by status
func (r *Runtime) Instances(ctx context.Context, statuses ...instance.Status) ([]*instance.Instance, error) {
	var parameters []*dao.Parameter
	if len(statuses) > 0 {
		values := make([]string, 0, len(statuses))
		for _, status := range statuses {
			values = append(values, string(status))
		}
		parameters = append(parameters, dao.NewParameter(dao.StatusParameter, values...))
	}
	return r.store.List(ctx, parameters...)
}

// Pending returns ids of running instances
func (r *Runtime) Pending(ctx context.Context) ([]string, error) {
	instances, err := r.Instances(ctx, instance.StatusRunning)
	if err != nil {
		return nil, err
	}
	ret := make([]string, 0, len(instances))
	for _, anInstance := range instances {
		ret = append(ret, anInstance.ID)
	}
	return ret, nil
}

// Terminate stops a running instance. It returns false when the instance was
// already closed.
func (r *Runtime) Terminate(ctx context.Context, id string) (bool, error) {
	terminated := false
	_, err := r.step(ctx, id, "terminate", func(ctx context.Context, anInstance *instance.Instance, _ *instance.Context) error {
		anInstance.Status = instance.StatusTerminated
		terminated = true
		return nil
	})
	if errors.Is(err, ErrInstanceClosed) {
		return false, nil
	}
	return terminated, err
}

func (r *Runtime) step(ctx context.Context, id, name string, fn stepFn) (ret *instance.Instance, err error) {
	ctx, span := tracing.StartSpan(ctx, "approvalflow."+name)
	span.WithAttributes(map[string]string{logging.KeyInstanceID: id})
	defer func() { tracing.EndSpan(span, err) }()

	stored, err := r.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow %v: %w", id, err)
	}
	if stored.Status == instance.StatusTerminated || (stored.Status == instance.StatusCompleted && name != approval.MethodFinalize) {
		return nil, fmt.Errorf("failed to %v workflow %v (%v): %w", name, id, stored.Status, ErrInstanceClosed)
	}
	anInstance := stored.Clone()
	wctx := anInstance.Context()
	if err = fn(ctx, anInstance, wctx); err != nil {
		return nil, err
	}
	anInstance.Apply(wctx)
	anInstance.UpdatedAt = clock.Now()
	if err = r.store.Save(ctx, anInstance); err != nil {
		return nil, fmt.Errorf("failed to save workflow %v after %v: %w", id, name, err)
	}
	return anInstance, nil
}

func (r *Runtime) publish(ctx context.Context, anInstance *instance.Instance, eventType event.Type, data interface{}) {
	if r.events == nil {
		return
	}
	eventCtx := &event.Context{InstanceID: anInstance.ID, ContentID: anInstance.Payload, Type: eventType}
	var err error
	switch actual := data.(type) {
	case event.Decision:
		err = event.Publish(ctx, r.events, eventCtx, actual)
	case event.Escalation:
		err = event.Publish(ctx, r.events, eventCtx, actual)
	case event.Completion:
		err = event.Publish(ctx, r.events, eventCtx, actual)
	}
	if err != nil {
		r.logger.Warn("failed to publish event", logging.InstanceID(anInstance.ID), zap.String("type", string(eventType)), zap.Error(err))
	}
}

var _ escalation.Checker = (*Runtime)(nil)
