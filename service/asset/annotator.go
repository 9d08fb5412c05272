// Package asset stamps approval results onto the content resource a workflow
// was started for. Annotation is best effort: a missing resource or a failed
// commit is logged and never fails the workflow.
package asset

import (
	"context"

	"github.com/viant/approvalflow/internal/clock"
	"github.com/viant/approvalflow/logging"
	"github.com/viant/approvalflow/runtime/instance"
	"github.com/viant/approvalflow/service/completion"
	"github.com/viant/approvalflow/service/content"
	"go.uber.org/zap"
)

// Metadata properties written onto the resource.
const (
	PropertyOutcome     = "approvalOutcome"
	PropertyCompletedAt = "approvalCompletedAt"
	PropertyEscalated   = "approvalEscalated"
	PropertyProcessor   = "approvalProcessor"
)

// DefaultProcessor identifies the annotating component
const DefaultProcessor = "approvalflow"

// Annotator writes approval outcome metadata to content resources
type Annotator struct {
	store     content.Store
	logger    *zap.Logger
	processor string
}

// Option customises an Annotator
type Option func(a *Annotator)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(a *Annotator) {
		a.logger = logger
	}
}

// WithProcessor sets the processor name stamped on resources
func WithProcessor(name string) Option {
	return func(a *Annotator) {
		if name != "" {
			a.processor = name
		}
	}
}

// Annotate stamps summary on the resource at summary.ContentID. It returns
// true once changes are committed and records the result in wctx when given.
func (a *Annotator) Annotate(ctx context.Context, wctx *instance.Context, summary *completion.Summary) bool {
	if summary == nil {
		return false
	}
	logger := a.logger.With(logging.Path(summary.ContentID))
	resource, err := a.store.Get(ctx, summary.ContentID)
	if err != nil {
		logger.Error("failed to get resource", zap.Error(err))
		return false
	}
	if resource == nil {
		logger.Warn("resource not found")
		return false
	}
	now := clock.Now()
	properties := resource.Properties()
	properties[PropertyOutcome] = summary.Outcome()
	properties[PropertyCompletedAt] = summary.CompletedAt
	properties[PropertyEscalated] = summary.Escalated
	properties[PropertyProcessor] = a.processor
	if err = a.store.Commit(ctx); err != nil {
		logger.Error("failed to commit resource", zap.Error(err))
		return false
	}
	if wctx != nil {
		wctx.Set(instance.KeyAssetProcessed, true)
		wctx.Set(instance.KeyAssetProcessedTime, now)
	}
	logger.Info("resource annotated", zap.String(logging.KeyOutcome, summary.Outcome()))
	return true
}

// New creates an annotator
func New(store content.Store, opts ...Option) *Annotator {
	ret := &Annotator{store: store, logger: zap.NewNop(), processor: DefaultProcessor}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
