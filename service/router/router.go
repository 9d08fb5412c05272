package router

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

// Group names used outside of department scoped levels
const (
	DefaultDepartment      = "default"
	GroupContentGovernance = "content-governance"
	GroupAdministrators    = "administrators"
)

// departmentSegment is the slash separated index holding the department,
// e.g. /content/site/marketing/page
const departmentSegment = 3

// Router assigns an approver group to the current approval level
type Router struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Route returns the approver group for the content at location and advances
// the approval level. Any fault yields GroupAdministrators.
func (r *Router) Route(ctx context.Context, wctx *instance.Context, location string) (group string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("failed to determine approver", zap.Any("panic", rec), logging.Path(location))
			group = GroupAdministrators
		}
	}()
	if err := ctx.Err(); err != nil {
		r.logger.Error("failed to determine approver", zap.Error(err), logging.Path(location))
		return GroupAdministrators
	}
	if wctx == nil {
		r.logger.Error("failed to determine approver", zap.Error(fmt.Errorf("workflow context was nil")), logging.Path(location))
		return GroupAdministrators
	}
	level, ok, err := wctx.GetInt(instance.KeyApprovalLevel)
	if err != nil {
		r.logger.Error("failed to determine approver", zap.Error(err), logging.InstanceID(wctx.ID))
		return GroupAdministrators
	}
	if !ok {
		level = 1
	}
	department := Department(location)
	group = GroupFor(level, department)

	wctx.Set(instance.KeyCurrentStepStartTime, clock.Now())
	wctx.Set(instance.KeyCurrentStepLevel, level)
	wctx.Set(instance.KeyApprovalLevel, level+1)

	r.metrics.ObserveRoute(group)
	r.logger.Info("routing approval",
		logging.InstanceID(wctx.ID),
		zap.String(logging.KeyGroup, group),
		zap.Int(logging.KeyLevel, level),
		logging.Path(location))
	return group
}

// GroupFor maps an approval level and department to an approver group
func GroupFor(level int, department string) string {
	department = Sanitize(department)
	switch level {
	case 1:
		return department + "-reviewers"
	case 2:
		return department + "-managers"
	case 3:
		return GroupContentGovernance
	default:
		return GroupAdministrators
	}
}

// Department extracts the sanitized department from a content location
func Department(location string) string {
	segments := strings.Split(location, "/")
	if len(segments) <= departmentSegment {
		return DefaultDepartment
	}
	return Sanitize(segments[departmentSegment])
}

// Sanitize keeps only [A-Za-z0-9-_]; an empty result becomes DefaultDepartment
func Sanitize(input string) string {
	var builder strings.Builder
	for i := 0; i < len(input); i++ {
		c := input[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			builder.WriteByte(c)
		}
	}
	if builder.Len() == 0 {
		return DefaultDepartment
	}
	return builder.String()
}

// New creates a router
func New(opts ...Option) *Router {
	ret := &Router{}
	for _, opt := range opts {
		opt(ret)
	}
	ret.logger = logging.OrNop(ret.logger)
	return ret
}
