package escalation

import (
	"context"
	"time"

	"github.com/viant/approvalflow/logging"
	"go.uber.org/zap"
)

// Checker runs escalation checks against persisted instances
type Checker interface {
	// Pending returns ids of instances awaiting a decision
	Pending(ctx context.Context) ([]string, error)
	// Escalate runs a single escalation check for the instance
	Escalate(ctx context.Context, id string, request *Request) (*Outcome, error)
}

// Poll starts a goroutine that periodically checks every pending instance.
// It returns stop(); call it (or cancel ctx) to exit.
func Poll(ctx context.Context, checker Checker, args string, interval time.Duration, logger *zap.Logger) (stop func()) {
	if interval <= 0 {
		interval = time.Minute
	}
	logger = logging.OrNop(logger)
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				PollOnce(ctx, checker, args, logger)
			}
		}
	}()
	return func() { close(done) }
}

// PollOnce checks every pending instance once and returns the number escalated
func PollOnce(ctx context.Context, checker Checker, args string, logger *zap.Logger) int {
	logger = logging.OrNop(logger)
	ids, err := checker.Pending(ctx)
	if err != nil {
		logger.Error("failed to list pending instances", zap.Error(err))
		return 0
	}
	escalated := 0
	for _, id := range ids {
		outcome, err := checker.Escalate(ctx, id, &Request{Args: args})
		if err != nil {
			logger.Warn("escalation check failed", logging.InstanceID(id), zap.Error(err))
			continue
		}
		if outcome.Escalated() {
			escalated++
		}
	}
	return escalated
}
