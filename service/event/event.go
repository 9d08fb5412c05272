// Package event publishes workflow events (recorded decisions, escalations and
// completions) on typed queues. Every typed event is mirrored on a shared
// queue so a single listener can observe all of them.
package event

import (
	"time"

	"github.com/viant/approvalflow/internal/clock"
)

// Type represents an event type
type Type string

const (
	TypeDecision   Type = "decision"
	TypeEscalation Type = "escalation"
	TypeCompletion Type = "completion"
)

// Context identifies the workflow instance an event belongs to
type Context struct {
	InstanceID string `json:"instanceId"`
	ContentID  string `json:"contentId"`
	Type       Type   `json:"type"`
	Step       string `json:"step,omitempty"`
}

// Event is a workflow event envelope
type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Data      T                      `json:"data"`
}

// NewEvent creates an event
func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
