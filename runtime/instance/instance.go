package instance

import "time"

// Status represents instance lifecycle status
type Status string

const (
	StatusRunning    Status = "running"
	StatusCompleted  Status = "completed"
	StatusTerminated Status = "terminated"
)

// Instance is a persisted workflow instance
type Instance struct {
	ID        string                 `json:"id"`
	Model     string                 `json:"model,omitempty"`
	Payload   string                 `json:"payload"`
	Initiator string                 `json:"initiator,omitempty"`
	Status    Status                 `json:"status"`
	State     map[string]interface{} `json:"state"`
	Version   int                    `json:"version"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

// Context returns a workflow context seeded with the instance state
func (i *Instance) Context(opts ...Option) *Context {
	opts = append([]Option{WithState(i.State)}, opts...)
	return NewContext(i.ID, opts...)
}

// Apply stores the context snapshot as the instance state
func (i *Instance) Apply(c *Context) {
	i.State = c.Snapshot()
}

// IsTerminal returns true when no further step may run
func (i *Instance) IsTerminal() bool {
	return i.Status == StatusCompleted || i.Status == StatusTerminated
}

// Clone returns a copy safe to mutate
func (i *Instance) Clone() *Instance {
	if i == nil {
		return nil
	}
	ret := *i
	ret.State = make(map[string]interface{}, len(i.State))
	for k, v := range i.State {
		if ids, ok := v.([]string); ok {
			v = append([]string(nil), ids...)
		}
		ret.State[k] = v
	}
	return &ret
}
