package escalation

// Transition names the state change applied by a single poll
type Transition string

const (
	// TransitionTracked means tracking started on this poll
	TransitionTracked Transition = "tracked"
	// TransitionPending means the threshold was not reached
	TransitionPending Transition = "pending"
	// TransitionEscalated means the level was escalated on this poll
	TransitionEscalated Transition = "escalated"
	// TransitionAlreadyEscalated means an earlier poll escalated the workflow
	TransitionAlreadyEscalated Transition = "already-escalated"
	// TransitionSkipped means the poll was a replay or hit a fault
	TransitionSkipped Transition = "skipped"
)

// Outcome describes the result of an escalation check
type Outcome struct {
	Transition     Transition `json:"transition"`
	ElapsedHours   int        `json:"elapsedHours"`
	ThresholdHours int        `json:"thresholdHours"`
	Target         string     `json:"target,omitempty"`
	Reason         string     `json:"reason,omitempty"`
}

// Escalated returns true when this poll escalated the workflow
func (o *Outcome) Escalated() bool {
	return o != nil && o.Transition == TransitionEscalated
}

// Request represents an escalation check invocation
type Request struct {
	// Args holds optional THRESHOLD_HOURS:<int>
	Args         string `json:"args,omitempty"`
	InvocationID string `json:"invocationId,omitempty"`
}
