package event

// Decision is published once a decision is recorded
type Decision struct {
	Decision string `json:"decision"`
	Approver string `json:"approver"`
	Comments string `json:"comments,omitempty"`
	Route    string `json:"route"`
}

// Escalation is published when a step times out
type Escalation struct {
	Target       string `json:"target"`
	Reason       string `json:"reason"`
	ElapsedHours int    `json:"elapsedHours"`
}

// Completion is published once a workflow is finalized
type Completion struct {
	Outcome      string `json:"outcome"`
	Escalated    bool   `json:"escalated"`
	Initiator    string `json:"initiator,omitempty"`
	Notification string `json:"notification"`
}
