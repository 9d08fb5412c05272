package decision

import "github.com/viant/approvalflow/service/args"

// UnknownStep is used when the step title is not available
const UnknownStep = "Unknown Step"

// Request represents a decision submitted by an approver
type Request struct {
	// Args holds DECISION:<approve|reject>,COMMENTS:<text>
	Args         string `json:"args"`
	Approver     string `json:"approver,omitempty"`
	Initiator    string `json:"initiator,omitempty"`
	StepTitle    string `json:"stepTitle,omitempty"`
	InvocationID string `json:"invocationId,omitempty"`
}

// Result describes applied decision effects
type Result struct {
	Decision  *args.Decision `json:"decision"`
	Approver  string         `json:"approver"`
	Route     string         `json:"route"`
	Line      string         `json:"line,omitempty"`
	Duplicate bool           `json:"duplicate,omitempty"`
}

func (r *Request) approver() string {
	if r.Approver != "" {
		return r.Approver
	}
	return r.Initiator
}

func (r *Request) stepTitle() string {
	if r.StepTitle != "" {
		return r.StepTitle
	}
	return UnknownStep
}
