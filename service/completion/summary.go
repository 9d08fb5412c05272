package completion

import (
	"strings"
	"time"

	"github.com/viant/approvalflow/runtime/instance"
)

// Summary represents a finalized workflow outcome
type Summary struct {
	ContentID    string    `json:"contentId"`
	Approved     bool      `json:"approved"`
	Escalated    bool      `json:"escalated"`
	History      string    `json:"history"`
	Notification string    `json:"notification"`
	CompletedAt  time.Time `json:"completedAt"`
}

// Outcome returns approved or rejected
func (s *Summary) Outcome() string {
	if s.Approved {
		return instance.OutcomeApproved
	}
	return instance.OutcomeRejected
}

// Text renders the completion notification body
func (s *Summary) Text() string {
	outcome := "REJECTED"
	if s.Approved {
		outcome = "APPROVED"
	}
	escalated := "No"
	if s.Escalated {
		escalated = "Yes"
	}
	var builder strings.Builder
	builder.WriteString("Workflow Completed\n")
	builder.WriteString("==================\n")
	builder.WriteString("Content: " + s.ContentID + "\n")
	builder.WriteString("Outcome: " + outcome + "\n")
	builder.WriteString("Escalated: " + escalated + "\n")
	builder.WriteString("\nApproval History:\n")
	builder.WriteString(s.History)
	return builder.String()
}
