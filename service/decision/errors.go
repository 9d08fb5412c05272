package decision

import "errors"

var (
	// ErrNilContext is returned when no workflow context was supplied
	ErrNilContext = errors.New("decision: workflow context was nil")

	// ErrMissingApprover is returned when neither approver nor initiator is known
	ErrMissingApprover = errors.New("decision: missing approver")

	// ErrInvalidDecision is returned in strict mode for values other than approve or reject
	ErrInvalidDecision = errors.New("decision: invalid decision")
)
