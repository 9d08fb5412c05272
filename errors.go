package approvalflow

import "errors"

var (
	// ErrInvalidPayload is returned when a workflow is started without content path
	ErrInvalidPayload = errors.New("workflow payload was empty")
	// ErrInstanceClosed is returned when a step targets a completed or terminated instance
	ErrInstanceClosed = errors.New("workflow instance is closed")
)
