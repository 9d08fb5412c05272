// Package decision records approve and reject decisions submitted by
// approvers. Each recorded decision appends exactly one line to the
// approval history, overwrites the last decision fields and sets the
// workflow route used by the runtime to pick the next step.
//
// Unlike routing, recording failures are returned to the caller.
package decision
