package logging

import "go.uber.org/zap"

// Log field keys
const (
	KeyInstanceID   = "instanceId"
	KeyLevel        = "level"
	KeyGroup        = "group"
	KeyDepartment   = "department"
	KeyApprover     = "approver"
	KeyDecision     = "decision"
	KeyRoute        = "route"
	KeyInvocationID = "invocationId"
	KeyElapsedHours = "elapsedHours"
	KeyThreshold    = "thresholdHours"
	KeyTarget       = "target"
	KeyOutcome      = "outcome"
	KeyPath         = "path"
	KeyStep         = "step"
)

// InstanceID returns the instance id field
func InstanceID(id string) zap.Field { return zap.String(KeyInstanceID, id) }

// Path returns the content path field
func Path(path string) zap.Field { return zap.String(KeyPath, path) }
