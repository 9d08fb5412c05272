package instance

// Well-known workflow context keys shared by the router, recorder, monitor
// and finalizer.
const (
	KeyApprovalLevel        = "approvalLevel"
	KeyCurrentStepStartTime = "currentStepStartTime"
	KeyCurrentStepLevel     = "currentStepLevel"

	KeyEscalated        = "escalated"
	KeyEscalationTime   = "escalationTime"
	KeyEscalationReason = "escalationReason"
	KeyEscalationTarget = "escalationTarget"

	KeyApprovalHistory = "approvalHistory"

	KeyLastApprover     = "lastApprover"
	KeyLastDecision     = "lastDecision"
	KeyLastDecisionTime = "lastDecisionTime"
	KeyWorkflowRoute    = "workflowRoute"
	KeyRejectionReason  = "rejectionReason"

	KeyWorkflowCompleted      = "workflowCompleted"
	KeyWorkflowCompletedTime  = "workflowCompletedTime"
	KeyWorkflowOutcome        = "workflowOutcome"
	KeyCompletionNotification = "completionNotification"

	KeyAssetProcessed     = "assetProcessed"
	KeyAssetProcessedTime = "processedAt"

	KeyInitiatedBy = "initiatedBy"
	KeyPriority    = "priority"
	KeyStartedAt   = "timestamp"

	// KeyHistoryInvocations holds invocation ids whose effects were already applied.
	KeyHistoryInvocations = "historyInvocations"
)

// Route values written under KeyWorkflowRoute.
const (
	RouteApprove = "approve"
	RouteReject  = "reject"
)

// Outcome values written under KeyWorkflowOutcome.
const (
	OutcomeApproved = "approved"
	OutcomeRejected = "rejected"
)
