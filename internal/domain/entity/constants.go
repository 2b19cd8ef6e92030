package entity

// Lifecycle state constants for Recommendation
const (
	LifecycleCreated       = "CREATED"
	LifecyclePendingReview = "PENDING_REVIEW"
	LifecycleApproved      = "APPROVED"
	LifecycleRejected      = "REJECTED"
)

// Payment state constants for Recommendation
const (
	PaymentUnpaid = "UNPAID"
	PaymentPaid   = "PAID"
)

// Review state constants for Recommendation. Kept redundant with the
// lifecycle state for backward-compatible readers; the status service keeps
// the two in lockstep.
const (
	ReviewNotSubmitted  = "NOT_SUBMITTED"
	ReviewPendingReview = "PENDING_REVIEW"
	ReviewApproved      = "APPROVED"
	ReviewRejected      = "REJECTED"
)

// Review task status constants
const (
	TaskStatusPending   = "PENDING"
	TaskStatusCompleted = "COMPLETED"
)

// Payment outcome constants
const (
	PaymentOutcomeConfirmed = "CONFIRMED"
)

// Reviewer decision constants
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// Action-required tags emitted by the display projection
const (
	ActionPay  = "pay"
	ActionWait = "wait"
	ActionNone = "none"
)

// Viewer roles for the display projection
const (
	RoleSubmitter = "submitter"
	RoleReviewer  = "reviewer"
)
