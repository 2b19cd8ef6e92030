package entity

import "time"

// ReviewTask is a review queue entry. At most one PENDING task exists per
// recommendation; it is completed exactly when the recommendation leaves
// PENDING_REVIEW.
type ReviewTask struct {
	ID               int64      `json:"id"`
	RecommendationID int64      `json:"recommendation_id"`
	ReviewerID       string     `json:"reviewer_id"`
	ConversationKey  string     `json:"conversation_key"`
	Status           string     `json:"status"`
	SubmittedAt      time.Time  `json:"submitted_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}
