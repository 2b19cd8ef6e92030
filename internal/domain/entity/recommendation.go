package entity

import "time"

// Recommendation represents an AI-generated recommendation going through the
// pay-then-review lifecycle. It is mutated exclusively by the status service.
type Recommendation struct {
	ID             int64      `json:"id"`
	LifecycleState string     `json:"lifecycle_state"`
	PaymentState   string     `json:"payment_state"`
	ReviewState    string     `json:"review_state"`
	VisibleToUser  bool       `json:"visible_to_user"`
	ConversationID *string    `json:"conversation_id,omitempty"`
	SessionID      *string    `json:"session_id,omitempty"`
	Content        string     `json:"content"`
	ReviewerNotes  string     `json:"reviewer_notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
}

// StatusSnapshot is the full read-only view of a recommendation's state fields.
type StatusSnapshot struct {
	ID             int64      `json:"id"`
	LifecycleState string     `json:"lifecycle_state"`
	PaymentState   string     `json:"payment_state"`
	ReviewState    string     `json:"review_state"`
	VisibleToUser  bool       `json:"visible_to_user"`
	Content        string     `json:"content"`
	ReviewerNotes  string     `json:"reviewer_notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
}

// DisplayPayload is the role- and state-aware projection served to front-ends.
// Content is populated only when the recommendation is visible to the user;
// otherwise it is omitted from the payload entirely.
type DisplayPayload struct {
	ID             int64   `json:"id"`
	StatusLine     string  `json:"status_line"`
	ActionRequired string  `json:"action_required"`
	Visible        bool    `json:"visible"`
	Content        *string `json:"content,omitempty"`
	ReviewerNotes  string  `json:"reviewer_notes,omitempty"`
}
