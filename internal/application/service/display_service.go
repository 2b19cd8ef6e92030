package service

import (
	"context"
	"fmt"

	"github.com/liuyang/ai-recommendation/internal/domain/entity"
	"github.com/liuyang/ai-recommendation/internal/domain/workflow"
)

// DisplayService maps a recommendation's state and the viewer's role into the
// human-facing status payload. Read-only; it never mutates.
type DisplayService interface {
	GetProjection(ctx context.Context, id int64, role string) (*entity.DisplayPayload, error)
}

type displayServiceImpl struct {
	status StatusService
	logger Logger
}

// NewDisplayService creates a new DisplayService
func NewDisplayService(status StatusService, logger Logger) DisplayService {
	return &displayServiceImpl{
		status: status,
		logger: logger,
	}
}

// GetProjection builds the display payload for a recommendation. Content is
// included only when the recommendation is visible to the user, regardless of
// role; unknown roles get submitter visibility.
func (s *displayServiceImpl) GetProjection(ctx context.Context, id int64, role string) (*entity.DisplayPayload, error) {
	snapshot, err := s.status.GetStatus(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := checkConsistency(snapshot); err != nil {
		s.logger.Error("Inconsistent recommendation state",
			"id", snapshot.ID,
			"lifecycle_state", snapshot.LifecycleState,
			"payment_state", snapshot.PaymentState,
			"review_state", snapshot.ReviewState,
			"visible_to_user", snapshot.VisibleToUser,
			"error", err)
		return nil, err
	}

	payload := &entity.DisplayPayload{
		ID:      snapshot.ID,
		Visible: snapshot.VisibleToUser,
	}

	switch snapshot.LifecycleState {
	case entity.LifecycleCreated:
		payload.StatusLine = "awaiting payment"
		payload.ActionRequired = entity.ActionPay
	case entity.LifecyclePendingReview:
		payload.StatusLine = "under review"
		payload.ActionRequired = entity.ActionWait
	case entity.LifecycleApproved:
		payload.StatusLine = "approved"
		payload.ActionRequired = entity.ActionNone
	case entity.LifecycleRejected:
		payload.StatusLine = "rejected"
		payload.ActionRequired = entity.ActionNone
	}

	if snapshot.VisibleToUser {
		content := snapshot.Content
		payload.Content = &content
	}

	terminal := workflow.State(snapshot.LifecycleState).IsTerminal()
	if role == entity.RoleReviewer || terminal {
		payload.ReviewerNotes = snapshot.ReviewerNotes
	}

	return payload, nil
}

// reviewStateFor is the only review state consistent with each lifecycle state
var reviewStateFor = map[string]string{
	entity.LifecycleCreated:       entity.ReviewNotSubmitted,
	entity.LifecyclePendingReview: entity.ReviewPendingReview,
	entity.LifecycleApproved:      entity.ReviewApproved,
	entity.LifecycleRejected:      entity.ReviewRejected,
}

// checkConsistency verifies the snapshot's state axes agree with each other.
// A violation means the status service committed an invalid state and is the
// highest-severity error class this engine produces.
func checkConsistency(s *entity.StatusSnapshot) error {
	if !workflow.State(s.LifecycleState).IsValid() {
		return fmt.Errorf("%w: recommendation %d has unknown lifecycle state %q",
			ErrConsistencyViolation, s.ID, s.LifecycleState)
	}

	want, ok := reviewStateFor[s.LifecycleState]
	if !ok || s.ReviewState != want {
		return fmt.Errorf("%w: recommendation %d: lifecycle state %s contradicts review state %s",
			ErrConsistencyViolation, s.ID, s.LifecycleState, s.ReviewState)
	}

	payState, err := workflow.ParsePaymentState(s.PaymentState)
	if err != nil {
		return fmt.Errorf("%w: recommendation %d: %v", ErrConsistencyViolation, s.ID, err)
	}

	paid := payState == workflow.PaymentPaid
	if s.LifecycleState == entity.LifecyclePendingReview && !paid {
		return fmt.Errorf("%w: recommendation %d is in review while unpaid",
			ErrConsistencyViolation, s.ID)
	}
	if s.VisibleToUser != paid {
		return fmt.Errorf("%w: recommendation %d: visibility %t contradicts payment state %s",
			ErrConsistencyViolation, s.ID, s.VisibleToUser, s.PaymentState)
	}

	return nil
}
