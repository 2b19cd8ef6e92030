package service

import (
	"context"
	"errors"
	"testing"

	"github.com/liuyang/ai-recommendation/internal/domain/entity"
)

// mockStatusService serves canned snapshots to the projector
type mockStatusService struct {
	StatusService
	snapshot *entity.StatusSnapshot
	err      error
}

func (m *mockStatusService) GetStatus(ctx context.Context, id int64) (*entity.StatusSnapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshot, nil
}

func snapshotCreated(id int64) *entity.StatusSnapshot {
	return &entity.StatusSnapshot{
		ID:             id,
		LifecycleState: entity.LifecycleCreated,
		PaymentState:   entity.PaymentUnpaid,
		ReviewState:    entity.ReviewNotSubmitted,
		VisibleToUser:  false,
		Content:        "secret plan",
	}
}

func TestGetProjection_AwaitingPayment(t *testing.T) {
	svc := NewDisplayService(&mockStatusService{snapshot: snapshotCreated(1)}, nopLogger{})

	payload, err := svc.GetProjection(context.Background(), 1, entity.RoleSubmitter)
	if err != nil {
		t.Fatalf("GetProjection() error = %v", err)
	}
	if payload.StatusLine != "awaiting payment" {
		t.Errorf("status line = %q, want %q", payload.StatusLine, "awaiting payment")
	}
	if payload.ActionRequired != entity.ActionPay {
		t.Errorf("action required = %q, want %q", payload.ActionRequired, entity.ActionPay)
	}
	if payload.Content != nil {
		t.Errorf("content included for unpaid recommendation: %q", *payload.Content)
	}
}

func TestGetProjection_UnpaidContentHiddenFromReviewer(t *testing.T) {
	svc := NewDisplayService(&mockStatusService{snapshot: snapshotCreated(1)}, nopLogger{})

	payload, err := svc.GetProjection(context.Background(), 1, entity.RoleReviewer)
	if err != nil {
		t.Fatalf("GetProjection() error = %v", err)
	}
	if payload.Content != nil {
		t.Error("content included for reviewer on unpaid recommendation")
	}
}

func TestGetProjection_UnderReview(t *testing.T) {
	snapshot := &entity.StatusSnapshot{
		ID:             2,
		LifecycleState: entity.LifecyclePendingReview,
		PaymentState:   entity.PaymentPaid,
		ReviewState:    entity.ReviewPendingReview,
		VisibleToUser:  true,
		Content:        "the plan",
	}
	svc := NewDisplayService(&mockStatusService{snapshot: snapshot}, nopLogger{})

	payload, err := svc.GetProjection(context.Background(), 2, entity.RoleSubmitter)
	if err != nil {
		t.Fatalf("GetProjection() error = %v", err)
	}
	if payload.StatusLine != "under review" {
		t.Errorf("status line = %q, want %q", payload.StatusLine, "under review")
	}
	if payload.ActionRequired != entity.ActionWait {
		t.Errorf("action required = %q, want %q", payload.ActionRequired, entity.ActionWait)
	}
	if payload.Content == nil || *payload.Content != "the plan" {
		t.Errorf("content = %v, want %q", payload.Content, "the plan")
	}
}

func TestGetProjection_TerminalStates(t *testing.T) {
	tests := []struct {
		lifecycle  string
		review     string
		statusLine string
	}{
		{entity.LifecycleApproved, entity.ReviewApproved, "approved"},
		{entity.LifecycleRejected, entity.ReviewRejected, "rejected"},
	}

	for _, tt := range tests {
		t.Run(tt.statusLine, func(t *testing.T) {
			snapshot := &entity.StatusSnapshot{
				ID:             3,
				LifecycleState: tt.lifecycle,
				PaymentState:   entity.PaymentPaid,
				ReviewState:    tt.review,
				VisibleToUser:  true,
				Content:        "the plan",
				ReviewerNotes:  "notes",
			}
			svc := NewDisplayService(&mockStatusService{snapshot: snapshot}, nopLogger{})

			payload, err := svc.GetProjection(context.Background(), 3, entity.RoleSubmitter)
			if err != nil {
				t.Fatalf("GetProjection() error = %v", err)
			}
			if payload.StatusLine != tt.statusLine {
				t.Errorf("status line = %q, want %q", payload.StatusLine, tt.statusLine)
			}
			if payload.ActionRequired != entity.ActionNone {
				t.Errorf("action required = %q, want %q", payload.ActionRequired, entity.ActionNone)
			}
			if payload.ReviewerNotes != "notes" {
				t.Errorf("reviewer notes = %q, want %q", payload.ReviewerNotes, "notes")
			}
		})
	}
}

func TestGetProjection_ConsistencyViolations(t *testing.T) {
	tests := []struct {
		name     string
		snapshot *entity.StatusSnapshot
	}{
		{
			"lifecycle contradicts review state",
			&entity.StatusSnapshot{
				ID:             4,
				LifecycleState: entity.LifecycleApproved,
				PaymentState:   entity.PaymentPaid,
				ReviewState:    entity.ReviewPendingReview,
				VisibleToUser:  true,
			},
		},
		{
			"in review while unpaid",
			&entity.StatusSnapshot{
				ID:             5,
				LifecycleState: entity.LifecyclePendingReview,
				PaymentState:   entity.PaymentUnpaid,
				ReviewState:    entity.ReviewPendingReview,
				VisibleToUser:  false,
			},
		},
		{
			"visible while unpaid",
			&entity.StatusSnapshot{
				ID:             6,
				LifecycleState: entity.LifecycleCreated,
				PaymentState:   entity.PaymentUnpaid,
				ReviewState:    entity.ReviewNotSubmitted,
				VisibleToUser:  true,
			},
		},
		{
			"invisible while paid",
			&entity.StatusSnapshot{
				ID:             7,
				LifecycleState: entity.LifecycleApproved,
				PaymentState:   entity.PaymentPaid,
				ReviewState:    entity.ReviewApproved,
				VisibleToUser:  false,
			},
		},
		{
			"unknown lifecycle state",
			&entity.StatusSnapshot{
				ID:             8,
				LifecycleState: "LIMBO",
				PaymentState:   entity.PaymentPaid,
				ReviewState:    entity.ReviewApproved,
				VisibleToUser:  true,
			},
		},
		{
			"unparseable payment state",
			&entity.StatusSnapshot{
				ID:             9,
				LifecycleState: entity.LifecycleApproved,
				PaymentState:   "SETTLED",
				ReviewState:    entity.ReviewApproved,
				VisibleToUser:  true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewDisplayService(&mockStatusService{snapshot: tt.snapshot}, nopLogger{})

			_, err := svc.GetProjection(context.Background(), tt.snapshot.ID, entity.RoleSubmitter)
			if !errors.Is(err, ErrConsistencyViolation) {
				t.Errorf("GetProjection() error = %v, want ErrConsistencyViolation", err)
			}
		})
	}
}

func TestGetProjection_PropagatesNotFound(t *testing.T) {
	svc := NewDisplayService(&mockStatusService{err: ErrNotFound}, nopLogger{})

	_, err := svc.GetProjection(context.Background(), 42, entity.RoleSubmitter)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetProjection() error = %v, want ErrNotFound", err)
	}
}
