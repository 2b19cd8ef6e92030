package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/liuyang/ai-recommendation/internal/application/port"
	"github.com/liuyang/ai-recommendation/internal/domain/entity"
	"github.com/liuyang/ai-recommendation/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Payment result markers
const (
	PaymentApplied     = "paid"
	PaymentAlreadyPaid = "already_paid"
)

// PaymentResult reports the outcome of ApplyPayment. Status is
// PaymentAlreadyPaid when the recommendation was paid before the call,
// in which case no writes were made.
type PaymentResult struct {
	Status           string `json:"status"`
	RecommendationID int64  `json:"recommendation_id"`
	LifecycleState   string `json:"lifecycle_state"`
}

// StatusService is the sole mutator of recommendation state. Every operation
// validates against the transition table first and executes its writes in a
// single transaction; no other component writes to recommendations, review
// tasks, or payment records.
type StatusService interface {
	CreateRecommendation(ctx context.Context, conversationID, sessionID *string, content string) (*entity.Recommendation, error)
	ApplyPayment(ctx context.Context, id int64, amount float64, method string) (*PaymentResult, error)
	ApplyReviewDecision(ctx context.Context, id int64, decision, reviewerID, notes string) error
	GetStatus(ctx context.Context, id int64) (*entity.StatusSnapshot, error)
	ListReviewTasks(ctx context.Context, status string, limit, offset int) ([]*entity.ReviewTask, error)
	GetPayments(ctx context.Context, id int64) ([]*entity.PaymentRecord, error)
}

type statusServiceImpl struct {
	recRepo     port.RecommendationRepository
	taskRepo    port.ReviewTaskRepository
	paymentRepo port.PaymentRepository
	txManager   port.TransactionManager
	locks       *idLocker
	logger      Logger
}

// NewStatusService creates a new StatusService
func NewStatusService(
	recRepo port.RecommendationRepository,
	taskRepo port.ReviewTaskRepository,
	paymentRepo port.PaymentRepository,
	txManager port.TransactionManager,
	logger Logger,
) StatusService {
	return &statusServiceImpl{
		recRepo:     recRepo,
		taskRepo:    taskRepo,
		paymentRepo: paymentRepo,
		txManager:   txManager,
		locks:       newIDLocker(),
		logger:      logger,
	}
}

// CreateRecommendation creates a new recommendation in state CREATED, unpaid
// and invisible. The upstream generator calls this once per artifact.
func (s *statusServiceImpl) CreateRecommendation(ctx context.Context, conversationID, sessionID *string, content string) (*entity.Recommendation, error) {
	now := time.Now()
	rec := &entity.Recommendation{
		LifecycleState: entity.LifecycleCreated,
		PaymentState:   entity.PaymentUnpaid,
		ReviewState:    entity.ReviewNotSubmitted,
		VisibleToUser:  false,
		ConversationID: conversationID,
		SessionID:      sessionID,
		Content:        content,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.recRepo.Create(ctx, rec); err != nil {
		s.logger.Error("Failed to create recommendation", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.logger.Info("Recommendation created", "id", rec.ID)
	return rec, nil
}

// ApplyPayment records a confirmed payment and moves the recommendation into
// review. Idempotent: a second confirmation for an already-paid
// recommendation returns PaymentAlreadyPaid and writes nothing.
func (s *statusServiceImpl) ApplyPayment(ctx context.Context, id int64, amount float64, method string) (*PaymentResult, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	var result *PaymentResult

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		rec, err := s.recRepo.GetByID(txCtx, id)
		if err != nil {
			return fmt.Errorf("get recommendation: %w", err)
		}
		if rec == nil {
			return fmt.Errorf("%w: recommendation %d", ErrNotFound, id)
		}

		payState, err := workflow.ParsePaymentState(rec.PaymentState)
		if err != nil {
			return fmt.Errorf("%w: recommendation %d: %v", ErrConsistencyViolation, id, err)
		}
		if payState == workflow.PaymentPaid {
			result = &PaymentResult{
				Status:           PaymentAlreadyPaid,
				RecommendationID: id,
				LifecycleState:   rec.LifecycleState,
			}
			return nil
		}

		next, err := workflow.Validate(workflow.State(rec.LifecycleState), workflow.TriggerPay)
		if err != nil {
			return err
		}

		now := time.Now()

		payment := &entity.PaymentRecord{
			RecommendationID: id,
			TransactionID:    uuid.NewString(),
			Amount:           amount,
			Method:           method,
			Outcome:          entity.PaymentOutcomeConfirmed,
			CreatedAt:        now,
		}
		if err := s.paymentRepo.Create(txCtx, payment); err != nil {
			return fmt.Errorf("create payment record: %w", err)
		}

		rec.PaymentState = entity.PaymentPaid
		rec.LifecycleState = next.String()
		rec.ReviewState = entity.ReviewPendingReview
		rec.VisibleToUser = true
		rec.UpdatedAt = now
		if err := s.recRepo.Update(txCtx, rec); err != nil {
			return fmt.Errorf("update recommendation: %w", err)
		}

		// The linking key is resolved here, inside the transaction, from the
		// row just read. Callers never pass it in.
		key := resolveConversationKey(rec)

		existing, err := s.taskRepo.GetPendingByRecommendationID(txCtx, id)
		if err != nil {
			return fmt.Errorf("get review task: %w", err)
		}
		if existing == nil {
			task := &entity.ReviewTask{
				RecommendationID: id,
				ConversationKey:  key,
				Status:           entity.TaskStatusPending,
				SubmittedAt:      now,
			}
			if err := s.taskRepo.Create(txCtx, task); err != nil {
				return fmt.Errorf("create review task: %w", err)
			}
		}

		result = &PaymentResult{
			Status:           PaymentApplied,
			RecommendationID: id,
			LifecycleState:   rec.LifecycleState,
		}
		return nil
	})

	if err != nil {
		s.logger.Error("Failed to apply payment", "error", err, "id", id)
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.logger.Info("Payment applied", "id", id, "status", result.Status)
	return result, nil
}

// ApplyReviewDecision records a reviewer's approve or reject decision and
// completes the matching review task. Not idempotent: a second decision on a
// terminal recommendation fails with ErrInvalidTransition.
func (s *statusServiceImpl) ApplyReviewDecision(ctx context.Context, id int64, decision, reviewerID, notes string) error {
	trigger, err := decisionTrigger(decision)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		rec, err := s.recRepo.GetByID(txCtx, id)
		if err != nil {
			return fmt.Errorf("get recommendation: %w", err)
		}
		if rec == nil {
			return fmt.Errorf("%w: recommendation %d", ErrNotFound, id)
		}

		next, err := workflow.Validate(workflow.State(rec.LifecycleState), trigger)
		if err != nil {
			return err
		}

		now := time.Now()

		rec.LifecycleState = next.String()
		rec.ReviewState = next.String()
		rec.ReviewerNotes = notes
		rec.ReviewedAt = &now
		rec.UpdatedAt = now
		if err := s.recRepo.Update(txCtx, rec); err != nil {
			return fmt.Errorf("update recommendation: %w", err)
		}

		task, err := s.taskRepo.GetPendingByRecommendationID(txCtx, id)
		if err != nil {
			return fmt.Errorf("get review task: %w", err)
		}
		if task == nil {
			// A recommendation in review without a pending task is an
			// upstream data-integrity problem; surface it.
			return fmt.Errorf("%w: pending review task for recommendation %d", ErrNotFound, id)
		}
		if err := s.taskRepo.Complete(txCtx, task.ID, reviewerID, now); err != nil {
			return fmt.Errorf("complete review task: %w", err)
		}

		return nil
	})

	if err != nil {
		s.logger.Error("Failed to apply review decision", "error", err, "id", id, "decision", decision)
		if isDomainError(err) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.logger.Info("Review decision applied", "id", id, "decision", decision, "reviewer_id", reviewerID)
	return nil
}

// GetStatus returns the full set of state fields. Read-only.
func (s *statusServiceImpl) GetStatus(ctx context.Context, id int64) (*entity.StatusSnapshot, error) {
	rec, err := s.recRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get recommendation", "error", err, "id", id)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: recommendation %d", ErrNotFound, id)
	}

	return &entity.StatusSnapshot{
		ID:             rec.ID,
		LifecycleState: rec.LifecycleState,
		PaymentState:   rec.PaymentState,
		ReviewState:    rec.ReviewState,
		VisibleToUser:  rec.VisibleToUser,
		Content:        rec.Content,
		ReviewerNotes:  rec.ReviewerNotes,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
		ReviewedAt:     rec.ReviewedAt,
	}, nil
}

// ListReviewTasks retrieves review tasks by status with pagination
func (s *statusServiceImpl) ListReviewTasks(ctx context.Context, status string, limit, offset int) ([]*entity.ReviewTask, error) {
	tasks, err := s.taskRepo.ListByStatus(ctx, status, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list review tasks", "error", err, "status", status)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return tasks, nil
}

// GetPayments retrieves the payment log for a recommendation
func (s *statusServiceImpl) GetPayments(ctx context.Context, id int64) ([]*entity.PaymentRecord, error) {
	records, err := s.paymentRepo.ListByRecommendationID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to list payments", "error", err, "id", id)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return records, nil
}

// resolveConversationKey resolves the NOT NULL linking key for a review task:
// conversation id, else session id, else a placeholder derived from the
// recommendation id.
func resolveConversationKey(rec *entity.Recommendation) string {
	if rec.ConversationID != nil && *rec.ConversationID != "" {
		return *rec.ConversationID
	}
	if rec.SessionID != nil && *rec.SessionID != "" {
		return *rec.SessionID
	}
	return fmt.Sprintf("unknown_%d", rec.ID)
}

// decisionTrigger maps a reviewer decision to its workflow trigger
func decisionTrigger(decision string) (workflow.Trigger, error) {
	switch decision {
	case entity.DecisionApprove:
		return workflow.TriggerApprove, nil
	case entity.DecisionReject:
		return workflow.TriggerReject, nil
	default:
		return "", fmt.Errorf("%w: unknown decision %q", ErrInvalidTransition, decision)
	}
}
