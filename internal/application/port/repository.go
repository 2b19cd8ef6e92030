// Package port defines the interfaces between the application layer and
// infrastructure. Services depend on these interfaces only; concrete
// implementations live under internal/infrastructure.
package port

import (
	"context"
	"time"

	"github.com/liuyang/ai-recommendation/internal/domain/entity"
)

// RecommendationRepository defines persistence operations for Recommendation
type RecommendationRepository interface {
	Create(ctx context.Context, rec *entity.Recommendation) error
	GetByID(ctx context.Context, id int64) (*entity.Recommendation, error)
	Update(ctx context.Context, rec *entity.Recommendation) error
	List(ctx context.Context, limit, offset int) ([]*entity.Recommendation, error)
}

// ReviewTaskRepository defines persistence operations for ReviewTask
type ReviewTaskRepository interface {
	Create(ctx context.Context, task *entity.ReviewTask) error
	GetPendingByRecommendationID(ctx context.Context, recommendationID int64) (*entity.ReviewTask, error)
	Complete(ctx context.Context, id int64, reviewerID string, completedAt time.Time) error
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.ReviewTask, error)
}

// PaymentRepository defines persistence operations for the append-only
// payment log. Records are inserted, never updated.
type PaymentRepository interface {
	Create(ctx context.Context, record *entity.PaymentRecord) error
	ListByRecommendationID(ctx context.Context, recommendationID int64) ([]*entity.PaymentRecord, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
