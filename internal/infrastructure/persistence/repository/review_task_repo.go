package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/liuyang/ai-recommendation/internal/application/port"
	"github.com/liuyang/ai-recommendation/internal/domain/entity"
	"github.com/liuyang/ai-recommendation/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// ReviewTaskRepository implements port.ReviewTaskRepository
type ReviewTaskRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReviewTaskRepository creates a new review task repository
func NewReviewTaskRepository(db *sql.DB, logger *zap.Logger) port.ReviewTaskRepository {
	return &ReviewTaskRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new review task. The conversation_key column is NOT NULL;
// the status service resolves the key before calling.
func (r *ReviewTaskRepository) Create(ctx context.Context, task *entity.ReviewTask) error {
	query := `
		INSERT INTO review_tasks (
			recommendation_id, reviewer_id, conversation_key, status, submitted_at
		) VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		task.RecommendationID,
		task.ReviewerID,
		task.ConversationKey,
		task.Status,
		task.SubmittedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create review task",
			zap.Int64("recommendation_id", task.RecommendationID), zap.Error(err))
		return fmt.Errorf("failed to create review task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	task.ID = id
	return nil
}

// GetPendingByRecommendationID returns the active review task for a
// recommendation, or (nil, nil) when none exists.
func (r *ReviewTaskRepository) GetPendingByRecommendationID(ctx context.Context, recommendationID int64) (*entity.ReviewTask, error) {
	query := `
		SELECT id, recommendation_id, reviewer_id, conversation_key, status,
			submitted_at, completed_at
		FROM review_tasks
		WHERE recommendation_id = ? AND status = ?
	`

	var task entity.ReviewTask
	var completedAt sql.NullTime

	err := r.getExecutor(ctx).QueryRowContext(ctx, query, recommendationID, entity.TaskStatusPending).Scan(
		&task.ID,
		&task.RecommendationID,
		&task.ReviewerID,
		&task.ConversationKey,
		&task.Status,
		&task.SubmittedAt,
		&completedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get pending review task",
			zap.Int64("recommendation_id", recommendationID), zap.Error(err))
		return nil, fmt.Errorf("failed to get pending review task: %w", err)
	}

	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}

	return &task, nil
}

// Complete marks a review task completed and stamps the reviewer and time
func (r *ReviewTaskRepository) Complete(ctx context.Context, id int64, reviewerID string, completedAt time.Time) error {
	query := `
		UPDATE review_tasks
		SET status = ?, reviewer_id = ?, completed_at = ?
		WHERE id = ?
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		entity.TaskStatusCompleted, reviewerID, completedAt, id)
	if err != nil {
		r.logger.Error("Failed to complete review task", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to complete review task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("review task %d not found for completion", id)
	}

	return nil
}

// ListByStatus retrieves review tasks by status with pagination, oldest first
func (r *ReviewTaskRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.ReviewTask, error) {
	query := `
		SELECT id, recommendation_id, reviewer_id, conversation_key, status,
			submitted_at, completed_at
		FROM review_tasks
		WHERE status = ?
		ORDER BY submitted_at ASC
		LIMIT ? OFFSET ?
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, status, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list review tasks", zap.String("status", status), zap.Error(err))
		return nil, fmt.Errorf("failed to list review tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*entity.ReviewTask
	for rows.Next() {
		var task entity.ReviewTask
		var completedAt sql.NullTime

		err := rows.Scan(
			&task.ID,
			&task.RecommendationID,
			&task.ReviewerID,
			&task.ConversationKey,
			&task.Status,
			&task.SubmittedAt,
			&completedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review task: %w", err)
		}

		if completedAt.Valid {
			task.CompletedAt = &completedAt.Time
		}

		tasks = append(tasks, &task)
	}

	return tasks, rows.Err()
}

// getExecutor returns the enclosing transaction when one is in the context
func (r *ReviewTaskRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.ReviewTaskRepository = (*ReviewTaskRepository)(nil)
