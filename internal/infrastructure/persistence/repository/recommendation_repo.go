package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/liuyang/ai-recommendation/internal/application/port"
	"github.com/liuyang/ai-recommendation/internal/domain/entity"
	"github.com/liuyang/ai-recommendation/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
)

// RecommendationRepository implements port.RecommendationRepository
type RecommendationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRecommendationRepository creates a new recommendation repository
func NewRecommendationRepository(db *sql.DB, logger *zap.Logger) port.RecommendationRepository {
	return &RecommendationRepository{
		db:     db,
		logger: logger,
	}
}

const recommendationColumns = `
	id, lifecycle_state, payment_state, review_state, visible_to_user,
	conversation_id, session_id, content, reviewer_notes,
	created_at, updated_at, reviewed_at
`

// Create inserts a new recommendation
func (r *RecommendationRepository) Create(ctx context.Context, rec *entity.Recommendation) error {
	query := `
		INSERT INTO recommendations (
			lifecycle_state, payment_state, review_state, visible_to_user,
			conversation_id, session_id, content, reviewer_notes,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		rec.LifecycleState,
		rec.PaymentState,
		rec.ReviewState,
		rec.VisibleToUser,
		rec.ConversationID,
		rec.SessionID,
		rec.Content,
		rec.ReviewerNotes,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create recommendation", zap.Error(err))
		return fmt.Errorf("failed to create recommendation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	rec.ID = id
	return nil
}

// GetByID retrieves a recommendation by ID. Returns (nil, nil) when no row exists.
func (r *RecommendationRepository) GetByID(ctx context.Context, id int64) (*entity.Recommendation, error) {
	query := `SELECT ` + recommendationColumns + ` FROM recommendations WHERE id = ?`

	rec, err := scanRecommendation(r.getExecutor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get recommendation", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get recommendation: %w", err)
	}

	return rec, nil
}

// Update writes all mutable fields of a recommendation
func (r *RecommendationRepository) Update(ctx context.Context, rec *entity.Recommendation) error {
	query := `
		UPDATE recommendations SET
			lifecycle_state = ?, payment_state = ?, review_state = ?,
			visible_to_user = ?, reviewer_notes = ?, updated_at = ?, reviewed_at = ?
		WHERE id = ?
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		rec.LifecycleState,
		rec.PaymentState,
		rec.ReviewState,
		rec.VisibleToUser,
		rec.ReviewerNotes,
		rec.UpdatedAt,
		rec.ReviewedAt,
		rec.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update recommendation", zap.Int64("id", rec.ID), zap.Error(err))
		return fmt.Errorf("failed to update recommendation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("recommendation %d not found for update", rec.ID)
	}

	return nil
}

// List retrieves recommendations with pagination, newest first
func (r *RecommendationRepository) List(ctx context.Context, limit, offset int) ([]*entity.Recommendation, error) {
	query := `SELECT ` + recommendationColumns + `
		FROM recommendations
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list recommendations", zap.Error(err))
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer rows.Close()

	var recs []*entity.Recommendation
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecommendation(row rowScanner) (*entity.Recommendation, error) {
	var rec entity.Recommendation
	var conversationID, sessionID sql.NullString
	var reviewedAt sql.NullTime

	err := row.Scan(
		&rec.ID,
		&rec.LifecycleState,
		&rec.PaymentState,
		&rec.ReviewState,
		&rec.VisibleToUser,
		&conversationID,
		&sessionID,
		&rec.Content,
		&rec.ReviewerNotes,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&reviewedAt,
	)
	if err != nil {
		return nil, err
	}

	if conversationID.Valid {
		rec.ConversationID = &conversationID.String
	}
	if sessionID.Valid {
		rec.SessionID = &sessionID.String
	}
	if reviewedAt.Valid {
		rec.ReviewedAt = &reviewedAt.Time
	}

	return &rec, nil
}

// getExecutor returns the enclosing transaction when one is in the context
func (r *RecommendationRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// executor interface covers both *sql.DB and *sql.Tx
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Verify interface compliance
var _ port.RecommendationRepository = (*RecommendationRepository)(nil)
