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

// PaymentRepository implements port.PaymentRepository. The payment log is
// append-only; there is deliberately no update or delete.
type PaymentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *sql.DB, logger *zap.Logger) port.PaymentRepository {
	return &PaymentRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new payment record
func (r *PaymentRepository) Create(ctx context.Context, record *entity.PaymentRecord) error {
	query := `
		INSERT INTO payment_records (
			recommendation_id, transaction_id, amount, method, outcome, created_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query,
		record.RecommendationID,
		record.TransactionID,
		record.Amount,
		record.Method,
		record.Outcome,
		record.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create payment record",
			zap.Int64("recommendation_id", record.RecommendationID), zap.Error(err))
		return fmt.Errorf("failed to create payment record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	record.ID = id
	return nil
}

// ListByRecommendationID retrieves all payment records for a recommendation,
// oldest first
func (r *PaymentRepository) ListByRecommendationID(ctx context.Context, recommendationID int64) ([]*entity.PaymentRecord, error) {
	query := `
		SELECT id, recommendation_id, transaction_id, amount, method, outcome, created_at
		FROM payment_records
		WHERE recommendation_id = ?
		ORDER BY created_at ASC
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, recommendationID)
	if err != nil {
		r.logger.Error("Failed to list payment records",
			zap.Int64("recommendation_id", recommendationID), zap.Error(err))
		return nil, fmt.Errorf("failed to list payment records: %w", err)
	}
	defer rows.Close()

	var records []*entity.PaymentRecord
	for rows.Next() {
		var record entity.PaymentRecord

		err := rows.Scan(
			&record.ID,
			&record.RecommendationID,
			&record.TransactionID,
			&record.Amount,
			&record.Method,
			&record.Outcome,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment record: %w", err)
		}

		records = append(records, &record)
	}

	return records, rows.Err()
}

// getExecutor returns the enclosing transaction when one is in the context
func (r *PaymentRepository) getExecutor(ctx context.Context) executor {
	if tx := sqlite.ExtractTx(ctx); tx != nil {
		return tx
	}
	return r.db
}

// Verify interface compliance
var _ port.PaymentRepository = (*PaymentRepository)(nil)
