package entity

import "time"

// PaymentRecord is one row of the append-only payment audit trail. Rows are
// never mutated after insertion.
type PaymentRecord struct {
	ID               int64     `json:"id"`
	RecommendationID int64     `json:"recommendation_id"`
	TransactionID    string    `json:"transaction_id"`
	Amount           float64   `json:"amount"`
	Method           string    `json:"method"`
	Outcome          string    `json:"outcome"`
	CreatedAt        time.Time `json:"created_at"`
}
