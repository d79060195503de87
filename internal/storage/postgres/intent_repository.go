package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AnkitRegmi1/TruSwap/internal/domain"
)

// IntentRepository stores payment intent metadata durably so the execute
// step can recover listing/buyer context across process restarts.
type IntentRepository struct {
	pool *pgxpool.Pool
}

func NewIntentRepository(pool *pgxpool.Pool) *IntentRepository {
	return &IntentRepository{pool: pool}
}

func (r *IntentRepository) SaveIntent(ctx context.Context, intent domain.PaymentIntent) error {
	const stmt = `
INSERT INTO payment_intents (payment_id, listing_id, buyer_user_id, executed, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (payment_id) DO NOTHING`

	_, err := r.pool.Exec(ctx, stmt,
		intent.PaymentID,
		intent.ListingID,
		intent.BuyerUserID,
		intent.Executed,
		intent.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save payment intent: %w", err)
	}
	return nil
}

func (r *IntentRepository) GetIntent(ctx context.Context, paymentID string) (domain.PaymentIntent, error) {
	const query = `
SELECT payment_id, listing_id, buyer_user_id, executed, created_at
FROM payment_intents
WHERE payment_id = $1`

	var intent domain.PaymentIntent
	err := r.pool.QueryRow(ctx, query, paymentID).
		Scan(&intent.PaymentID, &intent.ListingID, &intent.BuyerUserID, &intent.Executed, &intent.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.PaymentIntent{}, domain.ErrIntentNotFound
		}
		return domain.PaymentIntent{}, fmt.Errorf("get payment intent: %w", err)
	}
	return intent, nil
}

func (r *IntentRepository) MarkExecuted(ctx context.Context, paymentID string) error {
	const stmt = `UPDATE payment_intents SET executed = TRUE WHERE payment_id = $1`

	tag, err := r.pool.Exec(ctx, stmt, paymentID)
	if err != nil {
		return fmt.Errorf("mark intent executed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrIntentNotFound
	}
	return nil
}
