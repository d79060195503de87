package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AnkitRegmi1/TruSwap/internal/domain"
)

// PaymentRepository backs the reconciliation flow: it locks the listing row,
// checks for an existing order, marks the listing sold and inserts the order
// inside one transaction.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return runInTx(ctx, r.pool, fn)
}

func (r *PaymentRepository) GetListingForUpdate(ctx context.Context, id int64) (domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1 FOR UPDATE`

	listing, err := scanListing(r.queryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Listing{}, domain.ErrListingNotFound
		}
		return domain.Listing{}, fmt.Errorf("get listing for update: %w", err)
	}
	return listing, nil
}

func (r *PaymentRepository) GetListing(ctx context.Context, id int64) (domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	listing, err := scanListing(r.queryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Listing{}, domain.ErrListingNotFound
		}
		return domain.Listing{}, fmt.Errorf("get listing: %w", err)
	}
	return listing, nil
}

// MarkListingSold is an idempotent false->true transition.
func (r *PaymentRepository) MarkListingSold(ctx context.Context, id int64) error {
	const stmt = `UPDATE listings SET is_sold = TRUE WHERE id = $1`

	tag, err := r.exec(ctx, stmt, id)
	if err != nil {
		return fmt.Errorf("mark listing sold: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

// FindOrderByBuyerAndListing returns the buyer's order for the listing, or
// nil when none exists.
func (r *PaymentRepository) FindOrderByBuyerAndListing(ctx context.Context, buyerUserID string, listingID int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE buyer_user_id = $1 AND listing_id = $2`

	order, err := scanOrder(r.queryRow(ctx, query, buyerUserID, listingID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find order by buyer and listing: %w", err)
	}
	return &order, nil
}

// FindCompletedOrderByListing returns the completed order for the listing,
// or nil when none exists.
func (r *PaymentRepository) FindCompletedOrderByListing(ctx context.Context, listingID int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE listing_id = $1 AND status = 'completed'`

	order, err := scanOrder(r.queryRow(ctx, query, listingID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find completed order by listing: %w", err)
	}
	return &order, nil
}

func (r *PaymentRepository) CreateOrder(ctx context.Context, order domain.Order) error {
	const stmt = `
INSERT INTO orders (id, listing_id, item_name, item_image_url, price, buyer_email, buyer_name,
	buyer_user_id, seller_email, seller_name, status, purchase_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.exec(ctx, stmt,
		order.ID,
		order.ListingID,
		order.ItemName,
		order.ItemImageURL,
		order.Price,
		order.BuyerEmail,
		order.BuyerName,
		order.BuyerUserID,
		order.SellerEmail,
		order.SellerName,
		order.Status,
		order.PurchaseDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderAlreadyExists
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (r *PaymentRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := activeTx(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *PaymentRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := activeTx(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
