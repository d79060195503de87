package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AnkitRegmi1/TruSwap/internal/domain"
)

const orderColumns = `id, listing_id, item_name, item_image_url, price, buyer_email, buyer_name,
buyer_user_id, seller_email, seller_name, status, purchase_date`

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) ListByBuyerUserID(ctx context.Context, buyerUserID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE buyer_user_id = $1 ORDER BY purchase_date DESC`

	rows, err := r.pool.Query(ctx, query, buyerUserID)
	if err != nil {
		return nil, fmt.Errorf("list orders by buyer user id: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *OrderRepository) ListByBuyerEmail(ctx context.Context, buyerEmail string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE buyer_email = $1 ORDER BY purchase_date DESC`

	rows, err := r.pool.Query(ctx, query, buyerEmail)
	if err != nil {
		return nil, fmt.Errorf("list orders by buyer email: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *OrderRepository) ListBySellerEmail(ctx context.Context, sellerEmail string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE seller_email = $1 ORDER BY purchase_date DESC`

	rows, err := r.pool.Query(ctx, query, sellerEmail)
	if err != nil {
		return nil, fmt.Errorf("list orders by seller email: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

// ListForListings returns orders placed against any of the given listings.
func (r *OrderRepository) ListForListings(ctx context.Context, listingIDs []int64) ([]domain.Order, error) {
	if len(listingIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE listing_id = ANY($1) ORDER BY purchase_date DESC`

	rows, err := r.pool.Query(ctx, query, listingIDs)
	if err != nil {
		return nil, fmt.Errorf("list orders for listings: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY purchase_date DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all orders: %w", err)
	}
	defer rows.Close()
	return collectOrders(rows)
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID,
		&o.ListingID,
		&o.ItemName,
		&o.ItemImageURL,
		&o.Price,
		&o.BuyerEmail,
		&o.BuyerName,
		&o.BuyerUserID,
		&o.SellerEmail,
		&o.SellerName,
		&o.Status,
		&o.PurchaseDate,
	)
	return o, err
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}
