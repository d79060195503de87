package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AnkitRegmi1/TruSwap/internal/domain"
)

const listingColumns = `id, item_name, category, price, description, condition, image_url,
owner_user_id, owner_name, owner_email, group_id, listing_type, posted_at, is_sold`

type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) *ListingRepository {
	return &ListingRepository{pool: pool}
}

func (r *ListingRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return runInTx(ctx, r.pool, fn)
}

// CreateListing inserts the listing and returns it with the generated id.
func (r *ListingRepository) CreateListing(ctx context.Context, listing domain.Listing) (domain.Listing, error) {
	const stmt = `
INSERT INTO listings (item_name, category, price, description, condition, image_url,
	owner_user_id, owner_name, owner_email, group_id, listing_type, posted_at, is_sold)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id`

	err := r.queryRow(ctx, stmt,
		listing.ItemName,
		listing.Category,
		listing.Price,
		listing.Description,
		listing.Condition,
		listing.ImageURL,
		listing.OwnerUserID,
		listing.OwnerName,
		listing.OwnerEmail,
		nullString(listing.GroupID),
		listing.ListingType,
		listing.PostedAt,
		listing.IsSold,
	).Scan(&listing.ID)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("create listing: %w", err)
	}
	return listing, nil
}

func (r *ListingRepository) GetListing(ctx context.Context, id int64) (domain.Listing, error) {
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

// ListUnsold returns listings available for browsing, newest first.
func (r *ListingRepository) ListUnsold(ctx context.Context) ([]domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE NOT is_sold ORDER BY posted_at DESC`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list unsold listings: %w", err)
	}
	defer rows.Close()
	return collectListings(rows)
}

func (r *ListingRepository) ListByOwner(ctx context.Context, ownerUserID string) ([]domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE owner_user_id = $1 ORDER BY posted_at DESC`

	rows, err := r.query(ctx, query, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("list listings by owner: %w", err)
	}
	defer rows.Close()
	return collectListings(rows)
}

func scanListing(row pgx.Row) (domain.Listing, error) {
	var l domain.Listing
	var groupID *string
	err := row.Scan(
		&l.ID,
		&l.ItemName,
		&l.Category,
		&l.Price,
		&l.Description,
		&l.Condition,
		&l.ImageURL,
		&l.OwnerUserID,
		&l.OwnerName,
		&l.OwnerEmail,
		&groupID,
		&l.ListingType,
		&l.PostedAt,
		&l.IsSold,
	)
	if err != nil {
		return domain.Listing{}, err
	}
	if groupID != nil {
		l.GroupID = *groupID
	}
	return l, nil
}

func collectListings(rows pgx.Rows) ([]domain.Listing, error) {
	var listings []domain.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return listings, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *ListingRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := activeTx(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *ListingRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := activeTx(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
