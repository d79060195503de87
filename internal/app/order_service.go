package app

import (
	"context"

	"github.com/AnkitRegmi1/TruSwap/internal/domain"
)

type OrderRepository interface {
	ListByBuyerUserID(ctx context.Context, buyerUserID string) ([]domain.Order, error)
	ListByBuyerEmail(ctx context.Context, buyerEmail string) ([]domain.Order, error)
	ListBySellerEmail(ctx context.Context, sellerEmail string) ([]domain.Order, error)
	ListForListings(ctx context.Context, listingIDs []int64) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
}

type OrderService struct {
	orders   OrderRepository
	listings ListingRepository
}

func NewOrderService(orders OrderRepository, listings ListingRepository) *OrderService {
	return &OrderService{
		orders:   orders,
		listings: listings,
	}
}

// OrdersForBuyer looks up the user's purchases by user id, falling back to
// the buyer email for orders recorded before user ids were captured.
func (s *OrderService) OrdersForBuyer(ctx context.Context, userID, email string) ([]domain.Order, error) {
	orders, err := s.orders.ListByBuyerUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 && email != "" {
		return s.orders.ListByBuyerEmail(ctx, email)
	}
	return orders, nil
}

// SoldByUser returns orders placed against listings the user owns.
func (s *OrderService) SoldByUser(ctx context.Context, ownerUserID string) ([]domain.Order, error) {
	listings, err := s.listings.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(listings))
	for _, listing := range listings {
		ids = append(ids, listing.ID)
	}
	return s.orders.ListForListings(ctx, ids)
}

// SoldBySellerEmail is the fallback when the caller identity has no subject.
func (s *OrderService) SoldBySellerEmail(ctx context.Context, sellerEmail string) ([]domain.Order, error) {
	return s.orders.ListBySellerEmail(ctx, sellerEmail)
}

func (s *OrderService) AllOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListAll(ctx)
}
