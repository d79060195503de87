package app

import (
	"context"

	"github.com/AnkitRegmi1/TruSwap/internal/clock"
	"github.com/AnkitRegmi1/TruSwap/internal/domain"
)

type ListingRepository interface {
	CreateListing(ctx context.Context, listing domain.Listing) (domain.Listing, error)
	GetListing(ctx context.Context, id int64) (domain.Listing, error)
	ListUnsold(ctx context.Context) ([]domain.Listing, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]domain.Listing, error)
}

type ListingService struct {
	repo  ListingRepository
	clock clock.Clock
}

func NewListingService(repo ListingRepository, clk clock.Clock) *ListingService {
	return &ListingService{
		repo:  repo,
		clock: clk,
	}
}

type CreateListingInput struct {
	ItemName    string
	Category    string
	Price       int
	Description string
	Condition   string
	ImageURL    string
	GroupID     string
	ListingType string
	OwnerUserID string
	OwnerName   string
	OwnerEmail  string
}

func (s *ListingService) CreateListing(ctx context.Context, in CreateListingInput) (domain.Listing, error) {
	if in.ItemName == "" {
		return domain.Listing{}, domain.ErrItemNameRequired
	}
	if in.Price < 0 {
		return domain.Listing{}, domain.ErrInvalidPrice
	}

	listingType := domain.ListingType(in.ListingType)
	switch listingType {
	case "":
		listingType = domain.ListingTypeSell
	case domain.ListingTypeSell, domain.ListingTypeRent:
	default:
		return domain.Listing{}, domain.ErrInvalidListingType
	}

	listing := domain.Listing{
		ItemName:    in.ItemName,
		Category:    in.Category,
		Price:       in.Price,
		Description: in.Description,
		Condition:   in.Condition,
		ImageURL:    in.ImageURL,
		OwnerUserID: in.OwnerUserID,
		OwnerName:   in.OwnerName,
		OwnerEmail:  in.OwnerEmail,
		GroupID:     in.GroupID,
		ListingType: listingType,
		PostedAt:    s.clock.Now(),
		IsSold:      false,
	}

	return s.repo.CreateListing(ctx, listing)
}

// ListListings returns listings still available for purchase.
func (s *ListingService) ListListings(ctx context.Context) ([]domain.Listing, error) {
	return s.repo.ListUnsold(ctx)
}

func (s *ListingService) GetListing(ctx context.Context, id int64) (domain.Listing, error) {
	return s.repo.GetListing(ctx, id)
}

func (s *ListingService) MyListings(ctx context.Context, ownerUserID string) ([]domain.Listing, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}
