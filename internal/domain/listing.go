package domain

import "time"

type ListingType string

const (
	ListingTypeSell ListingType = "sell"
	ListingTypeRent ListingType = "rent"
)

// Listing represents an item offered for sale or rent by a user.
type Listing struct {
	ID          int64       `json:"id"`
	ItemName    string      `json:"itemName"`
	Category    string      `json:"category"`
	Price       int         `json:"price"`
	Description string      `json:"description"`
	Condition   string      `json:"condition"`
	ImageURL    string      `json:"imageUrl"`
	OwnerUserID string      `json:"userId"`
	OwnerName   string      `json:"name"`
	OwnerEmail  string      `json:"email"`
	GroupID     string      `json:"groupId,omitempty"`
	ListingType ListingType `json:"listingType"`
	PostedAt    time.Time   `json:"datePosted"`
	IsSold      bool        `json:"isSold"`
}
