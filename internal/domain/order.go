package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order represents a purchase derived from an executed payment.
// At most one completed order may exist per listing.
type Order struct {
	ID           string      `json:"id"`
	ListingID    int64       `json:"listingId"`
	ItemName     string      `json:"itemName"`
	ItemImageURL string      `json:"itemImageUrl"`
	Price        int         `json:"price"`
	BuyerEmail   string      `json:"buyerEmail"`
	BuyerName    string      `json:"buyerName"`
	BuyerUserID  string      `json:"buyerUserId"`
	SellerEmail  string      `json:"sellerEmail"`
	SellerName   string      `json:"sellerName"`
	Status       OrderStatus `json:"status"`
	PurchaseDate time.Time   `json:"purchaseDate"`
}
