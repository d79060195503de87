package domain

import "time"

// PaymentIntent links a provider-side payment to the listing and buyer it
// was created for, bridging the create and execute steps.
type PaymentIntent struct {
	PaymentID   string
	ListingID   int64
	BuyerUserID string
	Executed    bool
	CreatedAt   time.Time
}
