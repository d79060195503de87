package domain

import "errors"

var (
	ErrListingNotFound    = errors.New("listing not found")
	ErrListingIDRequired  = errors.New("listingId must be provided and non-zero")
	ErrListingAlreadySold = errors.New("listing already sold")
	ErrGroupNotFound      = errors.New("group not found")
	ErrGroupNameRequired  = errors.New("group name required")
	ErrItemNameRequired   = errors.New("item name required")
	ErrInvalidPrice       = errors.New("invalid price")
	ErrInvalidListingType = errors.New("invalid listing type")
	ErrBuyerEmailRequired = errors.New("could not determine buyer email")
	ErrPaymentIDRequired  = errors.New("paymentId is required")
	ErrPayerIDRequired    = errors.New("payerId is required")
	ErrPaymentNotApproved = errors.New("payment not approved")
	ErrIntentNotFound     = errors.New("payment intent not found")
	ErrListingUnresolved  = errors.New("listingId could not be resolved from request or payment metadata")
	ErrOrderAlreadyExists = errors.New("order already exists for listing")
	ErrUnauthenticated    = errors.New("authentication required")
)
