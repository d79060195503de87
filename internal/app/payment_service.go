package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/AnkitRegmi1/TruSwap/internal/clock"
	"github.com/AnkitRegmi1/TruSwap/internal/domain"
	"github.com/AnkitRegmi1/TruSwap/internal/paypal"
)

// PaymentRepository is the transactional storage surface for reconciling an
// executed payment into a (sold listing, order) pair.
type PaymentRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetListing(ctx context.Context, id int64) (domain.Listing, error)
	GetListingForUpdate(ctx context.Context, id int64) (domain.Listing, error)
	MarkListingSold(ctx context.Context, id int64) error
	FindOrderByBuyerAndListing(ctx context.Context, buyerUserID string, listingID int64) (*domain.Order, error)
	FindCompletedOrderByListing(ctx context.Context, listingID int64) (*domain.Order, error)
	CreateOrder(ctx context.Context, order domain.Order) error
}

// IntentStore links a provider payment id to the listing and buyer it was
// created for.
type IntentStore interface {
	SaveIntent(ctx context.Context, intent domain.PaymentIntent) error
	GetIntent(ctx context.Context, paymentID string) (domain.PaymentIntent, error)
	MarkExecuted(ctx context.Context, paymentID string) error
}

// Gateway is the payment provider surface used by the service.
type Gateway interface {
	CreatePayment(ctx context.Context, req paypal.CreatePaymentRequest) (paypal.Payment, error)
	ExecutePayment(ctx context.Context, paymentID, payerID string) (paypal.Payment, error)
	GetPayment(ctx context.Context, paymentID string) (paypal.Payment, error)
}

// ErrApprovalURLMissing reports a gateway response without an approval link.
var ErrApprovalURLMissing = errors.New("gateway response has no approval_url link")

type PaymentService struct {
	repo    PaymentRepository
	intents IntentStore
	gateway Gateway
	clock   clock.Clock
	logger  *log.Logger
}

func NewPaymentService(repo PaymentRepository, intents IntentStore, gateway Gateway, clk clock.Clock, logger *log.Logger) *PaymentService {
	if logger == nil {
		logger = log.Default()
	}
	return &PaymentService{
		repo:    repo,
		intents: intents,
		gateway: gateway,
		clock:   clk,
		logger:  logger,
	}
}

type CreatePaymentInput struct {
	ListingID   int64
	Price       int
	ItemName    string
	BuyerEmail  string
	BuyerName   string
	BuyerUserID string
	SuccessURL  string
	CancelURL   string
}

type CreatePaymentResult struct {
	PaymentID   string
	ApprovalURL string
}

// CreatePayment creates a provider-side payment for the listing and records
// the intent metadata so a later execute call can recover context.
func (s *PaymentService) CreatePayment(ctx context.Context, in CreatePaymentInput) (CreatePaymentResult, error) {
	if in.ListingID == 0 {
		return CreatePaymentResult{}, domain.ErrListingIDRequired
	}
	if in.BuyerEmail == "" {
		return CreatePaymentResult{}, domain.ErrBuyerEmailRequired
	}

	listing, err := s.repo.GetListing(ctx, in.ListingID)
	if err != nil {
		return CreatePaymentResult{}, err
	}
	if listing.IsSold {
		return CreatePaymentResult{}, domain.ErrListingAlreadySold
	}

	price := in.Price
	if price <= 0 {
		price = listing.Price
	}
	itemName := in.ItemName
	if itemName == "" {
		itemName = listing.ItemName
	}

	returnURL := buildReturnURL(in.SuccessURL, in.ListingID, in.BuyerUserID)

	payment, err := s.gateway.CreatePayment(ctx, paypal.CreatePaymentRequest{
		Amount: paypal.Amount{
			Currency: "USD",
			Total:    fmt.Sprintf("%.2f", float64(price)),
		},
		Description:   "Purchase: " + itemName,
		Custom:        strconv.FormatInt(in.ListingID, 10),
		InvoiceNumber: s.invoiceNumber(in.ListingID),
		ReturnURL:     returnURL,
		CancelURL:     in.CancelURL,
	})
	if err != nil {
		return CreatePaymentResult{}, err
	}

	approvalURL, ok := payment.ApprovalURL()
	if !ok {
		return CreatePaymentResult{}, ErrApprovalURLMissing
	}

	intent := domain.PaymentIntent{
		PaymentID:   payment.ID,
		ListingID:   in.ListingID,
		BuyerUserID: in.BuyerUserID,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.intents.SaveIntent(ctx, intent); err != nil {
		return CreatePaymentResult{}, err
	}

	s.logger.Printf("payment created paymentId=%s listingId=%d buyerUserId=%s", payment.ID, in.ListingID, in.BuyerUserID)
	return CreatePaymentResult{PaymentID: payment.ID, ApprovalURL: approvalURL}, nil
}

// invoiceNumber must be unique per attempt so the provider does not reject
// retries as duplicate transactions.
func (s *PaymentService) invoiceNumber(listingID int64) string {
	return fmt.Sprintf("%d-%d-%s", listingID, s.clock.Now().UnixMilli(), uuid.NewString()[:8])
}

// buildReturnURL strips any query from the caller's success URL and appends
// listingId/buyerUserId so the execute step can recover context even if the
// client loses it.
func buildReturnURL(successURL string, listingID int64, buyerUserID string) string {
	base := successURL
	if i := strings.Index(base, "?"); i >= 0 {
		base = base[:i]
	}

	params := url.Values{}
	params.Set("listingId", strconv.FormatInt(listingID, 10))
	if buyerUserID != "" {
		params.Set("buyerUserId", buyerUserID)
	}
	return base + "?" + params.Encode()
}

type ExecutePaymentInput struct {
	PaymentID   string
	PayerID     string
	ListingID   int64
	BuyerUserID string
}

type ExecutePaymentResult struct {
	OrderID          string
	BuyerEmail       string
	AlreadyProcessed bool
	AlreadyExecuted  bool
}

// ExecutePayment finalizes an approved payment: it marks the listing sold
// and creates exactly one completed order, converging to the same order
// under retries, duplicate callbacks and concurrent calls.
func (s *PaymentService) ExecutePayment(ctx context.Context, in ExecutePaymentInput) (ExecutePaymentResult, error) {
	if in.PaymentID == "" {
		return ExecutePaymentResult{}, domain.ErrPaymentIDRequired
	}
	if in.PayerID == "" {
		return ExecutePaymentResult{}, domain.ErrPayerIDRequired
	}

	listingID := in.ListingID
	buyerUserID := in.BuyerUserID
	if listingID == 0 || buyerUserID == "" {
		if intent, err := s.intents.GetIntent(ctx, in.PaymentID); err == nil {
			if listingID == 0 {
				listingID = intent.ListingID
			}
			if buyerUserID == "" {
				buyerUserID = intent.BuyerUserID
			}
		} else if !errors.Is(err, domain.ErrIntentNotFound) {
			return ExecutePaymentResult{}, err
		}
	}
	if listingID == 0 {
		return ExecutePaymentResult{}, domain.ErrListingUnresolved
	}

	payment, alreadyExecuted, err := s.executeOrRecover(ctx, in.PaymentID, in.PayerID)
	if err != nil {
		return ExecutePaymentResult{}, err
	}
	if !payment.Approved() && !alreadyExecuted {
		return ExecutePaymentResult{}, fmt.Errorf("%w: state %s", domain.ErrPaymentNotApproved, payment.State)
	}

	if err := s.intents.MarkExecuted(ctx, in.PaymentID); err != nil && !errors.Is(err, domain.ErrIntentNotFound) {
		s.logger.Printf("WARN: mark intent executed paymentId=%s: %v", in.PaymentID, err)
	}

	buyerEmail := payment.Payer.PayerInfo.Email
	buyerName := strings.TrimSpace(payment.Payer.PayerInfo.FirstName + " " + payment.Payer.PayerInfo.LastName)
	if buyerName == "" {
		buyerName = "Buyer"
	}
	if buyerUserID == "" {
		buyerUserID = "unknown"
	}

	var result ExecutePaymentResult
	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		// The row lock serializes concurrent executes for the same listing,
		// so the duplicate checks below must run after it is held. A check
		// done before the lock could read a snapshot that predates a
		// concurrent winner's commit.
		listing, err := s.repo.GetListingForUpdate(txCtx, listingID)
		if err != nil {
			return err
		}

		existing, err := s.repo.FindOrderByBuyerAndListing(txCtx, buyerUserID, listingID)
		if err != nil {
			return err
		}
		if existing == nil {
			existing, err = s.repo.FindCompletedOrderByListing(txCtx, listingID)
			if err != nil {
				return err
			}
		}
		if existing != nil {
			result = ExecutePaymentResult{
				OrderID:          existing.ID,
				BuyerEmail:       existing.BuyerEmail,
				AlreadyProcessed: true,
				AlreadyExecuted:  alreadyExecuted,
			}
			return nil
		}

		if err := s.repo.MarkListingSold(txCtx, listingID); err != nil {
			return err
		}

		order := domain.Order{
			ID:           uuid.NewString(),
			ListingID:    listingID,
			ItemName:     listing.ItemName,
			ItemImageURL: listing.ImageURL,
			Price:        listing.Price,
			BuyerEmail:   buyerEmail,
			BuyerName:    buyerName,
			BuyerUserID:  buyerUserID,
			SellerEmail:  listing.OwnerEmail,
			SellerName:   listing.OwnerName,
			Status:       domain.OrderStatusCompleted,
			PurchaseDate: s.clock.Now(),
		}

		if err := s.repo.CreateOrder(txCtx, order); err != nil {
			return err
		}

		result = ExecutePaymentResult{
			OrderID:         order.ID,
			BuyerEmail:      order.BuyerEmail,
			AlreadyExecuted: alreadyExecuted,
		}
		return nil
	})
	if err != nil {
		return ExecutePaymentResult{}, err
	}

	s.logger.Printf("payment executed paymentId=%s listingId=%d orderId=%s alreadyProcessed=%t",
		in.PaymentID, listingID, result.OrderID, result.AlreadyProcessed)
	return result, nil
}

// executeOrRecover runs the provider execute call. When the provider reports
// the payment as already executed, the current payment state is re-fetched
// to confirm it was approved.
func (s *PaymentService) executeOrRecover(ctx context.Context, paymentID, payerID string) (paypal.Payment, bool, error) {
	payment, err := s.gateway.ExecutePayment(ctx, paymentID, payerID)
	if err == nil {
		return payment, false, nil
	}
	if !errors.Is(err, paypal.ErrAlreadyExecuted) {
		return paypal.Payment{}, false, err
	}

	s.logger.Printf("payment already executed paymentId=%s, verifying state", paymentID)
	payment, getErr := s.gateway.GetPayment(ctx, paymentID)
	if getErr != nil {
		return paypal.Payment{}, false, fmt.Errorf("payment already executed but could not verify: %w", getErr)
	}
	if !payment.Approved() {
		return paypal.Payment{}, false, fmt.Errorf("%w: state %s", domain.ErrPaymentNotApproved, payment.State)
	}
	return payment, true, nil
}
