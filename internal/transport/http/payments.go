package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/AnkitRegmi1/TruSwap/internal/app"
	"github.com/AnkitRegmi1/TruSwap/internal/domain"
)

type PaymentCreator interface {
	CreatePayment(ctx context.Context, in app.CreatePaymentInput) (app.CreatePaymentResult, error)
}

type PaymentExecutor interface {
	ExecutePayment(ctx context.Context, in app.ExecutePaymentInput) (app.ExecutePaymentResult, error)
}

type createPaymentRequest struct {
	ListingID   int64  `json:"listingId"`
	Price       int    `json:"price"`
	ItemName    string `json:"itemName"`
	BuyerEmail  string `json:"buyerEmail"`
	BuyerName   string `json:"buyerName"`
	BuyerUserID string `json:"buyerUserId"`
	SuccessURL  string `json:"successUrl"`
	CancelURL   string `json:"cancelUrl"`
}

type createPaymentResponse struct {
	PaymentID   string `json:"paymentId"`
	ApprovalURL string `json:"approvalUrl"`
}

// HandleCreatePayment starts the payment flow for a listing. Buyer details
// missing from the request fall back to the authenticated identity.
func HandleCreatePayment(svc PaymentCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized", domain.ErrUnauthenticated.Error())
			return
		}

		var req createPaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request", "invalid request body")
			return
		}

		buyerEmail := req.BuyerEmail
		if buyerEmail == "" {
			buyerEmail = identity.Email
		}
		buyerName := req.BuyerName
		if buyerName == "" {
			buyerName = identity.Name
		}
		buyerUserID := req.BuyerUserID
		if buyerUserID == "" {
			buyerUserID = identity.Subject
		}

		result, err := svc.CreatePayment(r.Context(), app.CreatePaymentInput{
			ListingID:   req.ListingID,
			Price:       req.Price,
			ItemName:    req.ItemName,
			BuyerEmail:  buyerEmail,
			BuyerName:   buyerName,
			BuyerUserID: buyerUserID,
			SuccessURL:  req.SuccessURL,
			CancelURL:   req.CancelURL,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, createPaymentResponse{
			PaymentID:   result.PaymentID,
			ApprovalURL: result.ApprovalURL,
		})
	}
}

// executePaymentRequest mirrors the client callback payload; listingId
// arrives as a string because it is relayed from the return-URL query.
type executePaymentRequest struct {
	PaymentID   string `json:"paymentId"`
	PayerID     string `json:"payerId"`
	ListingID   string `json:"listingId"`
	BuyerUserID string `json:"buyerUserId"`
}

type executePaymentResponse struct {
	Status           string `json:"status"`
	Message          string `json:"message"`
	OrderID          string `json:"orderId,omitempty"`
	BuyerEmail       string `json:"buyerEmail,omitempty"`
	AlreadyProcessed bool   `json:"alreadyProcessed,omitempty"`
}

// HandleExecutePayment completes the flow after buyer approval.
func HandleExecutePayment(svc PaymentExecutor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req executePaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request", "invalid request body")
			return
		}

		var listingID int64
		if req.ListingID != "" {
			id, err := strconv.ParseInt(req.ListingID, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid request", "listingId must be numeric")
				return
			}
			listingID = id
		}

		result, err := svc.ExecutePayment(r.Context(), app.ExecutePaymentInput{
			PaymentID:   req.PaymentID,
			PayerID:     req.PayerID,
			ListingID:   listingID,
			BuyerUserID: req.BuyerUserID,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := executePaymentResponse{
			Status:           "success",
			OrderID:          result.OrderID,
			BuyerEmail:       result.BuyerEmail,
			AlreadyProcessed: result.AlreadyProcessed,
		}
		switch {
		case result.AlreadyProcessed:
			resp.Message = "Payment already processed"
		case result.AlreadyExecuted:
			resp.Message = "Payment was already completed, order created"
		default:
			resp.Message = "Payment completed successfully"
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
