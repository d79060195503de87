package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AnkitRegmi1/TruSwap/internal/app"
	"github.com/AnkitRegmi1/TruSwap/internal/auth"
	"github.com/AnkitRegmi1/TruSwap/internal/domain"
	"github.com/AnkitRegmi1/TruSwap/internal/paypal"
)

func TestHandleCreatePayment(t *testing.T) {
	t.Parallel()

	identity := auth.Identity{Subject: "u1", Email: "ann@x.com", Name: "Ann Lee"}

	authedRequest := func(body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/payments/create-payment", strings.NewReader(body))
		return req.WithContext(WithIdentity(req.Context(), identity))
	}

	t.Run("returns payment id and approval url", func(t *testing.T) {
		var gotInput app.CreatePaymentInput
		svc := &stubPaymentService{
			create: func(_ context.Context, in app.CreatePaymentInput) (app.CreatePaymentResult, error) {
				gotInput = in
				return app.CreatePaymentResult{PaymentID: "PAY-1", ApprovalURL: "https://paypal.test/approve"}, nil
			},
		}

		rec := httptest.NewRecorder()
		HandleCreatePayment(svc).ServeHTTP(rec, authedRequest(`{
			"listingId": 42,
			"price": 100,
			"itemName": "Desk Lamp",
			"successUrl": "https://app.test/success",
			"cancelUrl": "https://app.test/cancel"
		}`))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
		}
		var resp struct {
			PaymentID   string `json:"paymentId"`
			ApprovalURL string `json:"approvalUrl"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.PaymentID != "PAY-1" || resp.ApprovalURL != "https://paypal.test/approve" {
			t.Fatalf("unexpected response: %+v", resp)
		}

		// Buyer details absent from the body come from the identity.
		if gotInput.BuyerEmail != "ann@x.com" || gotInput.BuyerName != "Ann Lee" || gotInput.BuyerUserID != "u1" {
			t.Fatalf("expected identity fallback, got %+v", gotInput)
		}
	})

	t.Run("body buyer fields win over identity", func(t *testing.T) {
		var gotInput app.CreatePaymentInput
		svc := &stubPaymentService{
			create: func(_ context.Context, in app.CreatePaymentInput) (app.CreatePaymentResult, error) {
				gotInput = in
				return app.CreatePaymentResult{PaymentID: "PAY-1", ApprovalURL: "https://x"}, nil
			},
		}

		rec := httptest.NewRecorder()
		HandleCreatePayment(svc).ServeHTTP(rec, authedRequest(`{
			"listingId": 42,
			"buyerEmail": "other@x.com",
			"buyerUserId": "u9"
		}`))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotInput.BuyerEmail != "other@x.com" || gotInput.BuyerUserID != "u9" {
			t.Fatalf("expected body fields kept, got %+v", gotInput)
		}
	})

	t.Run("error mapping", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			wantStatus int
		}{
			{"missing listing id", domain.ErrListingIDRequired, http.StatusBadRequest},
			{"listing not found", domain.ErrListingNotFound, http.StatusNotFound},
			{"already sold", domain.ErrListingAlreadySold, http.StatusConflict},
			{"no approval link", app.ErrApprovalURLMissing, http.StatusInternalServerError},
			{"provider failure", &paypal.APIError{Name: "INTERNAL_SERVICE_ERROR", Message: "boom"}, http.StatusInternalServerError},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := &stubPaymentService{
					create: func(context.Context, app.CreatePaymentInput) (app.CreatePaymentResult, error) {
						return app.CreatePaymentResult{}, tt.err
					},
				}
				rec := httptest.NewRecorder()
				HandleCreatePayment(svc).ServeHTTP(rec, authedRequest(`{"listingId": 42}`))
				if rec.Code != tt.wantStatus {
					t.Fatalf("expected %d, got %d body=%s", tt.wantStatus, rec.Code, rec.Body.String())
				}
				var resp errorResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decode error response: %v", err)
				}
				if resp.Error == "" {
					t.Fatalf("expected error field, got %s", rec.Body.String())
				}
			})
		}
	})

	t.Run("provider error surfaces provider message", func(t *testing.T) {
		svc := &stubPaymentService{
			create: func(context.Context, app.CreatePaymentInput) (app.CreatePaymentResult, error) {
				return app.CreatePaymentResult{}, &paypal.APIError{Name: "X", Message: "insufficient funds"}
			},
		}
		rec := httptest.NewRecorder()
		HandleCreatePayment(svc).ServeHTTP(rec, authedRequest(`{"listingId": 42}`))

		var resp errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Error != "Payment provider error" || resp.Message != "insufficient funds" {
			t.Fatalf("unexpected error body: %+v", resp)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleCreatePayment(&stubPaymentService{}).ServeHTTP(rec, authedRequest(`{not json`))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("missing identity", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/payments/create-payment", strings.NewReader(`{}`))
		HandleCreatePayment(&stubPaymentService{}).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestHandleExecutePayment(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		var gotInput app.ExecutePaymentInput
		svc := &stubPaymentService{
			execute: func(_ context.Context, in app.ExecutePaymentInput) (app.ExecutePaymentResult, error) {
				gotInput = in
				return app.ExecutePaymentResult{OrderID: "order-1", BuyerEmail: "buyer@x.com"}, nil
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/payments/execute", strings.NewReader(`{
			"paymentId": "PAY-1",
			"payerId": "PAYER-9",
			"listingId": "42",
			"buyerUserId": "u1"
		}`))
		HandleExecutePayment(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
		}
		if gotInput.ListingID != 42 || gotInput.PaymentID != "PAY-1" || gotInput.PayerID != "PAYER-9" {
			t.Fatalf("unexpected input: %+v", gotInput)
		}

		var resp executePaymentResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Status != "success" || resp.Message != "Payment completed successfully" || resp.OrderID != "order-1" {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("already processed", func(t *testing.T) {
		svc := &stubPaymentService{
			execute: func(context.Context, app.ExecutePaymentInput) (app.ExecutePaymentResult, error) {
				return app.ExecutePaymentResult{OrderID: "order-1", AlreadyProcessed: true}, nil
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/payments/execute",
			strings.NewReader(`{"paymentId":"PAY-1","payerId":"PAYER-9"}`))
		HandleExecutePayment(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp executePaymentResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if !resp.AlreadyProcessed || resp.Message != "Payment already processed" {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("recovered execution message", func(t *testing.T) {
		svc := &stubPaymentService{
			execute: func(context.Context, app.ExecutePaymentInput) (app.ExecutePaymentResult, error) {
				return app.ExecutePaymentResult{OrderID: "order-1", AlreadyExecuted: true}, nil
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/payments/execute",
			strings.NewReader(`{"paymentId":"PAY-1","payerId":"PAYER-9"}`))
		HandleExecutePayment(svc).ServeHTTP(rec, req)

		var resp executePaymentResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Message != "Payment was already completed, order created" {
			t.Fatalf("unexpected message: %q", resp.Message)
		}
	})

	t.Run("empty listing id string is passed as unresolved", func(t *testing.T) {
		var gotInput app.ExecutePaymentInput
		svc := &stubPaymentService{
			execute: func(_ context.Context, in app.ExecutePaymentInput) (app.ExecutePaymentResult, error) {
				gotInput = in
				return app.ExecutePaymentResult{OrderID: "order-1"}, nil
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/payments/execute",
			strings.NewReader(`{"paymentId":"PAY-1","payerId":"PAYER-9","listingId":""}`))
		HandleExecutePayment(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotInput.ListingID != 0 {
			t.Fatalf("expected zero listing id, got %d", gotInput.ListingID)
		}
	})

	t.Run("non-numeric listing id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/payments/execute",
			strings.NewReader(`{"paymentId":"PAY-1","payerId":"PAYER-9","listingId":"abc"}`))
		HandleExecutePayment(&stubPaymentService{}).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("error mapping", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			wantStatus int
		}{
			{"missing payer id", domain.ErrPayerIDRequired, http.StatusBadRequest},
			{"unresolved listing", domain.ErrListingUnresolved, http.StatusBadRequest},
			{"not approved", domain.ErrPaymentNotApproved, http.StatusBadRequest},
			{"listing vanished", domain.ErrListingNotFound, http.StatusNotFound},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := &stubPaymentService{
					execute: func(context.Context, app.ExecutePaymentInput) (app.ExecutePaymentResult, error) {
						return app.ExecutePaymentResult{}, tt.err
					},
				}
				rec := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodPost, "/api/payments/execute",
					strings.NewReader(`{"paymentId":"PAY-1","payerId":"PAYER-9"}`))
				HandleExecutePayment(svc).ServeHTTP(rec, req)
				if rec.Code != tt.wantStatus {
					t.Fatalf("expected %d, got %d body=%s", tt.wantStatus, rec.Code, rec.Body.String())
				}
			})
		}
	})
}

type stubPaymentService struct {
	create  func(ctx context.Context, in app.CreatePaymentInput) (app.CreatePaymentResult, error)
	execute func(ctx context.Context, in app.ExecutePaymentInput) (app.ExecutePaymentResult, error)
}

func (s *stubPaymentService) CreatePayment(ctx context.Context, in app.CreatePaymentInput) (app.CreatePaymentResult, error) {
	if s.create == nil {
		return app.CreatePaymentResult{}, nil
	}
	return s.create(ctx, in)
}

func (s *stubPaymentService) ExecutePayment(ctx context.Context, in app.ExecutePaymentInput) (app.ExecutePaymentResult, error) {
	if s.execute == nil {
		return app.ExecutePaymentResult{}, nil
	}
	return s.execute(ctx, in)
}
