package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/AnkitRegmi1/TruSwap/internal/clock"
	"github.com/AnkitRegmi1/TruSwap/internal/domain"
	"github.com/AnkitRegmi1/TruSwap/internal/paypal"
	"github.com/AnkitRegmi1/TruSwap/internal/storage/memory"
	"github.com/AnkitRegmi1/TruSwap/internal/storage/postgres"
	"github.com/AnkitRegmi1/TruSwap/internal/testutil"
)

func TestExecutePayment_ConcurrentIntegration(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	listingID := testutil.InsertListing(t, ctx, pool, domain.Listing{
		ItemName:    "Desk Lamp",
		Price:       100,
		OwnerUserID: "seller-1",
		OwnerEmail:  "seller@x.com",
		OwnerName:   "Seller",
	})

	repo := postgres.NewPaymentRepository(pool)
	intents := memory.NewIntentStore()
	gw := &fakeGateway{executeResult: paypal.Payment{
		ID:    "PAY-IT-1",
		State: "approved",
		Payer: paypal.Payer{PayerInfo: paypal.PayerInfo{
			Email:     "buyer@x.com",
			FirstName: "Ann",
			LastName:  "Lee",
		}},
	}}
	svc := NewPaymentService(repo, intents, gw, clock.NewSystem(), nil)

	err := intents.SaveIntent(ctx, domain.PaymentIntent{
		PaymentID:   "PAY-IT-1",
		ListingID:   listingID,
		BuyerUserID: "u1",
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("save intent: %v", err)
	}

	const callers = 4
	var wg sync.WaitGroup
	results := make([]ExecutePaymentResult, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.ExecutePayment(ctx, ExecutePaymentInput{
				PaymentID: "PAY-IT-1",
				PayerID:   "PAYER-1",
			})
		}(i)
	}
	wg.Wait()

	var fresh int
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d failed: %v", i, errs[i])
		}
		if results[i].OrderID != results[0].OrderID {
			t.Fatalf("divergent order ids: %s vs %s", results[i].OrderID, results[0].OrderID)
		}
		if !results[i].AlreadyProcessed {
			fresh++
		}
	}
	if fresh != 1 {
		t.Fatalf("expected exactly one fresh order result, got %d", fresh)
	}

	var orderCount int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM orders WHERE listing_id = $1`, listingID).Scan(&orderCount); err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if orderCount != 1 {
		t.Fatalf("expected exactly one order row, got %d", orderCount)
	}

	var sold bool
	if err := pool.QueryRow(ctx, `SELECT is_sold FROM listings WHERE id = $1`, listingID).Scan(&sold); err != nil {
		t.Fatalf("read listing: %v", err)
	}
	if !sold {
		t.Fatalf("expected listing marked sold")
	}
}
