package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/AnkitRegmi1/TruSwap/internal/app"
	"github.com/AnkitRegmi1/TruSwap/internal/auth"
	"github.com/AnkitRegmi1/TruSwap/internal/domain"
)

func TestHandleListListings(t *testing.T) {
	t.Parallel()

	t.Run("returns listings", func(t *testing.T) {
		svc := &stubListingService{
			list: func(context.Context) ([]domain.Listing, error) {
				return []domain.Listing{{ID: 1, ItemName: "Lamp"}}, nil
			},
		}
		rec := httptest.NewRecorder()
		HandleListListings(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/listings", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var got []domain.Listing
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].ItemName != "Lamp" {
			t.Fatalf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("empty result is a JSON array", func(t *testing.T) {
		svc := &stubListingService{
			list: func(context.Context) ([]domain.Listing, error) { return nil, nil },
		}
		rec := httptest.NewRecorder()
		HandleListListings(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/listings", nil))

		if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
			t.Fatalf("expected [], got %s", body)
		}
	})
}

func TestHandleGetListing(t *testing.T) {
	t.Parallel()

	withVars := func(r *http.Request, id string) *http.Request {
		return mux.SetURLVars(r, map[string]string{"id": id})
	}

	t.Run("found", func(t *testing.T) {
		svc := &stubListingService{
			get: func(_ context.Context, id int64) (domain.Listing, error) {
				return domain.Listing{ID: id, ItemName: "Lamp"}, nil
			},
		}
		rec := httptest.NewRecorder()
		req := withVars(httptest.NewRequest(http.MethodGet, "/api/listings/42", nil), "42")
		HandleGetListing(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc := &stubListingService{
			get: func(context.Context, int64) (domain.Listing, error) {
				return domain.Listing{}, domain.ErrListingNotFound
			},
		}
		rec := httptest.NewRecorder()
		req := withVars(httptest.NewRequest(http.MethodGet, "/api/listings/404", nil), "404")
		HandleGetListing(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("non-numeric id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := withVars(httptest.NewRequest(http.MethodGet, "/api/listings/abc", nil), "abc")
		HandleGetListing(&stubListingService{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestHandleCreateListing(t *testing.T) {
	t.Parallel()

	identity := auth.Identity{Subject: "u1", Email: "ann@x.com", Name: "Ann Lee"}

	t.Run("creates with identity ownership", func(t *testing.T) {
		var gotInput app.CreateListingInput
		svc := &stubListingService{
			create: func(_ context.Context, in app.CreateListingInput) (domain.Listing, error) {
				gotInput = in
				return domain.Listing{ID: 1, ItemName: in.ItemName}, nil
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/createListing",
			strings.NewReader(`{"itemName":"Lamp","price":10}`))
		req = req.WithContext(WithIdentity(req.Context(), identity))
		HandleCreateListing(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
		}
		if gotInput.OwnerUserID != "u1" || gotInput.OwnerEmail != "ann@x.com" || gotInput.OwnerName != "Ann Lee" {
			t.Fatalf("expected identity ownership, got %+v", gotInput)
		}
	})

	t.Run("validation error maps to 400", func(t *testing.T) {
		svc := &stubListingService{
			create: func(context.Context, app.CreateListingInput) (domain.Listing, error) {
				return domain.Listing{}, domain.ErrItemNameRequired
			},
		}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/createListing", strings.NewReader(`{}`))
		req = req.WithContext(WithIdentity(req.Context(), identity))
		HandleCreateListing(svc).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("missing identity", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/createListing", strings.NewReader(`{}`))
		HandleCreateListing(&stubListingService{}).ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

type stubListingService struct {
	list   func(ctx context.Context) ([]domain.Listing, error)
	get    func(ctx context.Context, id int64) (domain.Listing, error)
	create func(ctx context.Context, in app.CreateListingInput) (domain.Listing, error)
	mine   func(ctx context.Context, ownerUserID string) ([]domain.Listing, error)
}

func (s *stubListingService) ListListings(ctx context.Context) ([]domain.Listing, error) {
	if s.list == nil {
		return nil, nil
	}
	return s.list(ctx)
}

func (s *stubListingService) GetListing(ctx context.Context, id int64) (domain.Listing, error) {
	if s.get == nil {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	return s.get(ctx, id)
}

func (s *stubListingService) CreateListing(ctx context.Context, in app.CreateListingInput) (domain.Listing, error) {
	if s.create == nil {
		return domain.Listing{}, nil
	}
	return s.create(ctx, in)
}

func (s *stubListingService) MyListings(ctx context.Context, ownerUserID string) ([]domain.Listing, error) {
	if s.mine == nil {
		return nil, nil
	}
	return s.mine(ctx, ownerUserID)
}
