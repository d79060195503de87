package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/AnkitRegmi1/TruSwap/internal/app"
	"github.com/AnkitRegmi1/TruSwap/internal/domain"
)

// ListingReader serves public browsing of listings.
type ListingReader interface {
	ListListings(ctx context.Context) ([]domain.Listing, error)
	GetListing(ctx context.Context, id int64) (domain.Listing, error)
}

// ListingWriter serves authenticated listing creation and ownership queries.
type ListingWriter interface {
	CreateListing(ctx context.Context, in app.CreateListingInput) (domain.Listing, error)
	MyListings(ctx context.Context, ownerUserID string) ([]domain.Listing, error)
}

// HandleListListings returns all listings still available for purchase.
func HandleListListings(svc ListingReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listings, err := svc.ListListings(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if listings == nil {
			listings = []domain.Listing{}
		}
		writeJSON(w, http.StatusOK, listings)
	}
}

func HandleGetListing(svc ListingReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request", "listing id must be numeric")
			return
		}

		listing, err := svc.GetListing(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listing)
	}
}

type createListingRequest struct {
	ItemName    string `json:"itemName"`
	Category    string `json:"category"`
	Price       int    `json:"price"`
	Description string `json:"description"`
	Condition   string `json:"condition"`
	ImageURL    string `json:"imageUrl"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	GroupID     string `json:"groupId"`
	ListingType string `json:"listingType"`
}

// HandleCreateListing creates a listing owned by the authenticated user.
func HandleCreateListing(svc ListingWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized", domain.ErrUnauthenticated.Error())
			return
		}

		var req createListingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request", "invalid request body")
			return
		}

		ownerName := req.Name
		if ownerName == "" {
			ownerName = identity.Name
		}
		ownerEmail := req.Email
		if ownerEmail == "" {
			ownerEmail = identity.Email
		}

		listing, err := svc.CreateListing(r.Context(), app.CreateListingInput{
			ItemName:    req.ItemName,
			Category:    req.Category,
			Price:       req.Price,
			Description: req.Description,
			Condition:   req.Condition,
			ImageURL:    req.ImageURL,
			GroupID:     req.GroupID,
			ListingType: req.ListingType,
			OwnerUserID: identity.Subject,
			OwnerName:   ownerName,
			OwnerEmail:  ownerEmail,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, listing)
	}
}

func HandleMyListings(svc ListingWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized", domain.ErrUnauthenticated.Error())
			return
		}

		listings, err := svc.MyListings(r.Context(), identity.Subject)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if listings == nil {
			listings = []domain.Listing{}
		}
		writeJSON(w, http.StatusOK, listings)
	}
}
