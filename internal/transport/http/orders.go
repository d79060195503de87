package http

import (
	"context"
	"net/http"

	"github.com/AnkitRegmi1/TruSwap/internal/domain"
)

type OrderLister interface {
	OrdersForBuyer(ctx context.Context, userID, email string) ([]domain.Order, error)
	SoldByUser(ctx context.Context, ownerUserID string) ([]domain.Order, error)
	SoldBySellerEmail(ctx context.Context, sellerEmail string) ([]domain.Order, error)
	AllOrders(ctx context.Context) ([]domain.Order, error)
}

// HandleMyOrders returns the authenticated user's purchases.
func HandleMyOrders(svc OrderLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized", domain.ErrUnauthenticated.Error())
			return
		}

		orders, err := svc.OrdersForBuyer(r.Context(), identity.Subject, identity.Email)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		writeJSON(w, http.StatusOK, orders)
	}
}

// HandleSoldOrders returns orders placed against the user's own listings.
func HandleSoldOrders(svc OrderLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized", domain.ErrUnauthenticated.Error())
			return
		}

		var orders []domain.Order
		var err error
		if identity.Subject != "" {
			orders, err = svc.SoldByUser(r.Context(), identity.Subject)
		} else {
			orders, err = svc.SoldBySellerEmail(r.Context(), identity.Email)
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		writeJSON(w, http.StatusOK, orders)
	}
}

func HandleAllOrders(svc OrderLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := svc.AllOrders(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		writeJSON(w, http.StatusOK, orders)
	}
}
