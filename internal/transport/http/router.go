package http

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AnkitRegmi1/TruSwap/internal/auth"
)

// Services bundles the application services the router exposes.
type Services struct {
	Listings interface {
		ListingReader
		ListingWriter
	}
	Groups interface {
		GroupReader
		GroupWriter
	}
	Orders   OrderLister
	Payments interface {
		PaymentCreator
		PaymentExecutor
	}
}

// NewRouter wires all routes with CORS, request logging and bearer auth on
// the endpoints that need an identity.
func NewRouter(svcs Services, authenticator auth.Authenticator, corsOrigins []string, logger *log.Logger) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = NotFoundHandler()

	r.HandleFunc("/health", HealthHandler).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Public endpoints.
	api.Handle("/listings", HandleListListings(svcs.Listings)).Methods(http.MethodGet)
	api.Handle("/listings/{id}", HandleGetListing(svcs.Listings)).Methods(http.MethodGet)
	api.Handle("/groups", HandleListGroups(svcs.Groups)).Methods(http.MethodGet)
	api.Handle("/orders/all", HandleAllOrders(svcs.Orders)).Methods(http.MethodGet)
	api.Handle("/payments/execute", HandleExecutePayment(svcs.Payments)).Methods(http.MethodPost)

	// Authenticated endpoints.
	authed := func(h http.Handler) http.Handler { return RequireAuth(authenticator, h) }
	api.Handle("/createListing", authed(HandleCreateListing(svcs.Listings))).Methods(http.MethodPost)
	api.Handle("/my-listings", authed(HandleMyListings(svcs.Listings))).Methods(http.MethodGet)
	api.Handle("/groups", authed(HandleCreateGroup(svcs.Groups))).Methods(http.MethodPost)
	api.Handle("/groups/my-groups", authed(HandleMyGroups(svcs.Groups))).Methods(http.MethodGet)
	api.Handle("/orders", authed(HandleMyOrders(svcs.Orders))).Methods(http.MethodGet)
	api.Handle("/orders/sold", authed(HandleSoldOrders(svcs.Orders))).Methods(http.MethodGet)
	api.Handle("/payments/create-payment", authed(HandleCreatePayment(svcs.Payments))).Methods(http.MethodPost)

	// Registered after my-groups so the static segment wins.
	api.Handle("/groups/{id}", HandleGetGroup(svcs.Groups)).Methods(http.MethodGet)

	return RequestLogger(CORS(corsOrigins, r), logger)
}
