package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AnkitRegmi1/TruSwap/internal/app"
	"github.com/AnkitRegmi1/TruSwap/internal/domain"
	"github.com/AnkitRegmi1/TruSwap/internal/paypal"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, status int, errTitle, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error:   errTitle,
		Message: msg,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeServiceError maps service failures onto the HTTP error taxonomy:
// invalid input 400, missing auth 401, absent records 404, sale conflicts
// 409, gateway and unknown failures 500 with the provider message surfaced.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrListingIDRequired),
		errors.Is(err, domain.ErrBuyerEmailRequired),
		errors.Is(err, domain.ErrPaymentIDRequired),
		errors.Is(err, domain.ErrPayerIDRequired),
		errors.Is(err, domain.ErrListingUnresolved),
		errors.Is(err, domain.ErrPaymentNotApproved),
		errors.Is(err, domain.ErrItemNameRequired),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidListingType),
		errors.Is(err, domain.ErrGroupNameRequired):
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, domain.ErrListingNotFound),
		errors.Is(err, domain.ErrGroupNotFound):
		writeError(w, http.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, domain.ErrListingAlreadySold),
		errors.Is(err, domain.ErrOrderAlreadyExists):
		writeError(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, app.ErrApprovalURLMissing):
		writeError(w, http.StatusInternalServerError, "Payment creation failed", err.Error())
	default:
		var apiErr *paypal.APIError
		if errors.As(err, &apiErr) {
			writeError(w, http.StatusInternalServerError, "Payment provider error", apiErr.Message)
			return
		}
		writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}
