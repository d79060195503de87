package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AnkitRegmi1/TruSwap/internal/app"
	"github.com/AnkitRegmi1/TruSwap/internal/domain"
)

type GroupReader interface {
	ListGroups(ctx context.Context) ([]domain.Group, error)
	GetGroup(ctx context.Context, id string) (domain.Group, error)
}

type GroupWriter interface {
	CreateGroup(ctx context.Context, in app.CreateGroupInput) (domain.Group, error)
	MyGroups(ctx context.Context, createdBy string) ([]domain.Group, error)
}

func HandleListGroups(svc GroupReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := svc.ListGroups(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if groups == nil {
			groups = []domain.Group{}
		}
		writeJSON(w, http.StatusOK, groups)
	}
}

func HandleGetGroup(svc GroupReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		group, err := svc.GetGroup(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, group)
	}
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func HandleCreateGroup(svc GroupWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized", domain.ErrUnauthenticated.Error())
			return
		}

		var req createGroupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request", "invalid request body")
			return
		}

		group, err := svc.CreateGroup(r.Context(), app.CreateGroupInput{
			Name:         req.Name,
			Description:  req.Description,
			CreatedBy:    identity.Subject,
			CreatorName:  identity.Name,
			CreatorEmail: identity.Email,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, group)
	}
}

func HandleMyGroups(svc GroupWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized", domain.ErrUnauthenticated.Error())
			return
		}

		groups, err := svc.MyGroups(r.Context(), identity.Subject)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if groups == nil {
			groups = []domain.Group{}
		}
		writeJSON(w, http.StatusOK, groups)
	}
}
