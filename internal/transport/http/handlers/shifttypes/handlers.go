package shifttypeshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fuelshift/internal/domain/core"
	"fuelshift/internal/platform/requestctx"
	"fuelshift/internal/transport/http/api"
	"fuelshift/internal/transport/http/middleware"
	"fuelshift/internal/transport/http/shared"
)

type Handler struct {
	Store *core.Store
}

func NewHandler(store *core.Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/shift-types", func(r chi.Router) {
		r.With(middleware.RequireAuth).Get("/", h.handleList)
		r.With(middleware.AdminOnly).Post("/", h.handleCreate)
		r.With(middleware.AdminOnly).Put("/{shiftTypeID}", h.handleUpdate)
	})
}

type shiftTypeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	types, err := h.Store.ListShiftTypes(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "query_failed", "failed to list shift types", reqID)
		return
	}
	api.Success(w, types, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	var payload shiftTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, reqID) {
		return
	}

	created, err := h.Store.CreateShiftType(r.Context(), payload.Name, payload.Description)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create shift type", reqID)
		return
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	shiftTypeID := chi.URLParam(r, "shiftTypeID")

	var payload shiftTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, reqID) {
		return
	}

	isActive := true
	if payload.IsActive != nil {
		isActive = *payload.IsActive
	}

	updated, err := h.Store.UpdateShiftType(r.Context(), shiftTypeID, payload.Name, payload.Description, isActive)
	if err != nil {
		if errors.Is(err, core.ErrShiftTypeNotFound) {
			api.Fail(w, http.StatusNotFound, "shift_type_not_found", "shift type not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to update shift type", reqID)
		return
	}
	api.Success(w, updated, reqID)
}
