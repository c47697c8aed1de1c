package stationshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fuelshift/internal/domain/audit"
	"fuelshift/internal/domain/auth"
	"fuelshift/internal/domain/core"
	"fuelshift/internal/platform/requestctx"
	"fuelshift/internal/transport/http/api"
	"fuelshift/internal/transport/http/middleware"
	"fuelshift/internal/transport/http/shared"
)

type Handler struct {
	Store *core.Store
	Audit *audit.Service
}

func NewHandler(store *core.Store, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/stations", func(r chi.Router) {
		r.With(middleware.RequireAuth).Get("/", h.handleList)
		r.With(middleware.RequireAuth).Get("/my-stations", h.handleListMine)
		r.With(middleware.AdminOnly).Post("/", h.handleCreate)
		r.With(middleware.AdminOnly).Put("/{stationID}", h.handleUpdate)
		r.With(middleware.AdminOnly).Post("/{stationID}/toggle", h.handleToggle)
	})
}

type stationRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	// Only admins see disabled stations.
	includeInactive := user.Role == auth.RoleAdmin && r.URL.Query().Get("all") == "true"
	stations, err := h.Store.ListStations(r.Context(), includeInactive)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "query_failed", "failed to list stations", reqID)
		return
	}
	api.Success(w, stations, reqID)
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	if user.EmployeeID == "" {
		api.Fail(w, http.StatusForbidden, "forbidden", "no employee record linked to this account", reqID)
		return
	}

	stations, err := h.Store.ListStationsForEmployee(r.Context(), user.EmployeeID, true)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "query_failed", "failed to list stations", reqID)
		return
	}
	api.Success(w, stations, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	var payload stationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("code", payload.Code, "code is required")
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, reqID) {
		return
	}

	station, err := h.Store.CreateStation(r.Context(), payload.Code, payload.Name, payload.Address)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create station", reqID)
		return
	}

	h.recordAudit(r, "station.create", station.ID, nil, station)
	api.Created(w, station, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	stationID := chi.URLParam(r, "stationID")

	var payload stationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("code", payload.Code, "code is required")
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, reqID) {
		return
	}

	station, err := h.Store.UpdateStation(r.Context(), stationID, payload.Code, payload.Name, payload.Address)
	if err != nil {
		if errors.Is(err, core.ErrStationNotFound) {
			api.Fail(w, http.StatusNotFound, "station_not_found", "station not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to update station", reqID)
		return
	}

	h.recordAudit(r, "station.update", station.ID, nil, station)
	api.Success(w, station, reqID)
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	stationID := chi.URLParam(r, "stationID")

	station, err := h.Store.ToggleStationStatus(r.Context(), stationID)
	if err != nil {
		if errors.Is(err, core.ErrStationNotFound) {
			api.Fail(w, http.StatusNotFound, "station_not_found", "station not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to toggle station", reqID)
		return
	}

	h.recordAudit(r, "station.toggle", station.ID, nil, map[string]bool{"isActive": station.IsActive})
	api.Success(w, station, reqID)
}

func (h *Handler) recordAudit(r *http.Request, action, entityID string, before, after any) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), user.UserID, action, "station", entityID,
		requestctx.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
