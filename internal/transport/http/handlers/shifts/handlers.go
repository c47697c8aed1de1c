package shiftshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"fuelshift/internal/domain/audit"
	"fuelshift/internal/domain/auth"
	"fuelshift/internal/domain/core"
	"fuelshift/internal/domain/shift"
	"fuelshift/internal/platform/requestctx"
	"fuelshift/internal/transport/http/api"
	"fuelshift/internal/transport/http/middleware"
	"fuelshift/internal/transport/http/shared"
)

type Handler struct {
	Shifts  *shift.Store
	Service *shift.Service
	Core    *core.Store
	Audit   *audit.Service
}

func NewHandler(shifts *shift.Store, service *shift.Service, coreStore *core.Store, auditSvc *audit.Service) *Handler {
	return &Handler{Shifts: shifts, Service: service, Core: coreStore, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/shifts", func(r chi.Router) {
		r.With(middleware.SupervisorOrAbove).Post("/", h.handleCreate)
		r.With(middleware.RequireAuth).Get("/", h.handleList)
		r.With(middleware.RequireAuth).Get("/my", h.handleListMine)
		r.With(middleware.RequireAuth).Put("/{shiftID}/status", h.handleUpdateStatus)
	})
}

type createShiftRequest struct {
	EmployeeID  string  `json:"employeeId"`
	StationID   string  `json:"stationId"`
	ShiftTypeID string  `json:"shiftTypeId"`
	Date        string  `json:"date"`
	TimeIn      string  `json:"timeIn"`
	TimeOut     string  `json:"timeOut"`
	HourlyRate  float64 `json:"hourlyRate"`
	Notes       string  `json:"notes"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	var payload createShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employeeId is required")
	v.Required("stationId", payload.StationID, "stationId is required")
	v.Required("shiftTypeId", payload.ShiftTypeID, "shiftTypeId is required")
	v.Required("timeIn", payload.TimeIn, "timeIn is required")
	v.Required("timeOut", payload.TimeOut, "timeOut is required")
	date, _ := v.Date("date", payload.Date)
	if v.Reject(w, reqID) {
		return
	}

	totalHours, err := shift.ComputeHours(payload.TimeIn, payload.TimeOut)
	if err != nil {
		if errors.Is(err, shift.ErrTimeOutNotAfterTimeIn) {
			api.Fail(w, http.StatusBadRequest, "invalid_time", "timeOut must be after timeIn", reqID)
			return
		}
		api.Fail(w, http.StatusBadRequest, "invalid_time", "times must be in HH:MM format", reqID)
		return
	}

	employee, err := h.Core.GetEmployee(r.Context(), payload.EmployeeID)
	if err != nil {
		if errors.Is(err, core.ErrEmployeeNotFound) {
			api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "query_failed", "failed to load employee", reqID)
		return
	}

	// Rate is captured at creation so later rate changes do not reprice
	// existing shifts.
	hourlyRate := payload.HourlyRate
	if hourlyRate <= 0 {
		hourlyRate = employee.HourlyRateA
	}

	shiftID, err := h.Shifts.Create(r.Context(), shift.CreateParams{
		EmployeeID:  payload.EmployeeID,
		StationID:   payload.StationID,
		ShiftTypeID: payload.ShiftTypeID,
		Date:        date,
		TimeIn:      payload.TimeIn,
		TimeOut:     payload.TimeOut,
		TotalHours:  totalHours,
		HourlyRate:  hourlyRate,
		Notes:       payload.Notes,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create shift", reqID)
		return
	}

	h.recordAudit(r, "shift.create", shiftID, nil, map[string]any{
		"employeeId": payload.EmployeeID,
		"date":       date.Format("2006-01-02"),
		"totalHours": totalHours,
	})

	api.Created(w, map[string]any{"id": shiftID, "totalHours": totalHours, "status": shift.StatusPending}, reqID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	filter, ok := h.parseFilter(w, r, reqID)
	if !ok {
		return
	}

	// Non-admin callers only see shifts at their own stations.
	if user.Role != auth.RoleAdmin {
		if !auth.Elevated(user.Role) {
			if user.EmployeeID == "" {
				api.Fail(w, http.StatusForbidden, "forbidden", "no employee record linked to this account", reqID)
				return
			}
			filter.EmployeeID = user.EmployeeID
		} else if user.EmployeeID != "" {
			stationIDs, err := h.Core.ActiveStationIDsForEmployee(r.Context(), user.EmployeeID)
			if err != nil {
				api.Fail(w, http.StatusInternalServerError, "query_failed", "failed to resolve stations", reqID)
				return
			}
			filter.StationIDs = stationIDs
		}
	}

	shifts, err := h.Shifts.List(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "query_failed", "failed to list shifts", reqID)
		return
	}
	api.Success(w, shifts, reqID)
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	if user.EmployeeID == "" {
		api.Fail(w, http.StatusForbidden, "forbidden", "no employee record linked to this account", reqID)
		return
	}

	filter, ok := h.parseFilter(w, r, reqID)
	if !ok {
		return
	}
	filter.EmployeeID = user.EmployeeID

	shifts, err := h.Shifts.List(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "query_failed", "failed to list shifts", reqID)
		return
	}
	api.Success(w, shifts, reqID)
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	shiftID := chi.URLParam(r, "shiftID")

	var payload updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	actor := shift.Actor{UserID: user.UserID, Role: user.Role, EmployeeID: user.EmployeeID}
	result, err := h.Service.TransitionStatus(r.Context(), shiftID, payload.Status, actor)
	if err != nil {
		h.failTransition(w, err, reqID)
		return
	}

	h.recordAudit(r, "shift.status", shiftID, nil, map[string]any{"status": result.Status})
	api.Success(w, result, reqID)
}

func (h *Handler) failTransition(w http.ResponseWriter, err error, reqID string) {
	switch {
	case errors.Is(err, shift.ErrShiftNotFound):
		api.Fail(w, http.StatusNotFound, "shift_not_found", "shift not found", reqID)
	case errors.Is(err, shift.ErrNotAnEmployee),
		errors.Is(err, shift.ErrNotShiftOwner),
		errors.Is(err, shift.ErrEmployeeTransition):
		api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), reqID)
	case shift.IsPolicyRejection(err):
		api.Fail(w, http.StatusBadRequest, "invalid_transition", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to update shift status", reqID)
	}
}

func (h *Handler) parseFilter(w http.ResponseWriter, r *http.Request, reqID string) (shift.ListFilter, bool) {
	var filter shift.ListFilter
	query := r.URL.Query()

	if raw := strings.TrimSpace(query.Get("from")); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "from must be a valid date", reqID)
			return filter, false
		}
		filter.From = &parsed
	}
	if raw := strings.TrimSpace(query.Get("to")); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "to must be a valid date", reqID)
			return filter, false
		}
		filter.To = &parsed
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		api.Fail(w, http.StatusBadRequest, "invalid_range", "to must be on or after from", reqID)
		return filter, false
	}
	filter.EmployeeID = strings.TrimSpace(query.Get("employeeId"))
	return filter, true
}

func (h *Handler) recordAudit(r *http.Request, action, entityID string, before, after any) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), user.UserID, action, "shift", entityID,
		requestctx.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
