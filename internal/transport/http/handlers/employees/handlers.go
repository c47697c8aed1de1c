package employeeshandler

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
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.ManagerOrAdmin).Get("/", h.handleList)
		r.With(middleware.AdminOnly).Post("/", h.handleCreate)
		r.With(middleware.RequireAuth).Get("/me", h.handleMe)
		r.With(middleware.AdminOnly).Get("/users", h.handleListUsers)
		r.With(middleware.ManagerOrAdmin).Get("/user/{userID}", h.handleGetByUser)
		r.With(middleware.ManagerOrAdmin).Get("/{employeeID}", h.handleGet)
		r.With(middleware.ManagerOrAdmin).Put("/user/{userID}", h.handleUpdate)
		r.With(middleware.AdminOnly).Post("/{employeeID}/reset-password", h.handleResetPassword)
	})
}

type employeeRequest struct {
	FirstName     string   `json:"firstName"`
	LastName      string   `json:"lastName"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	NINumber      string   `json:"niNumber"`
	HourlyRateA   float64  `json:"hourlyRateA"`
	HourlyRateB   float64  `json:"hourlyRateB"`
	HoursForRateA float64  `json:"hoursForRateA"`
	HireDate      string   `json:"hireDate"`
	Role          string   `json:"role"`
	IsActive      *bool    `json:"isActive"`
	StationIDs    []string `json:"stationIds"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "query_failed", "failed to list employees", reqID)
		return
	}
	api.Success(w, employees, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	var payload employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("firstName", payload.FirstName, "firstName is required")
	v.Required("lastName", payload.LastName, "lastName is required")
	v.Required("email", payload.Email, "email is required")
	v.Positive("hourlyRateA", payload.HourlyRateA, "hourlyRateA must not be negative")
	v.Positive("hourlyRateB", payload.HourlyRateB, "hourlyRateB must not be negative")
	v.Positive("hoursForRateA", payload.HoursForRateA, "hoursForRateA must not be negative")
	v.Enum("role", payload.Role, []string{auth.RoleAdmin, auth.RoleManager, auth.RoleSupervisor, auth.RoleEmployee}, "role must be admin, manager, supervisor or employee")
	hireDate, _ := v.Date("hireDate", payload.HireDate)
	if len(payload.StationIDs) == 0 {
		v.Add("stationIds", "at least one station is required")
	}
	if v.Reject(w, reqID) {
		return
	}

	role := payload.Role
	if role == "" {
		role = auth.RoleEmployee
	}

	result, err := h.Store.CreateEmployeeWithUser(r.Context(), core.CreateEmployeeParams{
		FirstName:     payload.FirstName,
		LastName:      payload.LastName,
		Email:         payload.Email,
		Phone:         payload.Phone,
		NINumber:      payload.NINumber,
		HourlyRateA:   payload.HourlyRateA,
		HourlyRateB:   payload.HourlyRateB,
		HoursForRateA: payload.HoursForRateA,
		HireDate:      hireDate,
		Role:          role,
		StationIDs:    payload.StationIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, core.ErrEmailTaken):
			api.Fail(w, http.StatusConflict, "email_taken", "email is already in use", reqID)
		case errors.Is(err, core.ErrInvalidStations):
			api.Fail(w, http.StatusBadRequest, "invalid_stations", "one or more stations are unknown or inactive", reqID)
		default:
			api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create employee", reqID)
		}
		return
	}

	h.recordAudit(r, "employee.create", result.EmployeeID, nil, map[string]string{"email": result.Email, "role": result.Role})
	api.Created(w, result, reqID)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	item, err := h.Store.GetEmployeeByUserID(r.Context(), user.UserID)
	if err != nil {
		if errors.Is(err, core.ErrEmployeeNotFound) {
			api.Fail(w, http.StatusNotFound, "employee_not_found", "no employee record linked to this account", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "query_failed", "failed to load employee", reqID)
		return
	}
	api.Success(w, item, reqID)
}

func (h *Handler) handleGetByUser(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	userID := chi.URLParam(r, "userID")

	item, err := h.Store.GetEmployeeByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrEmployeeNotFound) {
			api.Fail(w, http.StatusNotFound, "employee_not_found", "no employee record linked to this user", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "query_failed", "failed to load employee", reqID)
		return
	}
	api.Success(w, item, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	employee, err := h.Store.GetEmployee(r.Context(), employeeID)
	if err != nil {
		if errors.Is(err, core.ErrEmployeeNotFound) {
			api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "query_failed", "failed to load employee", reqID)
		return
	}
	api.Success(w, employee, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	userID := chi.URLParam(r, "userID")

	var payload employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("firstName", payload.FirstName, "firstName is required")
	v.Required("lastName", payload.LastName, "lastName is required")
	v.Required("email", payload.Email, "email is required")
	v.Positive("hourlyRateA", payload.HourlyRateA, "hourlyRateA must not be negative")
	v.Positive("hourlyRateB", payload.HourlyRateB, "hourlyRateB must not be negative")
	v.Positive("hoursForRateA", payload.HoursForRateA, "hoursForRateA must not be negative")
	v.Enum("role", payload.Role, []string{auth.RoleAdmin, auth.RoleManager, auth.RoleSupervisor, auth.RoleEmployee}, "role must be admin, manager, supervisor or employee")
	if v.Reject(w, reqID) {
		return
	}

	err := h.Store.UpdateEmployeeAndUser(r.Context(), userID, core.UpdateEmployeeParams{
		FirstName:     payload.FirstName,
		LastName:      payload.LastName,
		Email:         payload.Email,
		Phone:         payload.Phone,
		NINumber:      payload.NINumber,
		HourlyRateA:   payload.HourlyRateA,
		HourlyRateB:   payload.HourlyRateB,
		HoursForRateA: payload.HoursForRateA,
		Role:          payload.Role,
		IsActive:      payload.IsActive,
		StationIDs:    payload.StationIDs,
		ActorIsAdmin:  user.Role == auth.RoleAdmin,
	})
	if err != nil {
		switch {
		case errors.Is(err, core.ErrUserNotFound), errors.Is(err, core.ErrEmployeeNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
		case errors.Is(err, core.ErrEmailTaken):
			api.Fail(w, http.StatusConflict, "email_taken", "email is already in use", reqID)
		case errors.Is(err, core.ErrInvalidStations):
			api.Fail(w, http.StatusBadRequest, "invalid_stations", "one or more stations are unknown or inactive", reqID)
		default:
			api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to update employee", reqID)
		}
		return
	}

	h.recordAudit(r, "employee.update", userID, nil, map[string]string{"email": payload.Email})
	api.Success(w, map[string]string{"status": "updated"}, reqID)
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	result, err := h.Store.ResetEmployeePassword(r.Context(), employeeID)
	if err != nil {
		if errors.Is(err, core.ErrEmployeeNotFound) {
			api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "reset_failed", "failed to reset password", reqID)
		return
	}

	h.recordAudit(r, "employee.reset_password", employeeID, nil, map[string]string{"userId": result.UserID})
	api.Success(w, result, reqID)
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	users, err := h.Store.ListUsersWithEmployee(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "query_failed", "failed to list users", reqID)
		return
	}
	api.Success(w, users, reqID)
}

func (h *Handler) recordAudit(r *http.Request, action, entityID string, before, after any) {
	user, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), user.UserID, action, "employee", entityID,
		requestctx.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
