package payslipshandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fuelshift/internal/domain/audit"
	"fuelshift/internal/domain/auth"
	"fuelshift/internal/domain/payroll"
	"fuelshift/internal/platform/requestctx"
	"fuelshift/internal/transport/http/api"
	"fuelshift/internal/transport/http/middleware"
	"fuelshift/internal/transport/http/shared"
)

type Handler struct {
	Store   *payroll.Store
	Service *payroll.Service
	Audit   *audit.Service
}

func NewHandler(store *payroll.Store, service *payroll.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payslips", func(r chi.Router) {
		r.With(middleware.ManagerOrAdmin).Post("/generate", h.handleGenerate)
		r.With(middleware.RequireAuth).Get("/my", h.handleListMine)
		r.With(middleware.ManagerOrAdmin).Get("/employee/{employeeID}", h.handleListForEmployee)
		r.With(middleware.ManagerOrAdmin).Get("/total", h.handleTotal)
		r.With(middleware.ManagerOrAdmin).Get("/weekly-pay/{employeeID}", h.handleWeeklyPay)
		r.With(middleware.RequireAuth).Get("/{payslipID}/download", h.handleDownload)
	})
}

type generateRequest struct {
	EmployeeID  string `json:"employeeId"`
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	var payload generateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employeeId is required")
	start, _ := v.Date("periodStart", payload.PeriodStart)
	end, _ := v.Date("periodEnd", payload.PeriodEnd)
	v.DateOrder("periodStart", start, "periodEnd", end)
	if v.Reject(w, reqID) {
		return
	}

	payslip, err := h.Service.GeneratePayslip(r.Context(), payload.EmployeeID, start, end)
	if err != nil {
		switch {
		case errors.Is(err, payroll.ErrEmployeeNotFound):
			api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", reqID)
		case errors.Is(err, payroll.ErrInvalidPeriod):
			api.Fail(w, http.StatusBadRequest, "invalid_period", "periodEnd must be on or after periodStart", reqID)
		case errors.Is(err, payroll.ErrPayslipExists):
			api.Fail(w, http.StatusConflict, "payslip_exists", "a payslip already exists for this period", reqID)
		default:
			api.Fail(w, http.StatusInternalServerError, "generate_failed", "failed to generate payslip", reqID)
		}
		return
	}

	user, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), user.UserID, "payslip.generate", "payslip", payslip.ID,
		reqID, shared.ClientIP(r), nil, map[string]any{
			"employeeId":  payload.EmployeeID,
			"periodStart": start.Format("2006-01-02"),
			"periodEnd":   end.Format("2006-01-02"),
			"grossPay":    payslip.GrossPay,
		}); err != nil {
		slog.Warn("audit record failed", "action", "payslip.generate", "err", err)
	}

	api.Created(w, payslip, reqID)
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	if user.EmployeeID == "" {
		api.Fail(w, http.StatusForbidden, "forbidden", "no employee record linked to this account", reqID)
		return
	}

	payslips, err := h.Store.ListByEmployee(r.Context(), user.EmployeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "query_failed", "failed to list payslips", reqID)
		return
	}
	api.Success(w, payslips, reqID)
}

func (h *Handler) handleListForEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	payslips, err := h.Store.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "query_failed", "failed to list payslips", reqID)
		return
	}
	api.Success(w, payslips, reqID)
}

func (h *Handler) handleTotal(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	query := r.URL.Query()
	start, err := shared.ParseDate(query.Get("startDate"))
	if err != nil || start.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "startDate must be a valid date", reqID)
		return
	}
	end, err := shared.ParseDate(query.Get("endDate"))
	if err != nil || end.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "endDate must be a valid date", reqID)
		return
	}

	total, err := h.Store.CountGeneratedBetween(r.Context(), start, end)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "query_failed", "failed to count payslips", reqID)
		return
	}
	api.Success(w, map[string]int{"total": total}, reqID)
}

func (h *Handler) handleWeeklyPay(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	query := r.URL.Query()
	start, err := shared.ParseDate(query.Get("startDate"))
	if err != nil || start.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "startDate must be a valid date", reqID)
		return
	}
	end := start.AddDate(0, 0, 6)
	if raw := query.Get("endDate"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil || parsed.IsZero() {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "endDate must be a valid date", reqID)
			return
		}
		end = parsed
	}
	if end.Before(start) {
		api.Fail(w, http.StatusBadRequest, "invalid_range", "endDate must be on or after startDate", reqID)
		return
	}

	pay, err := h.Service.WeeklyPay(r.Context(), employeeID, start, end)
	if err != nil {
		if errors.Is(err, payroll.ErrEmployeeNotFound) {
			api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "query_failed", "failed to compute weekly pay", reqID)
		return
	}
	api.Success(w, pay, reqID)
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	payslipID := chi.URLParam(r, "payslipID")

	payslip, err := h.Store.Get(r.Context(), payslipID)
	if err != nil {
		if errors.Is(err, payroll.ErrPayslipNotFound) {
			api.Fail(w, http.StatusNotFound, "payslip_not_found", "payslip not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "query_failed", "failed to load payslip", reqID)
		return
	}

	// Employees may only download their own payslips.
	if !auth.ManagerOrAdmin(user.Role) && payslip.EmployeeID != user.EmployeeID {
		api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", reqID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payslip-%s.pdf", payslip.PeriodStart.Format("2006-01-02")))
	if err := h.Service.RenderPayslipPDF(r.Context(), payslipID, w); err != nil {
		slog.Warn("payslip pdf render failed", "payslipId", payslipID, "err", err)
	}
}
