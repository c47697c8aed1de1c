package auditloghandler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"fuelshift/internal/domain/audit"
	"fuelshift/internal/platform/requestctx"
	"fuelshift/internal/transport/http/api"
	"fuelshift/internal/transport/http/middleware"
	"fuelshift/internal/transport/http/shared"
)

type Handler struct {
	Audit *audit.Service
}

func NewHandler(auditSvc *audit.Service) *Handler {
	return &Handler{Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.AdminOnly).Get("/audit", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	query := r.URL.Query()

	filter := audit.Filter{
		Action:     strings.TrimSpace(query.Get("action")),
		EntityType: strings.TrimSpace(query.Get("entityType")),
		ActorID:    strings.TrimSpace(query.Get("actorId")),
	}
	includeDetails := query.Get("details") == "true"
	page := shared.ParsePagination(r, 50, 200)

	total, err := h.Audit.Count(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "query_failed", "failed to count audit events", reqID)
		return
	}
	events, err := h.Audit.List(r.Context(), filter, includeDetails, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "query_failed", "failed to list audit events", reqID)
		return
	}

	api.Success(w, map[string]any{
		"total":  total,
		"limit":  page.Limit,
		"offset": page.Offset,
		"events": events,
	}, reqID)
}
