package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/satwa-erp/satwa-erp/internal/platform/httpx"
)

// Handler exposes dashboard endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/revenue", h.handleRevenue)
}

func (h *Handler) handleRevenue(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.RevenueSummary(r.Context())
	if err != nil {
		h.logger.Error("dashboard revenue", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}
