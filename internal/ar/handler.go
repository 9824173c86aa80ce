package ar

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/satwa-erp/satwa-erp/internal/platform/httpx"
	"github.com/satwa-erp/satwa-erp/internal/shared"
)

// Handler exposes the receivables aging endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers AR routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/aging", h.handleAging)
}

type bucketsResponse struct {
	Current    int64 `json:"current"`
	Days31to60 int64 `json:"days31to60"`
	Days61to90 int64 `json:"days61to90"`
	Over90Days int64 `json:"over90days"`
}

func toBucketsResponse(b AgingBuckets) bucketsResponse {
	return bucketsResponse{
		Current:    b.Current,
		Days31to60: b.Days31to60,
		Days61to90: b.Days61to90,
		Over90Days: b.Over90Days,
	}
}

type customerAgingResponse struct {
	CustomerID       int64           `json:"customerId"`
	CustomerName     string          `json:"customerName"`
	OpenInvoices     int             `json:"openInvoices"`
	Buckets          bucketsResponse `json:"buckets"`
	TotalOutstanding int64           `json:"totalOutstanding"`
}

func (h *Handler) handleAging(w http.ResponseWriter, r *http.Request) {
	q := AgingQuery{Anchor: AgingAnchor(r.URL.Query().Get("anchor"))}
	if v := r.URL.Query().Get("asOfDate"); v != "" {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "asOfDate must be epoch milliseconds")
			return
		}
		q.AsOf = shared.TimeFromMillis(ms)
	}

	report, err := h.service.AgingReport(r.Context(), q)
	if err != nil {
		h.logger.Error("ar aging", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	customers := make([]customerAgingResponse, 0, len(report.Customers))
	for _, row := range report.Customers {
		customers = append(customers, customerAgingResponse{
			CustomerID:       row.CustomerID,
			CustomerName:     row.CustomerName,
			OpenInvoices:     row.OpenInvoices,
			Buckets:          toBucketsResponse(row.Buckets),
			TotalOutstanding: row.TotalOutstanding,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"asOfDate": shared.MillisFromTime(report.AsOf),
		"anchor":   string(report.Anchor),
		"summary": map[string]any{
			"totalOutstanding":     report.Summary.TotalOutstanding,
			"customersWithBalance": report.Summary.CustomersWithBalance,
			"buckets":              toBucketsResponse(report.Summary.Buckets),
		},
		"customerAging": customers,
	})
}
