package ap

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/satwa-erp/satwa-erp/internal/platform/httpx"
	"github.com/satwa-erp/satwa-erp/internal/shared"
)

// Handler exposes the payables endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers AP routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/aging", h.handleAging)
	r.Get("/suppliers/{id}/outstanding", h.handleSupplierOutstanding)
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

type billResponse struct {
	ID              int64  `json:"id"`
	Number          string `json:"number"`
	DocumentDate    int64  `json:"documentDate"`
	DueDate         int64  `json:"dueDate,omitempty"`
	TotalAmount     int64  `json:"totalAmount"`
	PaidAmount      int64  `json:"paidAmount"`
	Outstanding     int64  `json:"outstandingAmount"`
	DaysOutstanding int    `json:"daysOutstanding,omitempty"`
	PaidAt          int64  `json:"paidAt,omitempty"`
}

func toBillResponse(bill OpenBill, days int) billResponse {
	out := billResponse{
		ID:              bill.ID,
		Number:          bill.Number,
		DocumentDate:    shared.MillisFromTime(bill.DocumentDate),
		TotalAmount:     bill.TotalAmount,
		PaidAmount:      bill.PaidAmount,
		Outstanding:     bill.Outstanding(),
		DaysOutstanding: days,
	}
	if bill.DueDate != nil {
		out.DueDate = shared.MillisFromTime(*bill.DueDate)
	}
	if bill.PaidAt != nil {
		out.PaidAt = shared.MillisFromTime(*bill.PaidAt)
	}
	return out
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
		h.logger.Error("ap aging", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	suppliers := make([]map[string]any, 0, len(report.Suppliers))
	for _, row := range report.Suppliers {
		suppliers = append(suppliers, map[string]any{
			"supplierId":       row.SupplierID,
			"supplierName":     row.SupplierName,
			"openBills":        row.OpenBills,
			"buckets":          toBucketsResponse(row.Buckets),
			"totalOutstanding": row.TotalOutstanding,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"asOfDate": shared.MillisFromTime(report.AsOf),
		"anchor":   string(report.Anchor),
		"summary": map[string]any{
			"totalOutstanding":     report.Summary.TotalOutstanding,
			"suppliersWithBalance": report.Summary.SuppliersWithBalance,
			"buckets":              toBucketsResponse(report.Summary.Buckets),
		},
		"supplierAging": suppliers,
	})
}

func (h *Handler) handleSupplierOutstanding(w http.ResponseWriter, r *http.Request) {
	supplierID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "supplier id must be numeric")
		return
	}
	includeHistory := r.URL.Query().Get("includeHistory") == "true"

	out, err := h.service.SupplierOutstanding(r.Context(), supplierID, includeHistory)
	if err != nil {
		h.logger.Error("supplier outstanding", slog.Int64("supplier_id", supplierID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	bills := make([]billResponse, 0, len(out.Bills))
	for _, detail := range out.Bills {
		bills = append(bills, toBillResponse(detail.Bill, detail.DaysOutstanding))
	}
	resp := map[string]any{
		"supplierId":   out.SupplierID,
		"supplierName": out.SupplierName,
		"asOfDate":     shared.MillisFromTime(out.AsOf),
		"summary": map[string]any{
			"totalOutstanding":       out.TotalOutstanding,
			"openBills":              out.OpenBills,
			"averageDaysOutstanding": out.AverageDaysOutstanding,
			"oldestOpenDate":         millisOrNil(out.OldestOpenDate),
			"buckets":                toBucketsResponse(out.Buckets),
		},
		"outstandingBills": bills,
	}
	if includeHistory {
		history := make([]billResponse, 0, len(out.History))
		for _, bill := range out.History {
			history = append(history, toBillResponse(bill, 0))
		}
		resp["paidBills"] = history
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func millisOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return shared.MillisFromTime(*t)
}
