package reports

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/satwa-erp/satwa-erp/internal/platform/httpx"
	"github.com/satwa-erp/satwa-erp/internal/shared"
)

// Handler exposes the report endpoints. Reports are read-only; handlers
// only parse the window parameters and shape the response.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/trial-balance", h.handleTrialBalance)
	r.Get("/trial-balance/export", h.handleTrialBalanceCSV)
	r.Get("/ledger/{accountId}", h.handleAccountLedger)
	r.Get("/balance-sheet", h.handleBalanceSheet)
	r.Get("/income-statement", h.handleIncomeStatement)
}

func queryMillis(r *http.Request, key string, fallback time.Time) time.Time {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return shared.TimeFromMillis(ms)
}

func (h *Handler) handleTrialBalance(w http.ResponseWriter, r *http.Request) {
	asOf := queryMillis(r, "asOfDate", time.Now().UTC())
	tb, err := h.service.TrialBalance(r.Context(), asOf)
	if err != nil {
		h.logger.Error("trial balance", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	type rowResponse struct {
		AccountID     int64  `json:"accountId"`
		Code          string `json:"code"`
		Name          string `json:"name"`
		Type          string `json:"type"`
		DebitBalance  int64  `json:"debitBalance"`
		CreditBalance int64  `json:"creditBalance"`
	}
	rows := make([]rowResponse, 0, len(tb.Rows))
	for _, row := range tb.Rows {
		rows = append(rows, rowResponse(row))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"asOfDate":    shared.MillisFromTime(asOf),
		"accounts":    rows,
		"totalDebit":  tb.TotalDebit,
		"totalCredit": tb.TotalCredit,
		"imbalanced":  tb.Imbalanced,
		"imbalance":   tb.Imbalance,
	})
}

func (h *Handler) handleTrialBalanceCSV(w http.ResponseWriter, r *http.Request) {
	asOf := queryMillis(r, "asOfDate", time.Now().UTC())
	tb, err := h.service.TrialBalance(r.Context(), asOf)
	if err != nil {
		h.logger.Error("trial balance export", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="trial_balance_`+asOf.Format("20060102")+`.csv"`)
	if err := WriteTrialBalanceCSV(w, tb, asOf); err != nil {
		h.logger.Error("write trial balance csv", slog.Any("error", err))
	}
}

func (h *Handler) handleAccountLedger(w http.ResponseWriter, r *http.Request) {
	accountID, err := strconv.ParseInt(chi.URLParam(r, "accountId"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "account id must be numeric")
		return
	}
	now := time.Now().UTC()
	start := queryMillis(r, "startDate", now.AddDate(0, -1, 0))
	end := queryMillis(r, "endDate", now)

	ledger, err := h.service.AccountLedger(r.Context(), accountID, start, end)
	if err != nil {
		h.logger.Error("account ledger", slog.Int64("account_id", accountID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	type entryResponse struct {
		Date          int64  `json:"journalDate"`
		JournalNumber int64  `json:"journalNumber"`
		Description   string `json:"description,omitempty"`
		Debit         int64  `json:"debitAmount"`
		Credit        int64  `json:"creditAmount"`
		Balance       int64  `json:"balance"`
	}
	entries := make([]entryResponse, 0, len(ledger.Entries))
	for _, e := range ledger.Entries {
		entries = append(entries, entryResponse{
			Date:          shared.MillisFromTime(e.Date),
			JournalNumber: e.JournalNumber,
			Description:   e.Description,
			Debit:         e.Debit,
			Credit:        e.Credit,
			Balance:       e.Balance,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"accountId":      ledger.AccountID,
		"code":           ledger.Code,
		"name":           ledger.Name,
		"normalBalance":  ledger.NormalBalance,
		"openingBalance": ledger.OpeningBalance,
		"transactions":   entries,
		"closingBalance": ledger.ClosingBalance,
		"totalDebit":     ledger.TotalDebit,
		"totalCredit":    ledger.TotalCredit,
	})
}

func (h *Handler) handleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	asOf := queryMillis(r, "asOfDate", time.Now().UTC())
	bs, err := h.service.BalanceSheet(r.Context(), asOf)
	if err != nil {
		h.logger.Error("balance sheet", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"asOfDate":                  shared.MillisFromTime(asOf),
		"assets":                    bs.Assets,
		"liabilities":               bs.Liabilities,
		"equity":                    bs.Equity,
		"totalLiabilitiesAndEquity": bs.TotalLiabilitiesAndEquity,
	})
}

func (h *Handler) handleIncomeStatement(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	start := queryMillis(r, "startDate", time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC))
	end := queryMillis(r, "endDate", now)
	is, err := h.service.IncomeStatement(r.Context(), start, end)
	if err != nil {
		h.logger.Error("income statement", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"startDate":   shared.MillisFromTime(start),
		"endDate":     shared.MillisFromTime(end),
		"revenue":     is.Revenue,
		"cogs":        is.COGS,
		"expenses":    is.Expenses,
		"grossProfit": is.GrossProfit,
		"netIncome":   is.NetIncome,
	})
}
