package journals

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/satwa-erp/satwa-erp/internal/platform/httpx"
	"github.com/satwa-erp/satwa-erp/internal/shared"
)

// Handler exposes journal endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers journal routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Get("/{id}", h.handleGet)
	r.Post("/", h.handlePost)
	r.Post("/{id}/void", h.handleVoid)
	r.Post("/{id}/reverse", h.handleReverse)
}

type postLineRequest struct {
	AccountID   int64  `json:"accountId" validate:"required"`
	BranchID    *int64 `json:"branchId"`
	Description string `json:"description"`
	Debit       int64  `json:"debitAmount" validate:"gte=0"`
	Credit      int64  `json:"creditAmount" validate:"gte=0"`
}

type postJournalRequest struct {
	Date        int64             `json:"journalDate" validate:"required"`
	Description string            `json:"description"`
	SourceType  string            `json:"sourceType" validate:"required"`
	SourceID    string            `json:"sourceId" validate:"required,uuid"`
	PostedBy    int64             `json:"postedBy"`
	Lines       []postLineRequest `json:"lines" validate:"required,min=2,dive"`
}

type journalLineResponse struct {
	ID          int64  `json:"id"`
	AccountID   int64  `json:"accountId"`
	BranchID    *int64 `json:"branchId,omitempty"`
	Description string `json:"description,omitempty"`
	Debit       int64  `json:"debitAmount"`
	Credit      int64  `json:"creditAmount"`
	SortOrder   int    `json:"sortOrder"`
}

type journalResponse struct {
	ID          int64                 `json:"id"`
	Number      string                `json:"journalNumber"`
	Date        int64                 `json:"journalDate"`
	Description string                `json:"description,omitempty"`
	SourceType  string                `json:"sourceType"`
	SourceID    string                `json:"sourceId"`
	Status      string                `json:"status"`
	TotalDebit  int64                 `json:"totalDebit"`
	TotalCredit int64                 `json:"totalCredit"`
	PostedAt    int64                 `json:"postedAt,omitempty"`
	VoidedAt    int64                 `json:"voidedAt,omitempty"`
	VoidReason  string                `json:"voidReason,omitempty"`
	Lines       []journalLineResponse `json:"lines,omitempty"`
}

func toJournalResponse(e JournalEntry) journalResponse {
	out := journalResponse{
		ID:          e.ID,
		Number:      e.NumberString(),
		Date:        shared.MillisFromTime(e.Date),
		Description: e.Description,
		SourceType:  string(e.SourceType),
		SourceID:    e.SourceID.String(),
		Status:      string(e.Status),
		TotalDebit:  e.TotalDebit,
		TotalCredit: e.TotalCredit,
		PostedAt:    shared.MillisFromTime(e.PostedAt),
		VoidReason:  e.VoidReason,
	}
	if e.VoidedAt != nil {
		out.VoidedAt = shared.MillisFromTime(*e.VoidedAt)
	}
	for _, line := range e.Lines {
		out.Lines = append(out.Lines, journalLineResponse{
			ID:          line.ID,
			AccountID:   line.AccountID,
			BranchID:    line.BranchID,
			Description: line.Description,
			Debit:       line.Debit,
			Credit:      line.Credit,
			SortOrder:   line.SortOrder,
		})
	}
	return out
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	var req postJournalRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	sourceID, err := uuid.Parse(req.SourceID)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "sourceId must be a UUID")
		return
	}
	input := PostingInput{
		Date:        shared.TimeFromMillis(req.Date),
		Description: req.Description,
		SourceType:  SourceType(req.SourceType),
		SourceID:    sourceID,
		PostedBy:    req.PostedBy,
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, PostingLineInput{
			AccountID:   line.AccountID,
			BranchID:    line.BranchID,
			Description: line.Description,
			Debit:       line.Debit,
			Credit:      line.Credit,
		})
	}
	entry, err := h.service.Post(r.Context(), input)
	if err != nil {
		h.logger.Error("post journal", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toJournalResponse(entry))
}

type voidJournalRequest struct {
	ActorID int64  `json:"actorId"`
	Reason  string `json:"reason" validate:"required"`
}

func (h *Handler) handleVoid(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "journal id must be numeric")
		return
	}
	var req voidJournalRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	entry, err := h.service.Void(r.Context(), VoidInput{EntryID: id, ActorID: req.ActorID, Reason: req.Reason})
	if err != nil {
		h.logger.Error("void journal", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toJournalResponse(entry))
}

type reverseJournalRequest struct {
	ActorID    int64  `json:"actorId"`
	Memo       string `json:"memo"`
	TargetDate *int64 `json:"targetDate"`
}

func (h *Handler) handleReverse(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "journal id must be numeric")
		return
	}
	var req reverseJournalRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	input := ReverseInput{EntryID: id, ActorID: req.ActorID, Memo: req.Memo}
	if req.TargetDate != nil {
		t := shared.TimeFromMillis(*req.TargetDate)
		input.TargetDate = &t
	}
	entry, err := h.service.Reverse(r.Context(), input)
	if err != nil {
		h.logger.Error("reverse journal", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toJournalResponse(entry))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		SourceType: SourceType(r.URL.Query().Get("sourceType")),
		Status:     JournalStatus(r.URL.Query().Get("status")),
	}
	if v := r.URL.Query().Get("from"); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.From = shared.TimeFromMillis(ms)
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.To = shared.TimeFromMillis(ms)
		}
	}
	entries, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list journals", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "perPage", 20)
	meta := shared.NewPagination(page, perPage, len(entries))
	entries = pageSlice(entries, meta)
	out := make([]journalResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toJournalResponse(e))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"journalEntries": out,
		"pagination":     meta,
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func pageSlice(entries []JournalEntry, meta shared.Pagination) []JournalEntry {
	start := meta.Offset()
	if start >= len(entries) {
		return nil
	}
	end := start + meta.PerPage
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end]
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "journal id must be numeric")
		return
	}
	entry, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toJournalResponse(entry))
}
