package banking

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/satwa-erp/satwa-erp/internal/platform/httpx"
	"github.com/satwa-erp/satwa-erp/internal/shared"
)

// Handler exposes banking endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers banking routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/accounts", h.handleListAccounts)
	r.Post("/accounts", h.handleCreateAccount)
	r.Get("/accounts/{id}", h.handleGetAccount)
	r.Get("/accounts/{id}/transactions", h.handleListTransactions)
	r.Post("/accounts/{id}/transactions", h.handleRecord)
	r.Post("/accounts/{id}/rebuild-balance", h.handleRebuildBalance)
	r.Post("/transactions/{id}/reconcile", h.handleReconcile)
	r.Post("/transactions/{id}/unreconcile", h.handleUnreconcile)
	r.Post("/transactions/{id}/void", h.handleVoid)
}

type createBankAccountRequest struct {
	Name            string `json:"name" validate:"required"`
	AccountNumber   string `json:"accountNumber"`
	BankName        string `json:"bankName"`
	LinkedAccountID int64  `json:"linkedAccountId" validate:"required"`
	InitialBalance  int64  `json:"initialBalance" validate:"gte=0"`
}

type bankAccountResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	AccountNumber   string `json:"accountNumber,omitempty"`
	BankName        string `json:"bankName,omitempty"`
	LinkedAccountID int64  `json:"linkedAccountId"`
	InitialBalance  int64  `json:"initialBalance"`
	CurrentBalance  int64  `json:"currentBalance"`
	IsActive        bool   `json:"isActive"`
	CreatedAt       int64  `json:"createdAt,omitempty"`
}

func toBankAccountResponse(a BankAccount) bankAccountResponse {
	return bankAccountResponse{
		ID:              a.ID,
		Name:            a.Name,
		AccountNumber:   a.AccountNumber,
		BankName:        a.BankName,
		LinkedAccountID: a.LinkedAccountID,
		InitialBalance:  a.InitialBalance,
		CurrentBalance:  a.CurrentBalance,
		IsActive:        a.IsActive,
		CreatedAt:       shared.MillisFromTime(a.CreatedAt),
	}
}

type bankTransactionResponse struct {
	ID             int64  `json:"id"`
	BankAccountID  int64  `json:"bankAccountId"`
	Date           int64  `json:"transactionDate"`
	Type           string `json:"type"`
	Amount         int64  `json:"amount"`
	Reference      string `json:"reference,omitempty"`
	Description    string `json:"description,omitempty"`
	Status         string `json:"status"`
	JournalEntryID *int64 `json:"journalEntryId,omitempty"`
}

func toBankTransactionResponse(t BankTransaction) bankTransactionResponse {
	return bankTransactionResponse{
		ID:             t.ID,
		BankAccountID:  t.BankAccountID,
		Date:           shared.MillisFromTime(t.Date),
		Type:           string(t.Type),
		Amount:         t.Amount,
		Reference:      t.Reference,
		Description:    t.Description,
		Status:         string(t.Status),
		JournalEntryID: t.JournalEntryID,
	}
}

func (h *Handler) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createBankAccountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	account, err := h.service.CreateBankAccount(r.Context(), CreateBankAccountInput{
		Name:            req.Name,
		AccountNumber:   req.AccountNumber,
		BankName:        req.BankName,
		LinkedAccountID: req.LinkedAccountID,
		InitialBalance:  req.InitialBalance,
	})
	if err != nil {
		h.logger.Error("create bank account", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toBankAccountResponse(account))
}

func (h *Handler) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListBankAccounts(r.Context())
	if err != nil {
		h.logger.Error("list bank accounts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]bankAccountResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toBankAccountResponse(a))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"bankAccounts": out})
}

func (h *Handler) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "bank account id must be numeric")
		return
	}
	account, err := h.service.GetBankAccount(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toBankAccountResponse(account))
}

func (h *Handler) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "bank account id must be numeric")
		return
	}
	list, err := h.service.ListTransactions(r.Context(), id)
	if err != nil {
		h.logger.Error("list bank transactions", slog.Int64("bank_account_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]bankTransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toBankTransactionResponse(t))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"transactions": out})
}

type recordTransactionRequest struct {
	Date              int64  `json:"transactionDate" validate:"required"`
	Type              string `json:"type" validate:"required"`
	Amount            int64  `json:"amount" validate:"required,gt=0"`
	Reference         string `json:"reference"`
	Description       string `json:"description"`
	RecordedBy        int64  `json:"recordedBy"`
	AutoCreateJournal *bool  `json:"autoCreateJournal"`
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "bank account id must be numeric")
		return
	}
	var req recordTransactionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	auto := true
	if req.AutoCreateJournal != nil {
		auto = *req.AutoCreateJournal
	}
	result, err := h.service.Record(r.Context(), RecordInput{
		BankAccountID:     id,
		Date:              shared.TimeFromMillis(req.Date),
		Type:              TransactionType(req.Type),
		Amount:            req.Amount,
		Reference:         req.Reference,
		Description:       req.Description,
		RecordedBy:        req.RecordedBy,
		AutoCreateJournal: auto,
	})
	if err != nil {
		h.logger.Error("record bank transaction", slog.Int64("bank_account_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"transaction":    toBankTransactionResponse(result.Transaction),
		"journalEntryId": result.JournalEntryID,
		"newBalance":     result.NewBalance,
	})
}

func (h *Handler) handleReconcile(w http.ResponseWriter, r *http.Request) {
	h.flipReconciliation(w, r, h.service.Reconcile, "reconcile bank transaction")
}

func (h *Handler) handleUnreconcile(w http.ResponseWriter, r *http.Request) {
	h.flipReconciliation(w, r, h.service.Unreconcile, "unreconcile bank transaction")
}

func (h *Handler) flipReconciliation(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id int64) error, logMsg string) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "transaction id must be numeric")
		return
	}
	if err := op(r.Context(), id); err != nil {
		h.logger.Error(logMsg, slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	txn, err := h.service.GetTransaction(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toBankTransactionResponse(txn))
}

type voidTransactionRequest struct {
	ActorID int64  `json:"actorId"`
	Reason  string `json:"reason" validate:"required"`
}

func (h *Handler) handleVoid(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "transaction id must be numeric")
		return
	}
	var req voidTransactionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.Void(r.Context(), id, req.ActorID, req.Reason); err != nil {
		h.logger.Error("void bank transaction", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	txn, err := h.service.GetTransaction(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toBankTransactionResponse(txn))
}

func (h *Handler) handleRebuildBalance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "bank account id must be numeric")
		return
	}
	result, err := h.service.RebuildBalance(r.Context(), id)
	if err != nil {
		h.logger.Error("rebuild bank balance", slog.Int64("bank_account_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"bankAccountId":   result.BankAccountID,
		"previousBalance": result.PreviousBalance,
		"rebuiltBalance":  result.RebuiltBalance,
		"drift":           result.Drift,
	})
}
