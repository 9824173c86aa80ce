package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/satwa-erp/satwa-erp/internal/banking"
)

// BalanceRebuilder is the slice of the banking service the rebuild job needs.
type BalanceRebuilder interface {
	ListBankAccounts(ctx context.Context) ([]banking.BankAccount, error)
	RebuildBalance(ctx context.Context, bankAccountID int64) (banking.RebuildResult, error)
}

// BankRebuildHandler recomputes cached bank balances from the transaction
// log, one account or all of them.
type BankRebuildHandler struct {
	banking BalanceRebuilder
	logger  *slog.Logger
}

// NewBankRebuildHandler builds the handler.
func NewBankRebuildHandler(rebuilder BalanceRebuilder, logger *slog.Logger) *BankRebuildHandler {
	return &BankRebuildHandler{banking: rebuilder, logger: logger}
}

// Handle processes TaskBankRebuild tasks.
func (h *BankRebuildHandler) Handle(ctx context.Context, t *asynq.Task) error {
	var payload BankRebuildPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	if payload.BankAccountID != 0 {
		return h.rebuildOne(ctx, payload.BankAccountID)
	}
	accounts, err := h.banking.ListBankAccounts(ctx)
	if err != nil {
		return err
	}
	for _, account := range accounts {
		if err := h.rebuildOne(ctx, account.ID); err != nil {
			return err
		}
	}
	return nil
}

func (h *BankRebuildHandler) rebuildOne(ctx context.Context, id int64) error {
	result, err := h.banking.RebuildBalance(ctx, id)
	if err != nil {
		return err
	}
	if result.Drift != 0 {
		h.logger.Warn("bank balance rebuilt",
			slog.Int64("bank_account_id", id),
			slog.Int64("previous", result.PreviousBalance),
			slog.Int64("rebuilt", result.RebuiltBalance),
			slog.Int64("drift", result.Drift))
	}
	return nil
}
