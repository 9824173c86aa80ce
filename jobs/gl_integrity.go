package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/satwa-erp/satwa-erp/internal/accounting/reports"
)

// TrialBalancer is the slice of the report engine the integrity job needs.
type TrialBalancer interface {
	TrialBalance(ctx context.Context, asOf time.Time) (reports.TrialBalance, error)
}

// GLIntegrityHandler runs the ledger closure check: the trial balance over
// all posted entries must have equal debit and credit totals. An imbalance
// means corrupted data, since posting rejects unbalanced entries; the job
// fails loudly so the alert is visible in the queue.
type GLIntegrityHandler struct {
	balancer TrialBalancer
	logger   *slog.Logger
}

// NewGLIntegrityHandler builds the handler.
func NewGLIntegrityHandler(balancer TrialBalancer, logger *slog.Logger) *GLIntegrityHandler {
	return &GLIntegrityHandler{balancer: balancer, logger: logger}
}

// Handle processes TaskGLIntegrity tasks.
func (h *GLIntegrityHandler) Handle(ctx context.Context, t *asynq.Task) error {
	tb, err := h.balancer.TrialBalance(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if tb.Imbalanced {
		h.logger.Error("ledger integrity violated",
			slog.Int64("total_debit", tb.TotalDebit),
			slog.Int64("total_credit", tb.TotalCredit),
			slog.Int64("imbalance", tb.Imbalance))
		return fmt.Errorf("jobs: trial balance off by %d", tb.Imbalance)
	}
	h.logger.Info("ledger integrity verified",
		slog.Int64("total_debit", tb.TotalDebit),
		slog.Int64("total_credit", tb.TotalCredit))
	return nil
}
