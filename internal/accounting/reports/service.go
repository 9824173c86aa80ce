package reports

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/satwa-erp/satwa-erp/internal/accounting/accounts"
	"github.com/satwa-erp/satwa-erp/internal/shared"
)

// Service computes the derived financial reports. All reads are
// point-in-time snapshots of whatever was POSTED at scan time.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService builds Service instance.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// TrialBalance nets every account's posted activity up to asOf. An
// imbalance is logged and flagged on the result, never returned as an
// error: the current read did not fail, the committed history did.
func (s *Service) TrialBalance(ctx context.Context, asOf time.Time) (TrialBalance, error) {
	activity, err := s.repo.AccountActivity(ctx, time.Time{}, asOf)
	if err != nil {
		return TrialBalance{}, err
	}
	tb := BuildTrialBalance(activity)
	if tb.Imbalanced && s.logger != nil {
		s.logger.Warn("trial balance does not reconcile",
			slog.Time("as_of", asOf),
			slog.Int64("imbalance", tb.Imbalance))
	}
	return tb, nil
}

// AccountLedger computes the running-balance statement for one account.
func (s *Service) AccountLedger(ctx context.Context, accountID int64, start, end time.Time) (Ledger, error) {
	if end.Before(start) {
		return Ledger{}, fmt.Errorf("%w: end date before start date", shared.ErrValidation)
	}
	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return Ledger{}, err
	}
	debit, credit, err := s.repo.OpeningSums(ctx, accountID, start)
	if err != nil {
		return Ledger{}, err
	}
	opening := debit - credit
	if account.NormalBalance == accounts.NormalBalanceCredit {
		opening = credit - debit
	}
	lines, err := s.repo.LedgerLines(ctx, accountID, start, end)
	if err != nil {
		return Ledger{}, err
	}
	return BuildLedger(account, opening, lines), nil
}

// BalanceSheet aggregates cumulative posted balances as of a date.
func (s *Service) BalanceSheet(ctx context.Context, asOf time.Time) (BalanceSheet, error) {
	activity, err := s.repo.AccountActivity(ctx, time.Time{}, asOf)
	if err != nil {
		return BalanceSheet{}, err
	}
	return BuildBalanceSheet(activity), nil
}

// IncomeStatement aggregates revenue and expense activity over a range.
func (s *Service) IncomeStatement(ctx context.Context, start, end time.Time) (IncomeStatement, error) {
	if end.Before(start) {
		return IncomeStatement{}, fmt.Errorf("%w: end date before start date", shared.ErrValidation)
	}
	activity, err := s.repo.AccountActivity(ctx, start, end)
	if err != nil {
		return IncomeStatement{}, err
	}
	return BuildIncomeStatement(activity), nil
}
