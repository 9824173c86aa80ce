package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/satwa-erp/satwa-erp/internal/accounting/reports"
	"github.com/satwa-erp/satwa-erp/internal/banking"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubBalancer struct {
	tb  reports.TrialBalance
	err error
}

func (s *stubBalancer) TrialBalance(ctx context.Context, asOf time.Time) (reports.TrialBalance, error) {
	return s.tb, s.err
}

func TestGLIntegrityPassesWhenBalanced(t *testing.T) {
	h := NewGLIntegrityHandler(&stubBalancer{
		tb: reports.TrialBalance{TotalDebit: 500_000, TotalCredit: 500_000},
	}, testLogger())
	require.NoError(t, h.Handle(context.Background(), NewGLIntegrityTask()))
}

func TestGLIntegrityFailsOnImbalance(t *testing.T) {
	h := NewGLIntegrityHandler(&stubBalancer{
		tb: reports.TrialBalance{TotalDebit: 500_000, TotalCredit: 499_000, Imbalanced: true, Imbalance: 1_000},
	}, testLogger())
	err := h.Handle(context.Background(), NewGLIntegrityTask())
	require.Error(t, err)
	require.Contains(t, err.Error(), "1000")
}

type stubRebuilder struct {
	accounts []banking.BankAccount
	rebuilt  []int64
}

func (s *stubRebuilder) ListBankAccounts(ctx context.Context) ([]banking.BankAccount, error) {
	return s.accounts, nil
}

func (s *stubRebuilder) RebuildBalance(ctx context.Context, id int64) (banking.RebuildResult, error) {
	s.rebuilt = append(s.rebuilt, id)
	return banking.RebuildResult{BankAccountID: id}, nil
}

func TestBankRebuildSingleAccount(t *testing.T) {
	rebuilder := &stubRebuilder{}
	h := NewBankRebuildHandler(rebuilder, testLogger())

	task, err := NewBankRebuildTask(BankRebuildPayload{BankAccountID: 7})
	require.NoError(t, err)
	require.NoError(t, h.Handle(context.Background(), task))
	require.Equal(t, []int64{7}, rebuilder.rebuilt)
}

func TestBankRebuildAllAccounts(t *testing.T) {
	rebuilder := &stubRebuilder{accounts: []banking.BankAccount{{ID: 1}, {ID: 2}, {ID: 3}}}
	h := NewBankRebuildHandler(rebuilder, testLogger())

	task, err := NewBankRebuildTask(BankRebuildPayload{})
	require.NoError(t, err)
	require.NoError(t, h.Handle(context.Background(), task))
	require.Equal(t, []int64{1, 2, 3}, rebuilder.rebuilt)
}

func TestBankRebuildSkipsRetryOnBadPayload(t *testing.T) {
	h := NewBankRebuildHandler(&stubRebuilder{}, testLogger())
	err := h.Handle(context.Background(), asynq.NewTask(TaskBankRebuild, []byte("{broken")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}
