package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/satwa-erp/satwa-erp/internal/accounting/accounts"
	"github.com/satwa-erp/satwa-erp/internal/accounting/journals"
	acctshared "github.com/satwa-erp/satwa-erp/internal/accounting/shared"
	"github.com/satwa-erp/satwa-erp/internal/shared"
)

// ledgerStore fakes the reports repository on top of a plain entry slice,
// applying the same POSTED-only filter the SQL queries do.
type ledgerStore struct {
	accounts map[int64]accounts.Account
	entries  []*journals.JournalEntry
}

func newLedgerStore() *ledgerStore {
	return &ledgerStore{accounts: make(map[int64]accounts.Account)}
}

func (s *ledgerStore) addAccount(a accounts.Account) { s.accounts[a.ID] = a }

func (s *ledgerStore) post(number int64, date time.Time, lines ...journals.JournalLine) *journals.JournalEntry {
	entry := &journals.JournalEntry{Number: number, Date: date, Status: journals.JournalStatusPosted, Lines: lines}
	s.entries = append(s.entries, entry)
	return entry
}

func (s *ledgerStore) AccountActivity(ctx context.Context, from, to time.Time) ([]AccountActivity, error) {
	sums := make(map[int64]*AccountActivity)
	var order []int64
	for _, entry := range s.entries {
		if entry.Status != journals.JournalStatusPosted {
			continue
		}
		if !from.IsZero() && entry.Date.Before(from) {
			continue
		}
		if !to.IsZero() && entry.Date.After(to) {
			continue
		}
		for _, line := range entry.Lines {
			agg, ok := sums[line.AccountID]
			if !ok {
				account := s.accounts[line.AccountID]
				agg = &AccountActivity{
					AccountID:     account.ID,
					Code:          account.Code,
					Name:          account.Name,
					Type:          account.Type,
					NormalBalance: account.NormalBalance,
					Category:      account.Category,
				}
				sums[line.AccountID] = agg
				order = append(order, line.AccountID)
			}
			agg.Debit += line.Debit
			agg.Credit += line.Credit
		}
	}
	out := make([]AccountActivity, 0, len(order))
	for _, id := range order {
		out = append(out, *sums[id])
	}
	return out, nil
}

func (s *ledgerStore) GetAccount(ctx context.Context, accountID int64) (accounts.Account, error) {
	a, ok := s.accounts[accountID]
	if !ok {
		return accounts.Account{}, acctshared.ErrAccountNotFound
	}
	return a, nil
}

func (s *ledgerStore) OpeningSums(ctx context.Context, accountID int64, before time.Time) (int64, int64, error) {
	var debit, credit int64
	for _, entry := range s.entries {
		if entry.Status != journals.JournalStatusPosted || !entry.Date.Before(before) {
			continue
		}
		for _, line := range entry.Lines {
			if line.AccountID == accountID {
				debit += line.Debit
				credit += line.Credit
			}
		}
	}
	return debit, credit, nil
}

func (s *ledgerStore) LedgerLines(ctx context.Context, accountID int64, from, to time.Time) ([]LedgerLine, error) {
	var out []LedgerLine
	for _, entry := range s.entries {
		if entry.Status != journals.JournalStatusPosted || entry.Date.Before(from) || entry.Date.After(to) {
			continue
		}
		for _, line := range entry.Lines {
			if line.AccountID == accountID {
				out = append(out, LedgerLine{
					Date:          entry.Date,
					JournalNumber: entry.Number,
					Description:   line.Description,
					Debit:         line.Debit,
					Credit:        line.Credit,
				})
			}
		}
	}
	return out, nil
}

func kasAndPenjualan(store *ledgerStore) {
	store.addAccount(accounts.Account{ID: 1, Code: "1-100", Name: "Kas", Type: accounts.AccountTypeAsset, NormalBalance: accounts.NormalBalanceDebit})
	store.addAccount(accounts.Account{ID: 2, Code: "4-100", Name: "Penjualan", Type: accounts.AccountTypeRevenue, NormalBalance: accounts.NormalBalanceCredit})
}

func TestTrialBalanceScenarioKasPenjualan(t *testing.T) {
	store := newLedgerStore()
	kasAndPenjualan(store)
	today := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	entry := store.post(1, today,
		journals.JournalLine{AccountID: 1, Debit: 200_000},
		journals.JournalLine{AccountID: 2, Credit: 200_000},
	)

	svc := NewService(store, nil)
	ctx := context.Background()

	tb, err := svc.TrialBalance(ctx, today)
	require.NoError(t, err)
	require.Len(t, tb.Rows, 2)
	require.Equal(t, "1-100", tb.Rows[0].Code)
	require.Equal(t, int64(200_000), tb.Rows[0].DebitBalance)
	require.Equal(t, "4-100", tb.Rows[1].Code)
	require.Equal(t, int64(200_000), tb.Rows[1].CreditBalance)
	require.Equal(t, tb.TotalDebit, tb.TotalCredit)

	// Voiding the entry removes it from every subsequent report.
	entry.Status = journals.JournalStatusVoid

	tb, err = svc.TrialBalance(ctx, today)
	require.NoError(t, err)
	require.Empty(t, tb.Rows)
	require.Zero(t, tb.TotalDebit)
	require.Zero(t, tb.TotalCredit)
	require.False(t, tb.Imbalanced)
}

func TestVoidedEntriesExcludedFromLedgerAndBalanceSheet(t *testing.T) {
	store := newLedgerStore()
	kasAndPenjualan(store)
	day1 := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)
	store.post(1, day1,
		journals.JournalLine{AccountID: 1, Debit: 100_000},
		journals.JournalLine{AccountID: 2, Credit: 100_000},
	)
	voided := store.post(2, day2,
		journals.JournalLine{AccountID: 1, Debit: 999_000},
		journals.JournalLine{AccountID: 2, Credit: 999_000},
	)
	voided.Status = journals.JournalStatusVoid

	svc := NewService(store, nil)
	ctx := context.Background()

	ledger, err := svc.AccountLedger(ctx, 1, day1, day2)
	require.NoError(t, err)
	require.Len(t, ledger.Entries, 1)
	require.Equal(t, int64(100_000), ledger.ClosingBalance)

	bs, err := svc.BalanceSheet(ctx, day2)
	require.NoError(t, err)
	require.Equal(t, int64(100_000), bs.Assets.Total)
}

func TestAccountLedgerOpeningBalance(t *testing.T) {
	store := newLedgerStore()
	kasAndPenjualan(store)
	march := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	april := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	store.post(1, march,
		journals.JournalLine{AccountID: 1, Debit: 500_000},
		journals.JournalLine{AccountID: 2, Credit: 500_000},
	)
	store.post(2, april,
		journals.JournalLine{AccountID: 1, Debit: 50_000},
		journals.JournalLine{AccountID: 2, Credit: 50_000},
	)

	svc := NewService(store, nil)
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)

	ledger, err := svc.AccountLedger(context.Background(), 1, start, end)
	require.NoError(t, err)
	require.Equal(t, int64(500_000), ledger.OpeningBalance)
	require.Len(t, ledger.Entries, 1)
	require.Equal(t, int64(550_000), ledger.ClosingBalance)
}

func TestAccountLedgerRejectsInvertedRange(t *testing.T) {
	store := newLedgerStore()
	kasAndPenjualan(store)
	svc := NewService(store, nil)

	_, err := svc.AccountLedger(context.Background(), 1, time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestIncomeStatementWindowsBySourceDates(t *testing.T) {
	store := newLedgerStore()
	kasAndPenjualan(store)
	store.addAccount(accounts.Account{ID: 3, Code: "5-100", Name: "HPP", Type: accounts.AccountTypeExpense, NormalBalance: accounts.NormalBalanceDebit, Category: CategoryCOGS})
	inRange := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	outOfRange := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	store.post(1, inRange,
		journals.JournalLine{AccountID: 1, Debit: 400_000},
		journals.JournalLine{AccountID: 2, Credit: 400_000},
	)
	store.post(2, inRange,
		journals.JournalLine{AccountID: 3, Debit: 150_000},
		journals.JournalLine{AccountID: 1, Credit: 150_000},
	)
	store.post(3, outOfRange,
		journals.JournalLine{AccountID: 1, Debit: 999_000},
		journals.JournalLine{AccountID: 2, Credit: 999_000},
	)

	svc := NewService(store, nil)
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	is, err := svc.IncomeStatement(context.Background(), start, end)
	require.NoError(t, err)
	require.Equal(t, int64(400_000), is.Revenue.Total)
	require.Equal(t, int64(150_000), is.COGS.Total)
	require.Equal(t, int64(250_000), is.GrossProfit)
	require.Equal(t, int64(250_000), is.NetIncome)
}
