package reports

import (
	"sort"
	"time"

	"github.com/satwa-erp/satwa-erp/internal/accounting/accounts"
)

// LedgerLine is one posted journal line touching the ledger account.
type LedgerLine struct {
	Date          time.Time
	JournalNumber int64
	Description   string
	Debit         int64
	Credit        int64
}

// LedgerEntry is a ledger line with its running balance.
type LedgerEntry struct {
	LedgerLine
	Balance int64
}

// Ledger is the per-account statement for a date range.
type Ledger struct {
	AccountID      int64
	Code           string
	Name           string
	NormalBalance  string
	OpeningBalance int64
	Entries        []LedgerEntry
	ClosingBalance int64
	TotalDebit     int64
	TotalCredit    int64
}

// BuildLedger computes the running balance sequence for an account. Lines
// sort ascending by journal date with journal number breaking ties, so the
// running balance is deterministic even for same-day postings. Each step
// applies the debit/credit delta signed by the account's normal balance.
func BuildLedger(account accounts.Account, opening int64, lines []LedgerLine) Ledger {
	sorted := make([]LedgerLine, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].JournalNumber < sorted[j].JournalNumber
	})

	ledger := Ledger{
		AccountID:      account.ID,
		Code:           account.Code,
		Name:           account.Name,
		NormalBalance:  string(account.NormalBalance),
		OpeningBalance: opening,
		ClosingBalance: opening,
	}
	balance := opening
	for _, line := range sorted {
		delta := line.Debit - line.Credit
		if account.NormalBalance == accounts.NormalBalanceCredit {
			delta = line.Credit - line.Debit
		}
		balance += delta
		ledger.Entries = append(ledger.Entries, LedgerEntry{LedgerLine: line, Balance: balance})
		ledger.TotalDebit += line.Debit
		ledger.TotalCredit += line.Credit
	}
	ledger.ClosingBalance = balance
	return ledger
}
