package journals

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JournalStatus enumerates journal lifecycle values.
type JournalStatus string

const (
	JournalStatusDraft  JournalStatus = "DRAFT"
	JournalStatusPosted JournalStatus = "POSTED"
	JournalStatusVoid   JournalStatus = "VOID"
)

// SourceType tags the subsystem a journal entry originated from.
type SourceType string

const (
	SourceBank     SourceType = "BANK"
	SourceSales    SourceType = "SALES"
	SourcePurchase SourceType = "PURCHASE"
	SourceExpense  SourceType = "EXPENSE"
	SourceManual   SourceType = "MANUAL"
)

// JournalEntry captures posting metadata. Amounts are whole Rupiah (int64),
// and for any POSTED entry TotalDebit == TotalCredit holds exactly.
type JournalEntry struct {
	ID          int64
	Number      int64
	Date        time.Time
	Description string
	SourceType  SourceType
	SourceID    uuid.UUID
	Status      JournalStatus
	TotalDebit  int64
	TotalCredit int64
	PostedBy    int64
	PostedAt    time.Time
	VoidedBy    *int64
	VoidedAt    *time.Time
	VoidReason  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Lines       []JournalLine
}

// NumberString renders the sequential number in the human-readable form
// shown on vouchers, e.g. JV-000042.
func (e JournalEntry) NumberString() string {
	return fmt.Sprintf("JV-%06d", e.Number)
}

// JournalLine stores a debit or credit amount for an account. Lines are
// immutable once created; corrections happen via new reversing entries.
type JournalLine struct {
	ID          int64
	JournalID   int64
	AccountID   int64
	BranchID    *int64
	Description string
	Debit       int64
	Credit      int64
	SortOrder   int
	CreatedAt   time.Time
}
