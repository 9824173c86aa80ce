package banking

import (
	"fmt"
	"time"

	"github.com/satwa-erp/satwa-erp/internal/shared"
)

// CreateBankAccountInput groups fields for registering a bank account.
type CreateBankAccountInput struct {
	Name            string
	AccountNumber   string
	BankName        string
	LinkedAccountID int64
	InitialBalance  int64
}

// Validate ensures the bank account input is usable.
func (in CreateBankAccountInput) Validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: bank account name required", shared.ErrValidation)
	}
	if in.LinkedAccountID == 0 {
		return fmt.Errorf("%w: linked ledger account required", shared.ErrValidation)
	}
	if in.InitialBalance < 0 {
		return fmt.Errorf("%w: initial balance cannot be negative", shared.ErrValidation)
	}
	return nil
}

// RecordInput groups fields for recording a bank transaction.
type RecordInput struct {
	BankAccountID     int64
	Date              time.Time
	Type              TransactionType
	Amount            int64
	Reference         string
	Description       string
	RecordedBy        int64
	AutoCreateJournal bool
}

// Validate checks the structural pieces; the routing table validates the
// type when the journal legs are derived.
func (in RecordInput) Validate() error {
	if in.BankAccountID == 0 {
		return fmt.Errorf("%w: bank account required", shared.ErrValidation)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: transaction date required", shared.ErrValidation)
	}
	if in.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", shared.ErrValidation)
	}
	return nil
}

// RecordResult reports what a record operation created.
type RecordResult struct {
	Transaction    BankTransaction
	JournalEntryID *int64
	NewBalance     int64
}

// RebuildResult reports a balance rebuild outcome.
type RebuildResult struct {
	BankAccountID   int64
	PreviousBalance int64
	RebuiltBalance  int64
	Drift           int64
}
