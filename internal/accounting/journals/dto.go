package journals

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/satwa-erp/satwa-erp/internal/accounting/shared"
)

// PostingLineInput describes a journal line for a posting request.
type PostingLineInput struct {
	AccountID   int64
	BranchID    *int64
	Description string
	Debit       int64
	Credit      int64
}

// PostingInput groups fields required to create a journal entry.
type PostingInput struct {
	Date        time.Time
	Description string
	SourceType  SourceType
	SourceID    uuid.UUID
	PostedBy    int64
	Lines       []PostingLineInput
}

// Validate ensures posting input meets minimum criteria. Balance is checked
// exactly: amounts are integer Rupiah, so there is no rounding tolerance.
func (in PostingInput) Validate() error {
	if in.Date.IsZero() {
		return errors.New("accounting: journal date required")
	}
	if in.SourceType == "" {
		return errors.New("accounting: source type required")
	}
	if in.SourceID == uuid.Nil {
		return errors.New("accounting: source id required")
	}
	if len(in.Lines) < 2 {
		return shared.ErrTooFewLines
	}
	var debit, credit int64
	for idx, line := range in.Lines {
		if line.AccountID == 0 {
			return fmt.Errorf("accounting: line %d missing account", idx)
		}
		if line.Debit < 0 || line.Credit < 0 {
			return fmt.Errorf("accounting: line %d negative amount", idx)
		}
		if line.Debit > 0 && line.Credit > 0 {
			return fmt.Errorf("accounting: line %d cannot be both debit and credit", idx)
		}
		if line.Debit == 0 && line.Credit == 0 {
			return fmt.Errorf("accounting: line %d has no amount", idx)
		}
		debit += line.Debit
		credit += line.Credit
	}
	if debit != credit {
		return fmt.Errorf("%w: debit %d vs credit %d", shared.ErrUnbalanced, debit, credit)
	}
	return nil
}

// Totals returns the summed debit and credit sides.
func (in PostingInput) Totals() (debit, credit int64) {
	for _, line := range in.Lines {
		debit += line.Debit
		credit += line.Credit
	}
	return debit, credit
}

// VoidInput wraps parameters for voiding.
type VoidInput struct {
	EntryID int64
	ActorID int64
	Reason  string
}

// ReverseInput wraps parameters for reversal.
type ReverseInput struct {
	EntryID    int64
	ActorID    int64
	Memo       string
	TargetDate *time.Time
}
