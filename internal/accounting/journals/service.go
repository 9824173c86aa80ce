package journals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/satwa-erp/satwa-erp/internal/accounting/shared"
)

// Service is the single write path for financial movement. Every business
// event that touches the ledger goes through Post, and corrections go
// through Void or Reverse, never through edits.
type Service struct {
	repo     Repository
	metrics  Recorder
	onChange func(context.Context)
	now      func() time.Time
}

// Recorder counts posting activity for monitoring. A nil recorder disables
// counting.
type Recorder interface {
	JournalPosted()
	JournalVoided()
}

// NewService builds Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithNow overrides the clock, used by tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// WithMetrics attaches a posting activity recorder.
func (s *Service) WithMetrics(rec Recorder) {
	s.metrics = rec
}

// OnLedgerChange registers a callback fired after every successful post,
// void, or reversal. The dashboard hangs its cache invalidation here.
func (s *Service) OnLedgerChange(fn func(context.Context)) {
	s.onChange = fn
}

func (s *Service) notifyChange(ctx context.Context) {
	if s.onChange != nil {
		s.onChange(ctx)
	}
}

// List returns journal entries matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]JournalEntry, error) {
	return s.repo.List(ctx, filter)
}

// Get fetches an entry with its lines.
func (s *Service) Get(ctx context.Context, entryID int64) (JournalEntry, error) {
	entry, lines, err := s.repo.Get(ctx, entryID)
	if err != nil {
		return JournalEntry{}, err
	}
	entry.Lines = lines
	return entry, nil
}

// Post validates and commits a balanced journal entry. The whole operation
// happens in one transaction: number allocation, entry insert, and line
// inserts either all land or none do.
func (s *Service) Post(ctx context.Context, input PostingInput) (JournalEntry, error) {
	if err := input.Validate(); err != nil {
		return JournalEntry{}, err
	}
	totalDebit, totalCredit := input.Totals()
	var entry JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		for idx, line := range input.Lines {
			account, err := tx.GetAccountForPosting(ctx, line.AccountID)
			if err != nil {
				if errors.Is(err, shared.ErrAccountNotFound) {
					return fmt.Errorf("%w: line %d account %d", shared.ErrAccountNotFound, idx, line.AccountID)
				}
				return err
			}
			if account.Postable() {
				continue
			}
			switch {
			case account.DeletedAt != nil:
				return fmt.Errorf("%w: line %d account %s is deleted", shared.ErrAccountNotFound, idx, account.Code)
			case account.IsHeader:
				return fmt.Errorf("%w: line %d account %s", shared.ErrHeaderAccount, idx, account.Code)
			default:
				return fmt.Errorf("%w: line %d account %s", shared.ErrAccountInactive, idx, account.Code)
			}
		}
		number, err := tx.NextJournalNumber(ctx)
		if err != nil {
			return err
		}
		inserted, err := tx.InsertJournalEntry(ctx, number, input, totalDebit, totalCredit)
		if err != nil {
			return err
		}
		if err := tx.InsertJournalLines(ctx, inserted.ID, input.Lines); err != nil {
			return err
		}
		inserted.Lines = toJournalLines(inserted.ID, input.Lines, s.now())
		entry = inserted
		return nil
	})
	if err != nil {
		return JournalEntry{}, err
	}
	if s.metrics != nil {
		s.metrics.JournalPosted()
	}
	s.notifyChange(ctx)
	return entry, nil
}

// Void flips a posted entry to VOID. Lines are never deleted or mutated;
// voided entries stay readable for audit but drop out of every report.
// VOID is terminal.
func (s *Service) Void(ctx context.Context, input VoidInput) (JournalEntry, error) {
	if input.EntryID == 0 {
		return JournalEntry{}, errors.New("accounting: entry id required")
	}
	if input.Reason == "" {
		return JournalEntry{}, errors.New("accounting: void reason required")
	}
	var entry JournalEntry
	var lines []JournalLine
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, currLines, err := tx.GetJournalWithLines(ctx, input.EntryID)
		if err != nil {
			return err
		}
		if current.Status != JournalStatusPosted {
			return fmt.Errorf("%w: cannot void %s entry %s", shared.ErrInvalidStatus, current.Status, current.NumberString())
		}
		at := s.now()
		if err := tx.MarkVoided(ctx, current.ID, input.ActorID, input.Reason, at); err != nil {
			return err
		}
		entry = current
		entry.Status = JournalStatusVoid
		entry.VoidedBy = &input.ActorID
		entry.VoidedAt = &at
		entry.VoidReason = input.Reason
		lines = currLines
		return nil
	})
	if err != nil {
		return JournalEntry{}, err
	}
	if s.metrics != nil {
		s.metrics.JournalVoided()
	}
	s.notifyChange(ctx)
	entry.Lines = lines
	return entry, nil
}

// Reverse posts a new entry mirroring the original's lines. This is the
// correction path when the original must stay POSTED for the period it
// belongs to.
func (s *Service) Reverse(ctx context.Context, input ReverseInput) (JournalEntry, error) {
	if input.EntryID == 0 {
		return JournalEntry{}, errors.New("accounting: entry id required")
	}
	var reversal JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		original, lines, err := tx.GetJournalWithLines(ctx, input.EntryID)
		if err != nil {
			return err
		}
		if original.Status != JournalStatusPosted {
			return fmt.Errorf("%w: cannot reverse %s entry %s", shared.ErrInvalidStatus, original.Status, original.NumberString())
		}
		targetDate := original.Date
		if input.TargetDate != nil {
			targetDate = *input.TargetDate
		}
		posting := PostingInput{
			Date:        targetDate,
			SourceType:  original.SourceType + ":REVERSAL",
			SourceID:    uuid.New(),
			Description: defaultReversalMemo(input.Memo, original),
			PostedBy:    input.ActorID,
			Lines:       reverseLines(lines),
		}
		number, err := tx.NextJournalNumber(ctx)
		if err != nil {
			return err
		}
		totalDebit, totalCredit := posting.Totals()
		inserted, err := tx.InsertJournalEntry(ctx, number, posting, totalDebit, totalCredit)
		if err != nil {
			return err
		}
		if err := tx.InsertJournalLines(ctx, inserted.ID, posting.Lines); err != nil {
			return err
		}
		reversal = inserted
		reversal.Lines = toJournalLines(inserted.ID, posting.Lines, s.now())
		return nil
	})
	if err != nil {
		return JournalEntry{}, err
	}
	if s.metrics != nil {
		s.metrics.JournalPosted()
	}
	s.notifyChange(ctx)
	return reversal, nil
}

func reverseLines(lines []JournalLine) []PostingLineInput {
	out := make([]PostingLineInput, 0, len(lines))
	for _, line := range lines {
		out = append(out, PostingLineInput{
			AccountID:   line.AccountID,
			BranchID:    line.BranchID,
			Description: line.Description,
			Debit:       line.Credit,
			Credit:      line.Debit,
		})
	}
	return out
}

func toJournalLines(entryID int64, lines []PostingLineInput, ts time.Time) []JournalLine {
	out := make([]JournalLine, 0, len(lines))
	for idx, line := range lines {
		out = append(out, JournalLine{
			JournalID:   entryID,
			AccountID:   line.AccountID,
			BranchID:    line.BranchID,
			Description: line.Description,
			Debit:       line.Debit,
			Credit:      line.Credit,
			SortOrder:   idx,
			CreatedAt:   ts,
		})
	}
	return out
}

func defaultReversalMemo(memo string, original JournalEntry) string {
	if memo != "" {
		return memo
	}
	return fmt.Sprintf("Reversal of %s", original.NumberString())
}
