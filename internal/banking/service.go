package banking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/satwa-erp/satwa-erp/internal/accounting/accounts"
	"github.com/satwa-erp/satwa-erp/internal/accounting/journals"
	"github.com/satwa-erp/satwa-erp/internal/shared"
)

// JournalPort is the slice of the journal engine banking needs.
type JournalPort interface {
	Post(ctx context.Context, input journals.PostingInput) (journals.JournalEntry, error)
	Void(ctx context.Context, input journals.VoidInput) (journals.JournalEntry, error)
}

// AccountPort reads chart accounts.
type AccountPort interface {
	Get(ctx context.Context, id int64) (accounts.Account, error)
	GetByCode(ctx context.Context, code string) (accounts.Account, error)
}

// Service handles bank account and transaction business logic.
type Service struct {
	repo       Repository
	journal    JournalPort
	accounts   AccountPort
	translator *Translator
	logger     *slog.Logger
	now        func() time.Time
}

// NewService builds Service instance.
func NewService(repo Repository, journal JournalPort, accountPort AccountPort, routing Routing, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		journal:    journal,
		accounts:   accountPort,
		translator: NewTranslator(routing, accountPort),
		logger:     logger,
		now:        time.Now,
	}
}

// WithNow overrides the clock, used by tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// CreateBankAccount registers a bank account linked to a postable asset
// account in the chart.
func (s *Service) CreateBankAccount(ctx context.Context, in CreateBankAccountInput) (BankAccount, error) {
	if err := in.Validate(); err != nil {
		return BankAccount{}, err
	}
	linked, err := s.accounts.Get(ctx, in.LinkedAccountID)
	if err != nil {
		return BankAccount{}, fmt.Errorf("%w: linked account %d", shared.ErrValidation, in.LinkedAccountID)
	}
	if linked.IsHeader {
		return BankAccount{}, fmt.Errorf("%w: linked account %s is a header", shared.ErrValidation, linked.Code)
	}
	if linked.Type != accounts.AccountTypeAsset {
		return BankAccount{}, fmt.Errorf("%w: linked account %s is not an asset account", shared.ErrValidation, linked.Code)
	}
	return s.repo.CreateBankAccount(ctx, in)
}

// GetBankAccount fetches one bank account.
func (s *Service) GetBankAccount(ctx context.Context, id int64) (BankAccount, error) {
	return s.repo.GetBankAccount(ctx, id)
}

// ListBankAccounts returns all bank accounts.
func (s *Service) ListBankAccounts(ctx context.Context) ([]BankAccount, error) {
	return s.repo.ListBankAccounts(ctx)
}

// GetTransaction fetches one bank transaction.
func (s *Service) GetTransaction(ctx context.Context, id int64) (BankTransaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

// ListTransactions returns a bank account's transactions, newest first.
func (s *Service) ListTransactions(ctx context.Context, bankAccountID int64) ([]BankTransaction, error) {
	return s.repo.ListTransactions(ctx, bankAccountID)
}

// Record stores a bank transaction, posts its journal entry, and moves the
// cached balance, both or neither. The journal engine posts in its own
// transaction, so a failure while inserting the bank transaction triggers
// a compensating void of the entry that just landed.
func (s *Service) Record(ctx context.Context, in RecordInput) (RecordResult, error) {
	if err := in.Validate(); err != nil {
		return RecordResult{}, err
	}
	account, err := s.repo.GetBankAccount(ctx, in.BankAccountID)
	if err != nil {
		return RecordResult{}, err
	}

	var journalEntryID *int64
	if in.AutoCreateJournal {
		lines, err := s.translator.Lines(ctx, BankTransaction{
			Type:        in.Type,
			Amount:      in.Amount,
			Description: in.Description,
		}, account.LinkedAccountID)
		if err != nil {
			return RecordResult{}, err
		}
		entry, err := s.journal.Post(ctx, journals.PostingInput{
			Date:        in.Date,
			Description: journalDescription(in, account),
			SourceType:  journals.SourceBank,
			SourceID:    uuid.New(),
			PostedBy:    in.RecordedBy,
			Lines:       lines,
		})
		if err != nil {
			return RecordResult{}, err
		}
		journalEntryID = &entry.ID
	} else if _, _, err := s.translator.route(in.Type); err != nil {
		// Still reject unknown types even when no journal is requested.
		return RecordResult{}, err
	}

	var result RecordResult
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		txn, err := tx.InsertTransaction(ctx, in, journalEntryID)
		if err != nil {
			return err
		}
		balance, err := tx.AdjustBalance(ctx, in.BankAccountID, txn.BalanceDelta())
		if err != nil {
			return err
		}
		result = RecordResult{Transaction: txn, JournalEntryID: journalEntryID, NewBalance: balance}
		return nil
	})
	if err != nil {
		if journalEntryID != nil {
			if _, voidErr := s.journal.Void(ctx, journals.VoidInput{
				EntryID: *journalEntryID,
				ActorID: in.RecordedBy,
				Reason:  "bank transaction record failed",
			}); voidErr != nil && s.logger != nil {
				s.logger.Error("compensating void failed, journal entry orphaned",
					slog.Int64("journal_entry_id", *journalEntryID),
					slog.Any("error", voidErr))
			}
		}
		return RecordResult{}, err
	}
	return result, nil
}

// Reconcile marks a transaction matched against a bank statement. Fails if
// it is already reconciled or voided.
func (s *Service) Reconcile(ctx context.Context, transactionID int64) error {
	if err := s.repo.UpdateReconciliation(ctx, transactionID, StatusUnreconciled, StatusReconciled); err != nil {
		if errors.Is(err, shared.ErrInvariant) {
			return fmt.Errorf("%w: transaction %d is not unreconciled", shared.ErrInvariant, transactionID)
		}
		return err
	}
	return nil
}

// Unreconcile reverts a reconciled transaction to unreconciled.
func (s *Service) Unreconcile(ctx context.Context, transactionID int64) error {
	if err := s.repo.UpdateReconciliation(ctx, transactionID, StatusReconciled, StatusUnreconciled); err != nil {
		if errors.Is(err, shared.ErrInvariant) {
			return fmt.Errorf("%w: transaction %d is not reconciled", shared.ErrInvariant, transactionID)
		}
		return err
	}
	return nil
}

// Void reverses the balance effect and voids the linked journal entry as
// one unit. The transaction row, like the journal entry, stays readable
// for audit. Terminal: there is no un-void.
func (s *Service) Void(ctx context.Context, transactionID int64, actorID int64, reason string) error {
	if reason == "" {
		return fmt.Errorf("%w: void reason required", shared.ErrValidation)
	}
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		txn, err := tx.GetTransactionForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if txn.Status == StatusVoid {
			return fmt.Errorf("%w: transaction %d already voided", shared.ErrInvariant, transactionID)
		}
		if err := tx.MarkTransactionVoid(ctx, transactionID); err != nil {
			return err
		}
		if _, err := tx.AdjustBalance(ctx, txn.BankAccountID, -txn.BalanceDelta()); err != nil {
			return err
		}
		if txn.JournalEntryID != nil {
			if err := tx.VoidJournalEntry(ctx, *txn.JournalEntryID, actorID, reason); err != nil {
				return err
			}
		}
		return nil
	})
}

// RebuildBalance recomputes the cached balance from the transaction log:
// initial balance plus the signed sum of every non-void transaction. Drift
// means something bypassed the transactional update path.
func (s *Service) RebuildBalance(ctx context.Context, bankAccountID int64) (RebuildResult, error) {
	account, err := s.repo.GetBankAccount(ctx, bankAccountID)
	if err != nil {
		return RebuildResult{}, err
	}
	var result RebuildResult
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		sum, err := tx.SumActiveTransactions(ctx, bankAccountID)
		if err != nil {
			return err
		}
		rebuilt := account.InitialBalance + sum
		result = RebuildResult{
			BankAccountID:   bankAccountID,
			PreviousBalance: account.CurrentBalance,
			RebuiltBalance:  rebuilt,
			Drift:           rebuilt - account.CurrentBalance,
		}
		if result.Drift == 0 {
			return nil
		}
		return tx.SetBalance(ctx, bankAccountID, rebuilt)
	})
	if err != nil {
		return RebuildResult{}, err
	}
	if result.Drift != 0 && s.logger != nil {
		s.logger.Warn("bank balance drift corrected",
			slog.Int64("bank_account_id", bankAccountID),
			slog.Int64("drift", result.Drift))
	}
	return result, nil
}

func journalDescription(in RecordInput, account BankAccount) string {
	if in.Description != "" {
		return in.Description
	}
	return fmt.Sprintf("%s %s", in.Type, account.Name)
}
