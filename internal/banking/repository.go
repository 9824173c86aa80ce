package banking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/satwa-erp/satwa-erp/internal/shared"
)

// Repository encapsulates DB operations for bank accounts and transactions.
type Repository interface {
	CreateBankAccount(ctx context.Context, in CreateBankAccountInput) (BankAccount, error)
	GetBankAccount(ctx context.Context, id int64) (BankAccount, error)
	ListBankAccounts(ctx context.Context) ([]BankAccount, error)
	GetTransaction(ctx context.Context, id int64) (BankTransaction, error)
	ListTransactions(ctx context.Context, bankAccountID int64) ([]BankTransaction, error)
	// UpdateReconciliation flips status only when the current value matches
	// `from`; a zero-row update means the transaction was already in the
	// target state (or voided) and surfaces as ErrInvariant upstream.
	UpdateReconciliation(ctx context.Context, id int64, from, to ReconciliationStatus) error
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the mutations that must land atomically: transaction
// insert plus balance cache update, and the void path across both the bank
// transaction and its linked journal entry.
type TxRepository interface {
	InsertTransaction(ctx context.Context, in RecordInput, journalEntryID *int64) (BankTransaction, error)
	AdjustBalance(ctx context.Context, bankAccountID int64, delta int64) (int64, error)
	GetTransactionForUpdate(ctx context.Context, id int64) (BankTransaction, error)
	MarkTransactionVoid(ctx context.Context, id int64) error
	VoidJournalEntry(ctx context.Context, journalEntryID int64, voidedBy int64, reason string) error
	SumActiveTransactions(ctx context.Context, bankAccountID int64) (int64, error)
	SetBalance(ctx context.Context, bankAccountID int64, balance int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const bankAccountColumns = `id, name, account_number, bank_name, linked_account_id, initial_balance, current_balance, is_active, created_at, updated_at`

func scanBankAccount(row pgx.Row) (BankAccount, error) {
	var b BankAccount
	err := row.Scan(&b.ID, &b.Name, &b.AccountNumber, &b.BankName, &b.LinkedAccountID,
		&b.InitialBalance, &b.CurrentBalance, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

const transactionColumns = `id, bank_account_id, date, type, amount, COALESCE(reference,''), COALESCE(description,''), status, journal_entry_id, created_at, updated_at`

func scanTransaction(row pgx.Row) (BankTransaction, error) {
	var t BankTransaction
	err := row.Scan(&t.ID, &t.BankAccountID, &t.Date, &t.Type, &t.Amount, &t.Reference,
		&t.Description, &t.Status, &t.JournalEntryID, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *repository) CreateBankAccount(ctx context.Context, in CreateBankAccountInput) (BankAccount, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO bank_accounts (name, account_number, bank_name, linked_account_id, initial_balance, current_balance, is_active)
VALUES ($1,$2,$3,$4,$5,$5,TRUE)
RETURNING `+bankAccountColumns,
		in.Name, in.AccountNumber, in.BankName, in.LinkedAccountID, in.InitialBalance)
	b, err := scanBankAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return BankAccount{}, fmt.Errorf("%w: ledger account already linked to another bank account", shared.ErrDuplicate)
		}
		return BankAccount{}, err
	}
	return b, nil
}

func (r *repository) GetBankAccount(ctx context.Context, id int64) (BankAccount, error) {
	b, err := scanBankAccount(r.db.QueryRow(ctx, `SELECT `+bankAccountColumns+` FROM bank_accounts WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BankAccount{}, fmt.Errorf("%w: bank account %d", shared.ErrNotFound, id)
		}
		return BankAccount{}, err
	}
	return b, nil
}

func (r *repository) ListBankAccounts(ctx context.Context) ([]BankAccount, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bankAccountColumns+` FROM bank_accounts ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BankAccount
	for rows.Next() {
		b, err := scanBankAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repository) GetTransaction(ctx context.Context, id int64) (BankTransaction, error) {
	t, err := scanTransaction(r.db.QueryRow(ctx, `SELECT `+transactionColumns+` FROM bank_transactions WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BankTransaction{}, fmt.Errorf("%w: bank transaction %d", shared.ErrNotFound, id)
		}
		return BankTransaction{}, err
	}
	return t, nil
}

func (r *repository) ListTransactions(ctx context.Context, bankAccountID int64) ([]BankTransaction, error) {
	rows, err := r.db.Query(ctx, `SELECT `+transactionColumns+` FROM bank_transactions WHERE bank_account_id=$1 ORDER BY date DESC, id DESC`, bankAccountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BankTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *repository) UpdateReconciliation(ctx context.Context, id int64, from, to ReconciliationStatus) error {
	cmd, err := r.db.Exec(ctx, `UPDATE bank_transactions SET status=$3, updated_at=NOW() WHERE id=$1 AND status=$2`, id, from, to)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrInvariant
	}
	return nil
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	wrapper := &txRepository{tx: tx}
	if err := fn(ctx, wrapper); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) InsertTransaction(ctx context.Context, in RecordInput, journalEntryID *int64) (BankTransaction, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO bank_transactions (bank_account_id, date, type, amount, reference, description, status, journal_entry_id)
VALUES ($1,$2,$3,$4,$5,$6,'UNRECONCILED',$7)
RETURNING `+transactionColumns,
		in.BankAccountID, in.Date, in.Type, in.Amount, in.Reference, in.Description, journalEntryID)
	return scanTransaction(row)
}

func (r *txRepository) AdjustBalance(ctx context.Context, bankAccountID int64, delta int64) (int64, error) {
	var balance int64
	err := r.tx.QueryRow(ctx, `UPDATE bank_accounts SET current_balance = current_balance + $2, updated_at=NOW()
WHERE id=$1 RETURNING current_balance`, bankAccountID, delta).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: bank account %d", shared.ErrNotFound, bankAccountID)
		}
		return 0, err
	}
	return balance, nil
}

func (r *txRepository) GetTransactionForUpdate(ctx context.Context, id int64) (BankTransaction, error) {
	t, err := scanTransaction(r.tx.QueryRow(ctx, `SELECT `+transactionColumns+` FROM bank_transactions WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BankTransaction{}, fmt.Errorf("%w: bank transaction %d", shared.ErrNotFound, id)
		}
		return BankTransaction{}, err
	}
	return t, nil
}

func (r *txRepository) MarkTransactionVoid(ctx context.Context, id int64) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE bank_transactions SET status='VOID', updated_at=NOW() WHERE id=$1 AND status <> 'VOID'`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrInvariant
	}
	return nil
}

func (r *txRepository) VoidJournalEntry(ctx context.Context, journalEntryID int64, voidedBy int64, reason string) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE journal_entries SET status='VOID', voided_by=$2, void_reason=$3, voided_at=NOW(), updated_at=NOW()
WHERE id=$1 AND status='POSTED'`, journalEntryID, voidedBy, reason)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrInvariant
	}
	return nil
}

func (r *txRepository) SumActiveTransactions(ctx context.Context, bankAccountID int64) (int64, error) {
	var sum int64
	err := r.tx.QueryRow(ctx, `SELECT COALESCE(SUM(
CASE WHEN type IN ('DEPOSIT','TRANSFER_IN','INTEREST') THEN amount ELSE -amount END
),0) FROM bank_transactions WHERE bank_account_id=$1 AND status <> 'VOID'`, bankAccountID).Scan(&sum)
	return sum, err
}

func (r *txRepository) SetBalance(ctx context.Context, bankAccountID int64, balance int64) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE bank_accounts SET current_balance=$2, updated_at=NOW() WHERE id=$1`, bankAccountID, balance)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: bank account %d", shared.ErrNotFound, bankAccountID)
	}
	return nil
}
