package journals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/satwa-erp/satwa-erp/internal/accounting/accounts"
	"github.com/satwa-erp/satwa-erp/internal/accounting/shared"
	internalShared "github.com/satwa-erp/satwa-erp/internal/shared"
)

// Repository encapsulates DB operations for journals.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]JournalEntry, error)
	Get(ctx context.Context, entryID int64) (JournalEntry, []JournalLine, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// ListFilter narrows journal listings.
type ListFilter struct {
	SourceType SourceType
	Status     JournalStatus
	From       time.Time
	To         time.Time
}

// TxRepository exposes methods available within a posting transaction.
type TxRepository interface {
	// NextJournalNumber atomically increments the journal counter row. The
	// row lock serializes concurrent postings so numbers stay unique and
	// gap-free; serialization failures surface as ErrConcurrencyConflict.
	NextJournalNumber(ctx context.Context) (int64, error)
	GetAccountForPosting(ctx context.Context, accountID int64) (accounts.Account, error)
	InsertJournalEntry(ctx context.Context, number int64, in PostingInput, totalDebit, totalCredit int64) (JournalEntry, error)
	InsertJournalLines(ctx context.Context, entryID int64, lines []PostingLineInput) error
	GetJournalWithLines(ctx context.Context, entryID int64) (JournalEntry, []JournalLine, error)
	MarkVoided(ctx context.Context, entryID int64, voidedBy int64, reason string, at time.Time) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const entryColumns = `id, number, date, description, source_type, source_id, status, total_debit, total_credit, posted_by, posted_at, voided_by, voided_at, COALESCE(void_reason,''), created_at, updated_at`

func scanEntry(row pgx.Row) (JournalEntry, error) {
	var e JournalEntry
	err := row.Scan(&e.ID, &e.Number, &e.Date, &e.Description, &e.SourceType, &e.SourceID, &e.Status,
		&e.TotalDebit, &e.TotalCredit, &e.PostedBy, &e.PostedAt, &e.VoidedBy, &e.VoidedAt, &e.VoidReason,
		&e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE 1=1`
	args := []any{}
	if filter.SourceType != "" {
		args = append(args, filter.SourceType)
		query += fmt.Sprintf(" AND source_type=$%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status=$%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += ` ORDER BY number DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []JournalEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *repository) Get(ctx context.Context, entryID int64) (JournalEntry, []JournalLine, error) {
	return getJournalWithLines(ctx, r.db, entryID)
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	wrapper := &txRepository{tx: tx}
	if err := fn(ctx, wrapper); err != nil {
		_ = tx.Rollback(ctx)
		return translateConflict(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return translateConflict(err)
	}
	return nil
}

func translateConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01") {
		return fmt.Errorf("%w: %s", internalShared.ErrConcurrencyConflict, pgErr.Message)
	}
	return err
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) NextJournalNumber(ctx context.Context) (int64, error) {
	var number int64
	err := r.tx.QueryRow(ctx, `INSERT INTO counters (name, value) VALUES ('journal_number', 1)
ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
RETURNING value`).Scan(&number)
	if err != nil {
		return 0, err
	}
	return number, nil
}

func (r *txRepository) GetAccountForPosting(ctx context.Context, accountID int64) (accounts.Account, error) {
	var a accounts.Account
	err := r.tx.QueryRow(ctx, `SELECT id, code, name, type, normal_balance, is_header, is_active, deleted_at
FROM accounts WHERE id=$1`, accountID).
		Scan(&a.ID, &a.Code, &a.Name, &a.Type, &a.NormalBalance, &a.IsHeader, &a.IsActive, &a.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return accounts.Account{}, shared.ErrAccountNotFound
		}
		return accounts.Account{}, err
	}
	return a, nil
}

func (r *txRepository) InsertJournalEntry(ctx context.Context, number int64, in PostingInput, totalDebit, totalCredit int64) (JournalEntry, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO journal_entries (number, date, description, source_type, source_id, status, total_debit, total_credit, posted_by, posted_at)
VALUES ($1,$2,$3,$4,$5,'POSTED',$6,$7,$8,NOW())
RETURNING id, posted_at, created_at, updated_at`,
		number, in.Date, in.Description, in.SourceType, in.SourceID, totalDebit, totalCredit, in.PostedBy)
	entry := JournalEntry{
		Number:      number,
		Date:        in.Date,
		Description: in.Description,
		SourceType:  in.SourceType,
		SourceID:    in.SourceID,
		Status:      JournalStatusPosted,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		PostedBy:    in.PostedBy,
	}
	if err := row.Scan(&entry.ID, &entry.PostedAt, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
		return JournalEntry{}, err
	}
	return entry, nil
}

func (r *txRepository) InsertJournalLines(ctx context.Context, entryID int64, lines []PostingLineInput) error {
	for idx, line := range lines {
		if _, err := r.tx.Exec(ctx, `INSERT INTO journal_lines (je_id, account_id, branch_id, description, debit, credit, sort_order)
VALUES ($1,$2,$3,$4,$5,$6,$7)`, entryID, line.AccountID, line.BranchID, line.Description, line.Debit, line.Credit, idx); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) GetJournalWithLines(ctx context.Context, entryID int64) (JournalEntry, []JournalLine, error) {
	return getJournalWithLines(ctx, r.tx, entryID)
}

func (r *txRepository) MarkVoided(ctx context.Context, entryID int64, voidedBy int64, reason string, at time.Time) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE journal_entries SET status='VOID', voided_by=$2, void_reason=$3, voided_at=$4, updated_at=NOW()
WHERE id=$1`, entryID, voidedBy, reason, at)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrJournalNotFound
	}
	return nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getJournalWithLines(ctx context.Context, q querier, entryID int64) (JournalEntry, []JournalLine, error) {
	entry, err := scanEntry(q.QueryRow(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE id=$1`, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JournalEntry{}, nil, shared.ErrJournalNotFound
		}
		return JournalEntry{}, nil, err
	}
	rows, err := q.Query(ctx, `SELECT id, je_id, account_id, branch_id, COALESCE(description,''), debit, credit, sort_order, created_at
FROM journal_lines WHERE je_id=$1 ORDER BY sort_order ASC, id ASC`, entryID)
	if err != nil {
		return JournalEntry{}, nil, err
	}
	defer rows.Close()
	var lines []JournalLine
	for rows.Next() {
		var line JournalLine
		if err := rows.Scan(&line.ID, &line.JournalID, &line.AccountID, &line.BranchID, &line.Description,
			&line.Debit, &line.Credit, &line.SortOrder, &line.CreatedAt); err != nil {
			return JournalEntry{}, nil, err
		}
		lines = append(lines, line)
	}
	return entry, lines, rows.Err()
}
