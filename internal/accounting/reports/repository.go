package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/satwa-erp/satwa-erp/internal/accounting/accounts"
	"github.com/satwa-erp/satwa-erp/internal/accounting/shared"
)

// Repository reads posted journal data for report aggregation. Every query
// filters on status='POSTED', so draft and voided entries are invisible to
// reports with no exceptions.
type Repository interface {
	AccountActivity(ctx context.Context, from, to time.Time) ([]AccountActivity, error)
	GetAccount(ctx context.Context, accountID int64) (accounts.Account, error)
	OpeningSums(ctx context.Context, accountID int64, before time.Time) (debit, credit int64, err error)
	LedgerLines(ctx context.Context, accountID int64, from, to time.Time) ([]LedgerLine, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) AccountActivity(ctx context.Context, from, to time.Time) ([]AccountActivity, error) {
	query := `SELECT a.id, a.code, a.name, a.type, a.normal_balance, a.category,
COALESCE(SUM(jl.debit),0), COALESCE(SUM(jl.credit),0)
FROM journal_lines jl
JOIN journal_entries je ON je.id = jl.je_id
JOIN accounts a ON a.id = jl.account_id
WHERE je.status = 'POSTED'`
	args := []any{}
	if !from.IsZero() {
		args = append(args, from)
		query += fmt.Sprintf(" AND je.date >= $%d", len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		query += fmt.Sprintf(" AND je.date <= $%d", len(args))
	}
	query += ` GROUP BY a.id, a.code, a.name, a.type, a.normal_balance, a.category ORDER BY a.code`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AccountActivity
	for rows.Next() {
		var a AccountActivity
		if err := rows.Scan(&a.AccountID, &a.Code, &a.Name, &a.Type, &a.NormalBalance, &a.Category, &a.Debit, &a.Credit); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repository) GetAccount(ctx context.Context, accountID int64) (accounts.Account, error) {
	var a accounts.Account
	err := r.db.QueryRow(ctx, `SELECT id, code, name, type, normal_balance, category, is_header, is_active
FROM accounts WHERE id=$1`, accountID).
		Scan(&a.ID, &a.Code, &a.Name, &a.Type, &a.NormalBalance, &a.Category, &a.IsHeader, &a.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return accounts.Account{}, shared.ErrAccountNotFound
		}
		return accounts.Account{}, err
	}
	return a, nil
}

func (r *repository) OpeningSums(ctx context.Context, accountID int64, before time.Time) (int64, int64, error) {
	var debit, credit int64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(jl.debit),0), COALESCE(SUM(jl.credit),0)
FROM journal_lines jl
JOIN journal_entries je ON je.id = jl.je_id
WHERE jl.account_id=$1 AND je.status='POSTED' AND je.date < $2`, accountID, before).
		Scan(&debit, &credit)
	return debit, credit, err
}

func (r *repository) LedgerLines(ctx context.Context, accountID int64, from, to time.Time) ([]LedgerLine, error) {
	rows, err := r.db.Query(ctx, `SELECT je.date, je.number, COALESCE(NULLIF(jl.description,''), je.description), jl.debit, jl.credit
FROM journal_lines jl
JOIN journal_entries je ON je.id = jl.je_id
WHERE jl.account_id=$1 AND je.status='POSTED' AND je.date >= $2 AND je.date <= $3
ORDER BY je.date ASC, je.number ASC, jl.sort_order ASC`, accountID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LedgerLine
	for rows.Next() {
		var line LedgerLine
		if err := rows.Scan(&line.Date, &line.JournalNumber, &line.Description, &line.Debit, &line.Credit); err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, rows.Err()
}
