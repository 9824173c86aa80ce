package accounts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	acctshared "github.com/satwa-erp/satwa-erp/internal/accounting/shared"
	"github.com/satwa-erp/satwa-erp/internal/shared"
)

// Repository encapsulates DB operations for the chart of accounts.
type Repository interface {
	Insert(ctx context.Context, in CreateInput) (Account, error)
	Update(ctx context.Context, id int64, in UpdateInput) (Account, error)
	SoftDelete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (Account, error)
	GetByCode(ctx context.Context, code string) (Account, error)
	List(ctx context.Context) ([]Account, error)
	CountActiveChildren(ctx context.Context, id int64) (int, error)
	CountPostedLines(ctx context.Context, id int64) (int, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const accountColumns = `id, code, name, type, normal_balance, category, COALESCE(description,''), parent_id, is_header, level, is_active, deleted_at, created_at, updated_at`

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Code, &a.Name, &a.Type, &a.NormalBalance, &a.Category, &a.Description,
		&a.ParentID, &a.IsHeader, &a.Level, &a.IsActive, &a.DeletedAt, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *repository) Insert(ctx context.Context, in CreateInput) (Account, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO accounts (code, name, type, normal_balance, category, description, parent_id, is_header, level, is_active)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,TRUE)
RETURNING `+accountColumns,
		in.Code, in.Name, in.Type, in.NormalBalance, in.Category, in.Description, in.ParentID, in.IsHeader, in.Level)
	a, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Account{}, shared.ErrDuplicate
		}
		return Account{}, err
	}
	return a, nil
}

func (r *repository) Update(ctx context.Context, id int64, in UpdateInput) (Account, error) {
	row := r.db.QueryRow(ctx, `UPDATE accounts SET
name = COALESCE($2, name),
category = COALESCE($3, category),
description = COALESCE($4, description),
is_active = COALESCE($5, is_active),
updated_at = NOW()
WHERE id=$1 AND deleted_at IS NULL
RETURNING `+accountColumns,
		id, in.Name, in.Category, in.Description, in.IsActive)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, acctshared.ErrAccountNotFound
		}
		return Account{}, err
	}
	return a, nil
}

func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `UPDATE accounts SET deleted_at=NOW(), is_active=FALSE, updated_at=NOW() WHERE id=$1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return acctshared.ErrAccountNotFound
	}
	return nil
}

func (r *repository) Get(ctx context.Context, id int64) (Account, error) {
	a, err := scanAccount(r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id=$1 AND deleted_at IS NULL`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, acctshared.ErrAccountNotFound
		}
		return Account{}, err
	}
	return a, nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (Account, error) {
	a, err := scanAccount(r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE code=$1 AND deleted_at IS NULL`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, acctshared.ErrAccountNotFound
		}
		return Account{}, err
	}
	return a, nil
}

func (r *repository) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE deleted_at IS NULL ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var accounts []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *repository) CountActiveChildren(ctx context.Context, id int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE parent_id=$1 AND deleted_at IS NULL`, id).Scan(&n)
	return n, err
}

func (r *repository) CountPostedLines(ctx context.Context, id int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM journal_lines jl
JOIN journal_entries je ON je.id = jl.je_id
WHERE jl.account_id=$1 AND je.status='POSTED'`, id).Scan(&n)
	return n, err
}
