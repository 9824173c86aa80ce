package ap

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/satwa-erp/satwa-erp/internal/shared"
)

// Repository reads purchase bills and suppliers for the payables engine.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const billColumns = `b.id, b.number, b.supplier_id, s.name,
	b.document_date, b.due_date, b.total_amount, b.paid_amount, b.paid_at`

func scanBill(row pgx.Row) (OpenBill, error) {
	var bill OpenBill
	var due, paidAt *time.Time
	if err := row.Scan(&bill.ID, &bill.Number, &bill.SupplierID, &bill.SupplierName,
		&bill.DocumentDate, &due, &bill.TotalAmount, &bill.PaidAmount, &paidAt); err != nil {
		return OpenBill{}, err
	}
	bill.DueDate = due
	bill.PaidAt = paidAt
	return bill, nil
}

// ListOpenBills returns posted bills that still carry a balance, across
// all suppliers.
func (r *Repository) ListOpenBills(ctx context.Context) ([]OpenBill, error) {
	const query = `
		SELECT ` + billColumns + `
		FROM purchase_bills b
		JOIN suppliers s ON s.id = b.supplier_id
		WHERE b.status = 'POSTED' AND b.total_amount > b.paid_amount
		ORDER BY b.document_date, b.id`
	return r.queryBills(ctx, query)
}

// ListSupplierBills returns one supplier's posted bills. When
// includeSettled is false only bills with a balance are returned.
func (r *Repository) ListSupplierBills(ctx context.Context, supplierID int64, includeSettled bool) ([]OpenBill, error) {
	query := `
		SELECT ` + billColumns + `
		FROM purchase_bills b
		JOIN suppliers s ON s.id = b.supplier_id
		WHERE b.status = 'POSTED' AND b.supplier_id = $1`
	if !includeSettled {
		query += ` AND b.total_amount > b.paid_amount`
	}
	query += ` ORDER BY b.document_date, b.id`
	return r.queryBills(ctx, query, supplierID)
}

// GetSupplierName resolves a supplier's display name.
func (r *Repository) GetSupplierName(ctx context.Context, supplierID int64) (string, error) {
	var name string
	err := r.pool.QueryRow(ctx, `SELECT name FROM suppliers WHERE id = $1`, supplierID).Scan(&name)
	if err == pgx.ErrNoRows {
		return "", shared.ErrNotFound
	}
	return name, err
}

func (r *Repository) queryBills(ctx context.Context, query string, args ...any) ([]OpenBill, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OpenBill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, bill)
	}
	return out, rows.Err()
}
