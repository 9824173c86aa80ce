package ar

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads sales invoices for the aging engine. The rows live in
// the sales schema; this query surface is intentionally read-only.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListOpenInvoices returns posted invoices whose paid amount has not
// covered the total. Voided and draft invoices never age.
func (r *Repository) ListOpenInvoices(ctx context.Context) ([]OpenInvoice, error) {
	const query = `
		SELECT i.id, i.number, i.customer_id, c.name,
		       i.document_date, i.due_date, i.total_amount, i.paid_amount
		FROM sales_invoices i
		JOIN customers c ON c.id = i.customer_id
		WHERE i.status = 'POSTED' AND i.total_amount > i.paid_amount
		ORDER BY i.document_date, i.id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OpenInvoice
	for rows.Next() {
		var inv OpenInvoice
		var due *time.Time
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.CustomerID, &inv.CustomerName,
			&inv.DocumentDate, &due, &inv.TotalAmount, &inv.PaidAmount); err != nil {
			return nil, err
		}
		inv.DueDate = due
		out = append(out, inv)
	}
	return out, rows.Err()
}
