package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads revenue aggregates from the ledger.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RevenueBetween sums posted revenue lines in [from, to]. Revenue grows
// on the credit side, so the net is credit minus debit.
func (r *Repository) RevenueBetween(ctx context.Context, from, to time.Time) (int64, error) {
	const query = `
		SELECT COALESCE(SUM(jl.credit - jl.debit), 0)
		FROM journal_lines jl
		JOIN journal_entries je ON je.id = jl.je_id
		JOIN accounts a ON a.id = jl.account_id
		WHERE je.status = 'POSTED'
		  AND a.type = 'REVENUE'
		  AND je.date >= $1 AND je.date <= $2`

	var total int64
	err := r.pool.QueryRow(ctx, query, from, to).Scan(&total)
	return total, err
}
