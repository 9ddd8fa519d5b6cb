package database

import (
	"context"
	"database/sql"

	"github.com/jpereira88/pipecrm/internal/entity"
)

// QuoteRepository only reads; quote creation goes through the transactional
// store because it writes three tables.
type QuoteRepository struct {
	DB *sql.DB
}

func NewQuoteRepository(db *sql.DB) *QuoteRepository {
	return &QuoteRepository{DB: db}
}

func (r *QuoteRepository) List(ctx context.Context) ([]entity.Quote, error) {
	query := `
		SELECT q.id, q.deal_id, q.customer_id, q.status, q.subtotal, q.tax, q.total, q.created_at,
		       COALESCE(d.name, ''), COALESCE(c.name, '')
		FROM quotes q
		LEFT JOIN deals d ON q.deal_id = d.id
		LEFT JOIN customers c ON q.customer_id = c.id
		ORDER BY q.created_at DESC
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapDBError("list quotes", err)
	}
	defer rows.Close()

	quotes := []entity.Quote{}
	for rows.Next() {
		var q entity.Quote
		if err := rows.Scan(&q.ID, &q.DealID, &q.CustomerID, &q.Status,
			&q.Subtotal, &q.Tax, &q.Total, &q.CreatedAt,
			&q.DealName, &q.CustomerName); err != nil {
			return nil, wrapDBError("scan quote", err)
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}
