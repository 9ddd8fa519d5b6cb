package database

import (
	"context"
	"database/sql"

	"github.com/jpereira88/pipecrm/internal/entity"
	"github.com/jpereira88/pipecrm/internal/usecase"
)

// Store runs multi-statement units of work. One transactional connection is
// acquired per call and released unconditionally, success or failure.
type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx usecase.Tx) error) error {
	sqlTx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return wrapDBError("begin transaction", err)
	}
	// Rollback after a successful commit is a no-op; this keeps the release
	// path single and unconditional.
	defer sqlTx.Rollback()

	if err := fn(&storeTx{tx: sqlTx}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return wrapDBError("commit transaction", err)
	}
	return nil
}

type storeTx struct {
	tx *sql.Tx
}

func (t *storeTx) LeadForUpdate(ctx context.Context, id int64) (*entity.Lead, error) {
	query := `
		SELECT id, name, company, COALESCE(email, ''), COALESCE(phone, ''),
		       status, COALESCE(source, ''), COALESCE(score, 0), owner_id,
		       COALESCE(description, ''), converted_customer_id, created_at
		FROM leads
		WHERE id = $1
		FOR UPDATE
	`

	var lead entity.Lead
	err := t.tx.QueryRowContext(ctx, query, id).Scan(
		&lead.ID,
		&lead.Name,
		&lead.Company,
		&lead.Email,
		&lead.Phone,
		&lead.Status,
		&lead.Source,
		&lead.Score,
		&lead.OwnerID,
		&lead.Description,
		&lead.ConvertedCustomerID,
		&lead.CreatedAt,
	)
	if err != nil {
		return nil, notFoundOr("Lead not found", err)
	}
	return &lead, nil
}

func (t *storeTx) FindCustomerIDByNameOrEmail(ctx context.Context, name, email string) (int64, bool, error) {
	query := `SELECT id FROM customers WHERE name = $1`
	args := []any{name}
	if email != "" {
		query += ` OR email = $2`
		args = append(args, email)
	}
	query += ` LIMIT 1`

	var id int64
	err := t.tx.QueryRowContext(ctx, query, args...).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, wrapDBError("search customers", err)
	}
	return id, true, nil
}

func (t *storeTx) InsertCustomer(ctx context.Context, c *entity.Customer) (int64, error) {
	query := `
		INSERT INTO customers (name, email, industry, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := t.tx.QueryRowContext(ctx, query,
		c.Name,
		nullString(c.Email),
		c.Industry,
		c.OwnerID,
	).Scan(&id)
	if err != nil {
		return 0, wrapDBError("insert customer", err)
	}
	return id, nil
}

func (t *storeTx) InsertContact(ctx context.Context, c *entity.Contact) (int64, error) {
	query := `
		INSERT INTO contacts (customer_id, name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := t.tx.QueryRowContext(ctx, query,
		c.CustomerID,
		c.Name,
		nullString(c.Email),
		nullString(c.Phone),
	).Scan(&id)
	if err != nil {
		return 0, wrapDBError("insert contact", err)
	}
	return id, nil
}

func (t *storeTx) StageIDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := t.tx.QueryRowContext(ctx, `SELECT id FROM deal_stages WHERE name = $1`, name).Scan(&id)
	if err != nil {
		return 0, notFoundOr("Deal stage not found", err)
	}
	return id, nil
}

func (t *storeTx) InsertDeal(ctx context.Context, d *entity.Deal) (int64, error) {
	query := `
		INSERT INTO deals (name, value, close_date, customer_id, owner_id, stage_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := t.tx.QueryRowContext(ctx, query,
		d.Name,
		d.Value,
		d.CloseDate,
		d.CustomerID,
		d.OwnerID,
		d.StageID,
	).Scan(&id)
	if err != nil {
		return 0, wrapDBError("insert deal", err)
	}
	return id, nil
}

func (t *storeTx) MarkLeadConverted(ctx context.Context, leadID, customerID int64) error {
	query := `UPDATE leads SET status = $1, converted_customer_id = $2 WHERE id = $3`
	if _, err := t.tx.ExecContext(ctx, query, entity.LeadStatusConverted, customerID, leadID); err != nil {
		return wrapDBError("mark lead converted", err)
	}
	return nil
}

func (t *storeTx) DealNameByID(ctx context.Context, id int64) (string, error) {
	var name string
	err := t.tx.QueryRowContext(ctx, `SELECT name FROM deals WHERE id = $1`, id).Scan(&name)
	if err != nil {
		return "", notFoundOr("Deal not found", err)
	}
	return name, nil
}

func (t *storeTx) InsertQuote(ctx context.Context, q *entity.Quote) error {
	query := `
		INSERT INTO quotes (id, deal_id, customer_id, status, subtotal, tax, total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := t.tx.ExecContext(ctx, query,
		q.ID,
		q.DealID,
		q.CustomerID,
		q.Status,
		q.Subtotal,
		q.Tax,
		q.Total,
		q.CreatedAt,
	)
	if err != nil {
		return wrapDBError("insert quote", err)
	}
	return nil
}

func (t *storeTx) InsertQuoteLineItem(ctx context.Context, item *entity.QuoteLineItem) error {
	query := `
		INSERT INTO quote_line_items (quote_id, product_id, quantity, price_at_time)
		VALUES ($1, $2, $3, $4)
	`
	_, err := t.tx.ExecContext(ctx, query, item.QuoteID, item.ProductID, item.Quantity, item.PriceAtTime)
	if err != nil {
		return wrapDBError("insert quote line item", err)
	}
	return nil
}

func (t *storeTx) InsertTask(ctx context.Context, task *entity.Task) (int64, error) {
	query := `
		INSERT INTO tasks (title, due_date, priority, status, assignee_id, deal_id, customer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := t.tx.QueryRowContext(ctx, query,
		task.Title,
		task.DueDate,
		task.Priority,
		task.Status,
		task.AssigneeID,
		task.DealID,
		task.CustomerID,
	).Scan(&id)
	if err != nil {
		return 0, wrapDBError("insert task", err)
	}
	return id, nil
}
