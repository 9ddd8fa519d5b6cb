package database

import (
	"context"
	"database/sql"

	"github.com/jpereira88/pipecrm/internal/entity"
)

type CustomerRepository struct {
	DB *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

const customerColumns = `
	c.id, c.name, COALESCE(c.industry, ''), COALESCE(c.email, ''), c.owner_id,
	COALESCE(c.address, ''), COALESCE(c.city, ''), COALESCE(c.country, ''),
	COALESCE(c.website, ''), COALESCE(c.notes, '')
`

func scanCustomer(row interface{ Scan(...any) error }, withOwnerName bool) (*entity.Customer, error) {
	var c entity.Customer
	dest := []any{
		&c.ID, &c.Name, &c.Industry, &c.Email, &c.OwnerID,
		&c.Address, &c.City, &c.Country, &c.Website, &c.Notes,
	}
	if withOwnerName {
		dest = append(dest, &c.OwnerName)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) List(ctx context.Context, ownerID *int64) ([]entity.Customer, error) {
	query := `SELECT ` + customerColumns + `, COALESCE(u.name, '')
		FROM customers c LEFT JOIN users u ON c.owner_id = u.id`
	var args []any
	if ownerID != nil {
		query += ` WHERE c.owner_id = $1`
		args = append(args, *ownerID)
	}
	query += ` ORDER BY c.name ASC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError("list customers", err)
	}
	defer rows.Close()

	customers := []entity.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows, true)
		if err != nil {
			return nil, wrapDBError("scan customer", err)
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

// Details assembles the customer plus its contacts, deals and attachments for
// the detail page.
func (r *CustomerRepository) Details(ctx context.Context, id int64) (*entity.CustomerDetails, error) {
	c, err := scanCustomer(r.DB.QueryRowContext(ctx,
		`SELECT `+customerColumns+` FROM customers c WHERE c.id = $1`, id), false)
	if err != nil {
		return nil, notFoundOr("Customer not found", err)
	}

	details := &entity.CustomerDetails{
		Customer:    *c,
		Contacts:    []entity.Contact{},
		Deals:       []entity.Deal{},
		Attachments: []entity.Attachment{},
	}

	contactRows, err := r.DB.QueryContext(ctx,
		`SELECT id, customer_id, name, COALESCE(email, ''), COALESCE(phone, '')
		 FROM contacts WHERE customer_id = $1`, id)
	if err != nil {
		return nil, wrapDBError("list contacts", err)
	}
	defer contactRows.Close()
	for contactRows.Next() {
		var ct entity.Contact
		if err := contactRows.Scan(&ct.ID, &ct.CustomerID, &ct.Name, &ct.Email, &ct.Phone); err != nil {
			return nil, wrapDBError("scan contact", err)
		}
		details.Contacts = append(details.Contacts, ct)
	}

	dealRows, err := r.DB.QueryContext(ctx,
		`SELECT d.id, d.name, d.value, d.close_date, d.customer_id, d.owner_id, d.stage_id,
		        COALESCE(ds.name, '')
		 FROM deals d LEFT JOIN deal_stages ds ON d.stage_id = ds.id
		 WHERE d.customer_id = $1
		 ORDER BY d.close_date DESC`, id)
	if err != nil {
		return nil, wrapDBError("list customer deals", err)
	}
	defer dealRows.Close()
	for dealRows.Next() {
		var d entity.Deal
		if err := dealRows.Scan(&d.ID, &d.Name, &d.Value, &d.CloseDate,
			&d.CustomerID, &d.OwnerID, &d.StageID, &d.StageName); err != nil {
			return nil, wrapDBError("scan customer deal", err)
		}
		details.Deals = append(details.Deals, d)
	}

	attRows, err := r.DB.QueryContext(ctx,
		`SELECT id, file_name, file_url, uploaded_at
		 FROM customer_attachments WHERE customer_id = $1 ORDER BY uploaded_at DESC`, id)
	if err != nil {
		return nil, wrapDBError("list customer attachments", err)
	}
	defer attRows.Close()
	for attRows.Next() {
		var a entity.Attachment
		if err := attRows.Scan(&a.ID, &a.FileName, &a.FileURL, &a.UploadedAt); err != nil {
			return nil, wrapDBError("scan customer attachment", err)
		}
		details.Attachments = append(details.Attachments, a)
	}

	return details, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *entity.Customer) error {
	query := `
		INSERT INTO customers (name, industry, owner_id, address, city, country, website, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		c.Name,
		nullString(c.Industry),
		c.OwnerID,
		nullString(c.Address),
		nullString(c.City),
		nullString(c.Country),
		nullString(c.Website),
		nullString(c.Notes),
	).Scan(&c.ID)
	if err != nil {
		return wrapDBError("insert customer", err)
	}
	return nil
}

func (r *CustomerRepository) OwnerID(ctx context.Context, id int64) (int64, error) {
	var ownerID int64
	err := r.DB.QueryRowContext(ctx, `SELECT owner_id FROM customers WHERE id = $1`, id).Scan(&ownerID)
	if err != nil {
		return 0, notFoundOr("Customer not found", err)
	}
	return ownerID, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *entity.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, industry = $2, address = $3, city = $4, country = $5,
		    website = $6, notes = $7
		WHERE id = $8
		RETURNING owner_id
	`
	err := r.DB.QueryRowContext(ctx, query,
		c.Name,
		nullString(c.Industry),
		nullString(c.Address),
		nullString(c.City),
		nullString(c.Country),
		nullString(c.Website),
		nullString(c.Notes),
		c.ID,
	).Scan(&c.OwnerID)
	if err != nil {
		return notFoundOr("Customer not found", err)
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id); err != nil {
		return wrapDBError("delete customer", err)
	}
	return nil
}

// NamesByOwner returns id/name pairs for the task form dropdown.
func (r *CustomerRepository) NamesByOwner(ctx context.Context, ownerID int64) ([]entity.Customer, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name FROM customers WHERE owner_id = $1 ORDER BY name`, ownerID)
	if err != nil {
		return nil, wrapDBError("list customer names", err)
	}
	defer rows.Close()

	out := []entity.Customer{}
	for rows.Next() {
		var c entity.Customer
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, wrapDBError("scan customer name", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
