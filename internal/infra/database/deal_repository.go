package database

import (
	"context"
	"database/sql"

	"github.com/jpereira88/pipecrm/internal/entity"
)

type DealRepository struct {
	DB *sql.DB
}

func NewDealRepository(db *sql.DB) *DealRepository {
	return &DealRepository{DB: db}
}

const dealColumns = `
	d.id, d.name, d.value, d.close_date, d.customer_id, d.owner_id, d.stage_id,
	COALESCE(ds.name, ''), COALESCE(c.name, ''), COALESCE(u.name, '')
`

const dealJoins = `
	FROM deals d
	LEFT JOIN deal_stages ds ON d.stage_id = ds.id
	LEFT JOIN customers c ON d.customer_id = c.id
	LEFT JOIN users u ON d.owner_id = u.id
`

func scanDeal(row interface{ Scan(...any) error }) (*entity.Deal, error) {
	var d entity.Deal
	err := row.Scan(
		&d.ID, &d.Name, &d.Value, &d.CloseDate,
		&d.CustomerID, &d.OwnerID, &d.StageID,
		&d.StageName, &d.CompanyName, &d.OwnerName,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListGroupedByStage returns the Kanban board payload: every visible deal
// bucketed under its stage name.
func (r *DealRepository) ListGroupedByStage(ctx context.Context, ownerID *int64) (map[string][]entity.Deal, error) {
	query := `SELECT ` + dealColumns + dealJoins
	var args []any
	if ownerID != nil {
		query += ` WHERE d.owner_id = $1`
		args = append(args, *ownerID)
	}
	query += ` ORDER BY d.close_date ASC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError("list deals", err)
	}
	defer rows.Close()

	grouped := map[string][]entity.Deal{}
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, wrapDBError("scan deal", err)
		}
		stage := d.StageName
		if stage == "" {
			stage = "unknown"
		}
		grouped[stage] = append(grouped[stage], *d)
	}
	return grouped, rows.Err()
}

func (r *DealRepository) Details(ctx context.Context, id int64) (*entity.DealDetails, error) {
	d, err := scanDeal(r.DB.QueryRowContext(ctx, `SELECT `+dealColumns+dealJoins+` WHERE d.id = $1`, id))
	if err != nil {
		return nil, notFoundOr("Deal not found", err)
	}

	details := &entity.DealDetails{
		Deal:        *d,
		Attachments: []entity.Attachment{},
		Products:    []entity.DealProduct{},
	}

	attRows, err := r.DB.QueryContext(ctx,
		`SELECT id, file_name, file_url, uploaded_at FROM deal_attachments WHERE deal_id = $1`, id)
	if err != nil {
		return nil, wrapDBError("list deal attachments", err)
	}
	defer attRows.Close()
	for attRows.Next() {
		var a entity.Attachment
		if err := attRows.Scan(&a.ID, &a.FileName, &a.FileURL, &a.UploadedAt); err != nil {
			return nil, wrapDBError("scan deal attachment", err)
		}
		details.Attachments = append(details.Attachments, a)
	}

	prodRows, err := r.DB.QueryContext(ctx,
		`SELECT p.id, p.name, p.sku, COALESCE(p.category, ''), p.price, p.status,
		        COALESCE(p.description, ''), dp.quantity
		 FROM products p
		 JOIN deal_products dp ON p.id = dp.product_id
		 WHERE dp.deal_id = $1`, id)
	if err != nil {
		return nil, wrapDBError("list deal products", err)
	}
	defer prodRows.Close()
	for prodRows.Next() {
		var dp entity.DealProduct
		if err := prodRows.Scan(&dp.ID, &dp.Name, &dp.SKU, &dp.Category,
			&dp.Price, &dp.Status, &dp.Description, &dp.Quantity); err != nil {
			return nil, wrapDBError("scan deal product", err)
		}
		details.Products = append(details.Products, dp)
	}

	return details, nil
}

// UpdateStage writes the new stage and returns the updated row with its
// joins. Setting the current stage again succeeds and returns the row
// unchanged.
func (r *DealRepository) UpdateStage(ctx context.Context, dealID, stageID int64) (*entity.Deal, error) {
	query := `
		WITH updated AS (
			UPDATE deals SET stage_id = $1 WHERE id = $2 RETURNING *
		)
		SELECT ` + dealColumns + `
		FROM updated d
		LEFT JOIN deal_stages ds ON d.stage_id = ds.id
		LEFT JOIN customers c ON d.customer_id = c.id
		LEFT JOIN users u ON d.owner_id = u.id
	`

	d, err := scanDeal(r.DB.QueryRowContext(ctx, query, stageID, dealID))
	if err != nil {
		return nil, notFoundOr("Deal not found", err)
	}
	return d, nil
}

func (r *DealRepository) LinkProduct(ctx context.Context, dealID, productID int64, quantity int) error {
	query := `INSERT INTO deal_products (deal_id, product_id, quantity) VALUES ($1, $2, $3)`
	if _, err := r.DB.ExecContext(ctx, query, dealID, productID, quantity); err != nil {
		return wrapDBError("link product to deal", err)
	}
	return nil
}

func (r *DealRepository) UpdateProductQuantity(ctx context.Context, dealID, productID int64, quantity int) error {
	query := `UPDATE deal_products SET quantity = $1 WHERE deal_id = $2 AND product_id = $3`
	if _, err := r.DB.ExecContext(ctx, query, quantity, dealID, productID); err != nil {
		return wrapDBError("update deal product quantity", err)
	}
	return nil
}

func (r *DealRepository) UnlinkProduct(ctx context.Context, dealID, productID int64) error {
	query := `DELETE FROM deal_products WHERE deal_id = $1 AND product_id = $2`
	if _, err := r.DB.ExecContext(ctx, query, dealID, productID); err != nil {
		return wrapDBError("unlink product from deal", err)
	}
	return nil
}

// NamesByOwner returns id/name pairs for the task form dropdown.
func (r *DealRepository) NamesByOwner(ctx context.Context, ownerID int64) ([]entity.Deal, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name FROM deals WHERE owner_id = $1 ORDER BY name`, ownerID)
	if err != nil {
		return nil, wrapDBError("list deal names", err)
	}
	defer rows.Close()

	out := []entity.Deal{}
	for rows.Next() {
		var d entity.Deal
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, wrapDBError("scan deal name", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
