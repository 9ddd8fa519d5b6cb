package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/jpereira88/pipecrm/internal/entity"
)

type ProductRequestRepository struct {
	DB *sql.DB
}

func NewProductRequestRepository(db *sql.DB) *ProductRequestRepository {
	return &ProductRequestRepository{DB: db}
}

func (r *ProductRequestRepository) List(ctx context.Context) ([]entity.ProductRequest, error) {
	query := `
		SELECT pr.id, pr.deal_id, pr.requested_product_name, COALESCE(pr.specs, ''),
		       pr.status, pr.request_date, pr.requested_by_id,
		       u.name, COALESCE(d.name, '')
		FROM product_requests pr
		JOIN users u ON pr.requested_by_id = u.id
		LEFT JOIN deals d ON pr.deal_id = d.id
		ORDER BY pr.request_date DESC
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapDBError("list product requests", err)
	}
	defer rows.Close()

	requests := []entity.ProductRequest{}
	for rows.Next() {
		var pr entity.ProductRequest
		if err := rows.Scan(&pr.ID, &pr.DealID, &pr.RequestedProductName, &pr.Specs,
			&pr.Status, &pr.RequestDate, &pr.RequestedByID,
			&pr.RequestedByName, &pr.DealName); err != nil {
			return nil, wrapDBError("scan product request", err)
		}
		requests = append(requests, pr)
	}
	return requests, rows.Err()
}

func (r *ProductRequestRepository) Details(ctx context.Context, id int64) (*entity.ProductRequestDetails, error) {
	var pr entity.ProductRequest
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, deal_id, requested_product_name, COALESCE(specs, ''),
		        status, request_date, requested_by_id
		 FROM product_requests WHERE id = $1`, id).
		Scan(&pr.ID, &pr.DealID, &pr.RequestedProductName, &pr.Specs,
			&pr.Status, &pr.RequestDate, &pr.RequestedByID)
	if err != nil {
		return nil, notFoundOr("Request not found", err)
	}

	details := &entity.ProductRequestDetails{ProductRequest: pr, Attachments: []entity.Attachment{}}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, file_name, file_url, uploaded_at
		 FROM product_request_attachments WHERE request_id = $1`, id)
	if err != nil {
		return nil, wrapDBError("list request attachments", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a entity.Attachment
		if err := rows.Scan(&a.ID, &a.FileName, &a.FileURL, &a.UploadedAt); err != nil {
			return nil, wrapDBError("scan request attachment", err)
		}
		details.Attachments = append(details.Attachments, a)
	}
	return details, nil
}

// CreateWithAttachments inserts the request and its attachment rows in one
// transaction; the files are already on disk when this runs.
func (r *ProductRequestRepository) CreateWithAttachments(ctx context.Context, pr *entity.ProductRequest, attachments []entity.Attachment) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return wrapDBError("begin transaction", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO product_requests (deal_id, requested_product_name, specs, status, request_date, requested_by_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		pr.DealID, pr.RequestedProductName, nullString(pr.Specs),
		entity.RequestStatusPending, time.Now(), pr.RequestedByID,
	).Scan(&pr.ID)
	if err != nil {
		return wrapDBError("insert product request", err)
	}
	pr.Status = entity.RequestStatusPending

	for _, a := range attachments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_request_attachments (request_id, file_name, file_url)
			 VALUES ($1, $2, $3)`,
			pr.ID, a.FileName, a.FileURL); err != nil {
			return wrapDBError("insert request attachment", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return wrapDBError("commit transaction", err)
	}
	return nil
}

func (r *ProductRequestRepository) MarkCompleted(ctx context.Context, id int64) (*entity.ProductRequest, error) {
	var pr entity.ProductRequest
	err := r.DB.QueryRowContext(ctx,
		`UPDATE product_requests SET status = $1 WHERE id = $2
		 RETURNING id, deal_id, requested_product_name, COALESCE(specs, ''),
		           status, request_date, requested_by_id`,
		entity.RequestStatusCompleted, id).
		Scan(&pr.ID, &pr.DealID, &pr.RequestedProductName, &pr.Specs,
			&pr.Status, &pr.RequestDate, &pr.RequestedByID)
	if err != nil {
		return nil, notFoundOr("Request not found", err)
	}
	return &pr, nil
}
