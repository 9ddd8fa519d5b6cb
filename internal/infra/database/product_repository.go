package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jpereira88/pipecrm/internal/entity"
)

type ProductRepository struct {
	DB *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{DB: db}
}

// ProductFilter is the catalog list query: optional category and name/sku
// search, whitelisted sorting, limit/offset paging.
type ProductFilter struct {
	Category  string
	Search    string
	SortBy    string
	Direction string
	Page      int
	Limit     int
}

var productSortColumns = map[string]bool{
	"sku":      true,
	"name":     true,
	"category": true,
	"price":    true,
	"status":   true,
}

const productColumns = `id, name, sku, COALESCE(category, ''), price, status, COALESCE(description, '')`

func scanProduct(row interface{ Scan(...any) error }) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Category, &p.Price, &p.Status, &p.Description)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context, f ProductFilter) ([]entity.Product, int, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR sku ILIKE $%d)", len(args), len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`+cond, args...).Scan(&total); err != nil {
		return nil, 0, wrapDBError("count products", err)
	}

	query := `SELECT ` + productColumns + ` FROM products` + cond

	// Sort column comes from a whitelist, never straight from the query
	// string.
	if productSortColumns[f.SortBy] {
		dir := "ASC"
		if f.Direction == "desc" {
			dir = "DESC"
		}
		query += fmt.Sprintf(" ORDER BY %s %s", f.SortBy, dir)
	} else {
		query += " ORDER BY name ASC"
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 10
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapDBError("list products", err)
	}
	defer rows.Close()

	products := []entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, wrapDBError("scan product", err)
		}
		products = append(products, *p)
	}
	return products, total, rows.Err()
}

func (r *ProductRepository) Details(ctx context.Context, id int64) (*entity.ProductDetails, error) {
	p, err := scanProduct(r.DB.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr("Product not found", err)
	}

	details := &entity.ProductDetails{Product: *p, Attachments: []entity.Attachment{}}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, file_name, file_url, uploaded_at FROM product_attachments WHERE product_id = $1`, id)
	if err != nil {
		return nil, wrapDBError("list product attachments", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a entity.Attachment
		if err := rows.Scan(&a.ID, &a.FileName, &a.FileURL, &a.UploadedAt); err != nil {
			return nil, wrapDBError("scan product attachment", err)
		}
		details.Attachments = append(details.Attachments, a)
	}
	return details, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (name, sku, category, price, status, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		p.Name, p.SKU, nullString(p.Category), p.Price, p.Status, nullString(p.Description),
	).Scan(&p.ID)
	if err != nil {
		return wrapDBError("insert product", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products
		SET name = $1, sku = $2, category = $3, price = $4, status = $5, description = $6
		WHERE id = $7
		RETURNING id
	`
	var id int64
	err := r.DB.QueryRowContext(ctx, query,
		p.Name, p.SKU, nullString(p.Category), p.Price, p.Status, nullString(p.Description), p.ID,
	).Scan(&id)
	if err != nil {
		return notFoundOr("Product not found", err)
	}
	return nil
}

// Delete removes the product and its attachments.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM product_attachments WHERE product_id = $1`, id); err != nil {
		return wrapDBError("delete product attachments", err)
	}
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return wrapDBError("delete product", err)
	}
	return nil
}

func (r *ProductRepository) AddAttachment(ctx context.Context, productID int64, a *entity.Attachment) error {
	query := `
		INSERT INTO product_attachments (product_id, file_name, file_url)
		VALUES ($1, $2, $3)
		RETURNING id, uploaded_at
	`
	err := r.DB.QueryRowContext(ctx, query, productID, a.FileName, a.FileURL).
		Scan(&a.ID, &a.UploadedAt)
	if err != nil {
		return wrapDBError("insert product attachment", err)
	}
	return nil
}

func (r *ProductRepository) DeleteAttachment(ctx context.Context, attachmentID int64) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM product_attachments WHERE id = $1`, attachmentID); err != nil {
		return wrapDBError("delete product attachment", err)
	}
	return nil
}
