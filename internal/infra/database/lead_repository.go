package database

import (
	"context"
	"database/sql"

	"github.com/jpereira88/pipecrm/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `
	l.id, l.name, l.company, COALESCE(l.email, ''), COALESCE(l.phone, ''),
	l.status, COALESCE(l.source, ''), COALESCE(l.score, 0), l.owner_id,
	COALESCE(l.description, ''), l.converted_customer_id, l.created_at,
	COALESCE(u.name, '')
`

func scanLead(row interface{ Scan(...any) error }) (*entity.Lead, error) {
	var lead entity.Lead
	err := row.Scan(
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
		&lead.OwnerName,
	)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// List returns all leads, or only those owned by *ownerID when the caller's
// role restricts visibility.
func (r *LeadRepository) List(ctx context.Context, ownerID *int64) ([]entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads l LEFT JOIN users u ON l.owner_id = u.id`
	var args []any
	if ownerID != nil {
		query += ` WHERE l.owner_id = $1`
		args = append(args, *ownerID)
	}
	query += ` ORDER BY l.id DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError("list leads", err)
	}
	defer rows.Close()

	leads := []entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, wrapDBError("scan lead", err)
		}
		leads = append(leads, *lead)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) FindByID(ctx context.Context, id int64) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads l LEFT JOIN users u ON l.owner_id = u.id WHERE l.id = $1`
	lead, err := scanLead(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr("Lead not found", err)
	}
	return lead, nil
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (name, company, email, phone, status, source, score, owner_id, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		lead.Name,
		lead.Company,
		nullString(lead.Email),
		nullString(lead.Phone),
		lead.Status,
		nullString(lead.Source),
		lead.Score,
		lead.OwnerID,
		nullString(lead.Description),
	).Scan(&lead.ID, &lead.CreatedAt)
	if err != nil {
		return wrapDBError("insert lead", err)
	}
	return nil
}

func (r *LeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	query := `
		UPDATE leads
		SET name = $1, company = $2, email = $3, phone = $4, status = $5,
		    source = $6, score = $7, description = $8
		WHERE id = $9
		RETURNING owner_id, converted_customer_id, created_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		lead.Name,
		lead.Company,
		nullString(lead.Email),
		nullString(lead.Phone),
		lead.Status,
		nullString(lead.Source),
		lead.Score,
		nullString(lead.Description),
		lead.ID,
	).Scan(&lead.OwnerID, &lead.ConvertedCustomerID, &lead.CreatedAt)
	if err != nil {
		return notFoundOr("Lead not found or no changes made.", err)
	}
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id); err != nil {
		return wrapDBError("delete lead", err)
	}
	return nil
}

// FunnelCounts groups leads by status for the analytics funnel.
func (r *LeadRepository) FunnelCounts(ctx context.Context) ([]entity.LeadFunnelRow, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM leads GROUP BY status`)
	if err != nil {
		return nil, wrapDBError("lead funnel", err)
	}
	defer rows.Close()

	out := []entity.LeadFunnelRow{}
	for rows.Next() {
		var row entity.LeadFunnelRow
		if err := rows.Scan(&row.Status, &row.Count); err != nil {
			return nil, wrapDBError("scan funnel row", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
