package database

import (
	"context"
	"database/sql"

	"github.com/jpereira88/pipecrm/internal/entity"
)

// StageRepository reads the deal_stages reference table. Stages are static
// seed data; there is no write path.
type StageRepository struct {
	DB *sql.DB
}

func NewStageRepository(db *sql.DB) *StageRepository {
	return &StageRepository{DB: db}
}

func (r *StageRepository) List(ctx context.Context) ([]entity.DealStage, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, sort_order FROM deal_stages ORDER BY sort_order ASC`)
	if err != nil {
		return nil, wrapDBError("list deal stages", err)
	}
	defer rows.Close()

	stages := []entity.DealStage{}
	for rows.Next() {
		var s entity.DealStage
		if err := rows.Scan(&s.ID, &s.Name, &s.SortOrder); err != nil {
			return nil, wrapDBError("scan deal stage", err)
		}
		stages = append(stages, s)
	}
	return stages, rows.Err()
}

func (r *StageRepository) FindByName(ctx context.Context, name string) (*entity.DealStage, error) {
	var s entity.DealStage
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, sort_order FROM deal_stages WHERE name = $1`, name).
		Scan(&s.ID, &s.Name, &s.SortOrder)
	if err != nil {
		return nil, notFoundOr("Deal stage not found", err)
	}
	return &s, nil
}
