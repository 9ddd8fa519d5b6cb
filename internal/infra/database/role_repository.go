package database

import (
	"context"
	"database/sql"

	"github.com/jpereira88/pipecrm/internal/entity"
)

type RoleRepository struct {
	DB *sql.DB
}

func NewRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{DB: db}
}

func (r *RoleRepository) List(ctx context.Context) ([]entity.Role, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name FROM roles ORDER BY name`)
	if err != nil {
		return nil, wrapDBError("list roles", err)
	}
	defer rows.Close()

	roles := []entity.Role{}
	for rows.Next() {
		var role entity.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, wrapDBError("scan role", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// Permissions returns the permission ids granted to a role, as a flat list
// of strings the SPA uses to toggle navigation entries.
func (r *RoleRepository) Permissions(ctx context.Context, roleID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT permission_id FROM role_permissions WHERE role_id = $1`, roleID)
	if err != nil {
		return nil, wrapDBError("list role permissions", err)
	}
	defer rows.Close()

	perms := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, wrapDBError("scan permission", err)
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}
