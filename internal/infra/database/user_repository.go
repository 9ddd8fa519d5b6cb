package database

import (
	"context"
	"database/sql"

	"github.com/jpereira88/pipecrm/internal/entity"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, name, email, COALESCE(password_hash, ''), role_id, COALESCE(status, ''), is_setup_complete`

func scanUser(row interface{ Scan(...any) error }) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID, &u.Status, &u.IsSetupComplete)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, notFoundOr("User not found", err)
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr("User not found", err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, email, '', role_id, COALESCE(status, ''), is_setup_complete
		 FROM users ORDER BY name`)
	if err != nil {
		return nil, wrapDBError("list users", err)
	}
	defer rows.Close()

	users := []entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, wrapDBError("scan user", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role_id, status, is_setup_complete)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		u.Name, u.Email, u.PasswordHash, u.RoleID, u.Status, u.IsSetupComplete,
	).Scan(&u.ID)
	if err != nil {
		return wrapDBError("insert user", err)
	}
	return nil
}

func (r *UserRepository) UpdateRoleAndStatus(ctx context.Context, id int64, roleID, status string) (*entity.User, error) {
	query := `
		UPDATE users SET role_id = $1, status = $2 WHERE id = $3
		RETURNING ` + userColumns + `
	`
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, roleID, status, id))
	if err != nil {
		return nil, notFoundOr("User not found", err)
	}
	u.PasswordHash = ""
	return u, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if _, err := r.DB.ExecContext(ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id); err != nil {
		return wrapDBError("update password", err)
	}
	return nil
}

// CompleteSetup stores the first password and flips the setup flag.
func (r *UserRepository) CompleteSetup(ctx context.Context, id int64, passwordHash string) error {
	if _, err := r.DB.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, is_setup_complete = true WHERE id = $2`,
		passwordHash, id); err != nil {
		return wrapDBError("complete setup", err)
	}
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, name, email string) (*entity.User, error) {
	query := `
		UPDATE users SET name = $1, email = $2 WHERE id = $3
		RETURNING ` + userColumns + `
	`
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, name, email, id))
	if err != nil {
		return nil, notFoundOr("User not found", err)
	}
	u.PasswordHash = ""
	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return wrapDBError("delete user", err)
	}
	return nil
}
