package database

import (
	"context"
	"database/sql"

	"github.com/jpereira88/pipecrm/internal/entity"
)

type TaskRepository struct {
	DB *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

func (r *TaskRepository) List(ctx context.Context, assigneeID *int64) ([]entity.Task, error) {
	query := `
		SELECT t.id, t.title, t.due_date, t.priority, t.status, t.assignee_id,
		       t.deal_id, t.customer_id,
		       COALESCE(d.name, ''), COALESCE(c.name, ''), COALESCE(u.name, '')
		FROM tasks t
		LEFT JOIN deals d ON t.deal_id = d.id
		LEFT JOIN customers c ON t.customer_id = c.id
		LEFT JOIN users u ON t.assignee_id = u.id
	`
	var args []any
	if assigneeID != nil {
		query += ` WHERE t.assignee_id = $1`
		args = append(args, *assigneeID)
	}
	query += ` ORDER BY t.due_date ASC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError("list tasks", err)
	}
	defer rows.Close()

	tasks := []entity.Task{}
	for rows.Next() {
		var t entity.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.DueDate, &t.Priority, &t.Status,
			&t.AssigneeID, &t.DealID, &t.CustomerID,
			&t.DealName, &t.CustomerName, &t.AssigneeName); err != nil {
			return nil, wrapDBError("scan task", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	query := `
		INSERT INTO tasks (title, due_date, priority, status, assignee_id, deal_id, customer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		t.Title, t.DueDate, t.Priority, t.Status, t.AssigneeID, t.DealID, t.CustomerID,
	).Scan(&t.ID)
	if err != nil {
		return wrapDBError("insert task", err)
	}
	return nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, id int64, status string) (*entity.Task, error) {
	query := `
		UPDATE tasks SET status = $1 WHERE id = $2
		RETURNING id, title, due_date, priority, status, assignee_id, deal_id, customer_id
	`
	var t entity.Task
	err := r.DB.QueryRowContext(ctx, query, status, id).Scan(
		&t.ID, &t.Title, &t.DueDate, &t.Priority, &t.Status,
		&t.AssigneeID, &t.DealID, &t.CustomerID,
	)
	if err != nil {
		return nil, notFoundOr("Task not found", err)
	}
	return &t, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id); err != nil {
		return wrapDBError("delete task", err)
	}
	return nil
}
