package entity

import "time"

const (
	TaskStatusUpcoming  = "upcoming"
	TaskStatusCompleted = "completed"
	TaskStatusOverdue   = "overdue"
)

const (
	TaskPriorityLow    = "Low"
	TaskPriorityMedium = "Medium"
	TaskPriorityHigh   = "High"
)

type Task struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	DueDate    time.Time `json:"due_date"`
	Priority   string    `json:"priority"`
	Status     string    `json:"status"`
	AssigneeID int64     `json:"assignee_id"`
	DealID     *int64    `json:"deal_id,omitempty"`
	CustomerID *int64    `json:"customer_id,omitempty"`

	DealName     string `json:"deal_name,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
	AssigneeName string `json:"assignee_name,omitempty"`
}
