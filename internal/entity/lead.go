package entity

import "time"

// Lead statuses. Converted is terminal and one-way.
const (
	LeadStatusNew       = "New"
	LeadStatusContacted = "Contacted"
	LeadStatusQualified = "Qualified"
	LeadStatusLost      = "Lost"
	LeadStatusConverted = "Converted"
)

type Lead struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Company             string    `json:"company"`
	Email               string    `json:"email,omitempty"`
	Phone               string    `json:"phone,omitempty"`
	Status              string    `json:"status"`
	Source              string    `json:"source,omitempty"`
	Score               int       `json:"score"`
	OwnerID             int64     `json:"owner_id"`
	Description         string    `json:"description,omitempty"`
	ConvertedCustomerID *int64    `json:"converted_customer_id,omitempty"`
	CreatedAt           time.Time `json:"created_at"`

	// Joined for list views, never written back.
	OwnerName string `json:"owner_name,omitempty"`
}

func (l *Lead) IsConverted() bool {
	return l.Status == LeadStatusConverted
}
