package entity

import "time"

// Pipeline stage names. The graph is flat: any stage may be relabeled to any
// other, sort_order only drives board column ordering.
const (
	StageNew        = "new"
	StageQualifying = "qualifying"
	StageProposal   = "proposal"
	StageWon        = "won"
	StageLost       = "lost"
)

type DealStage struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

type Deal struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Value      float64   `json:"value"`
	CloseDate  time.Time `json:"close_date"`
	CustomerID int64     `json:"customer_id"`
	OwnerID    int64     `json:"owner_id"`
	StageID    int64     `json:"stage_id"`

	// Joined for board/detail views.
	StageName   string `json:"stage_name,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	OwnerName   string `json:"owner_name,omitempty"`
}

// DealProduct is a product linked to a deal with a quantity.
type DealProduct struct {
	Product
	Quantity int `json:"quantity"`
}

type DealDetails struct {
	Deal
	Attachments []Attachment  `json:"attachments"`
	Products    []DealProduct `json:"products"`
}
