package entity

import "time"

const (
	QuoteStatusDraft    = "Draft"
	QuoteStatusSent     = "Sent"
	QuoteStatusAccepted = "Accepted"
	QuoteStatusRejected = "Rejected"
)

// Quote ids are human-readable (QT-<year>-<suffix>), not serials.
type Quote struct {
	ID         string    `json:"id"`
	DealID     int64     `json:"deal_id"`
	CustomerID int64     `json:"customer_id"`
	Status     string    `json:"status"`
	Subtotal   float64   `json:"subtotal"`
	Tax        float64   `json:"tax"`
	Total      float64   `json:"total"`
	CreatedAt  time.Time `json:"created_at"`

	DealName     string `json:"deal_name,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
}

type QuoteLineItem struct {
	ID          int64   `json:"id"`
	QuoteID     string  `json:"quote_id"`
	ProductID   int64   `json:"product_id"`
	Quantity    int     `json:"quantity"`
	PriceAtTime float64 `json:"price_at_time"`
}
