package entity

import "time"

type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	SKU         string  `json:"sku"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
	Description string  `json:"description,omitempty"`
}

type ProductDetails struct {
	Product
	Attachments []Attachment `json:"attachments"`
}

// ProductRequest statuses follow the review workflow: Pending until a product
// manager converts or rejects it.
const (
	RequestStatusPending   = "Pending"
	RequestStatusCompleted = "Completed"
)

type ProductRequest struct {
	ID                   int64     `json:"id"`
	DealID               *int64    `json:"deal_id,omitempty"`
	RequestedProductName string    `json:"requested_product_name"`
	Specs                string    `json:"specs,omitempty"`
	Status               string    `json:"status"`
	RequestDate          time.Time `json:"request_date"`
	RequestedByID        int64     `json:"requested_by_id"`

	RequestedByName string `json:"requested_by_name,omitempty"`
	DealName        string `json:"deal_name,omitempty"`
}

type ProductRequestDetails struct {
	ProductRequest
	Attachments []Attachment `json:"attachments"`
}
