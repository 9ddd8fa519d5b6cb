package entity

import "time"

type Customer struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Industry string `json:"industry,omitempty"`
	Email    string `json:"email,omitempty"`
	OwnerID  int64  `json:"owner_id"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	Country  string `json:"country,omitempty"`
	Website  string `json:"website,omitempty"`
	Notes    string `json:"notes,omitempty"`

	OwnerName string `json:"owner_name,omitempty"`
}

// Contact is a person attached to a customer. Conversion always appends one,
// whether the customer was created or reused.
type Contact struct {
	ID         int64  `json:"id"`
	CustomerID int64  `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

type Attachment struct {
	ID         int64     `json:"id"`
	FileName   string    `json:"file_name"`
	FileURL    string    `json:"file_url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// CustomerDetails is the detail-view payload: the customer plus its related
// collections, matching the SPA's expectations.
type CustomerDetails struct {
	Customer
	Contacts    []Contact    `json:"contacts"`
	Deals       []Deal       `json:"deals"`
	Attachments []Attachment `json:"attachments"`
}
