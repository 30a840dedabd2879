package domain

import "time"

// CustomOrderDetails is the made-to-order supplement, one-to-one with
// orders of type "custom".
type CustomOrderDetails struct {
	ID                int64     `json:"id"`
	OrderID           int64     `json:"orderId"`
	ClientDescription *string   `json:"clientDescription,omitempty"`
	AdminNotes        *string   `json:"adminNotes,omitempty"`
	FileURLs          []string  `json:"fileUrls"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
