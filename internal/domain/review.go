package domain

import "time"

type Review struct {
	ID         int64     `json:"id"`
	ProductID  int64     `json:"productId"`
	OrderID    int64     `json:"orderId"`
	UserID     int64     `json:"userId"`
	AuthorName string    `json:"authorName"`
	Rating     int       `json:"rating"`
	Text       string    `json:"text,omitempty"`
	IsApproved bool      `json:"isApproved"`
	CreatedAt  time.Time `json:"createdAt"`
}
