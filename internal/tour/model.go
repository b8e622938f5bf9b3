package tour

import "time"

type Tour struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Destination string    `db:"destination" json:"destination"`
	Days        int       `db:"days" json:"days"`
	PriceCents  int64     `db:"price_cents" json:"price"`
	Currency    string    `db:"currency" json:"currency"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type CreateTourRequest struct {
	Name        string `json:"name" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	Days        int    `json:"days" binding:"required,min=1"`
	Price       int64  `json:"price" binding:"required,min=1"`
	Currency    string `json:"currency"`
}
