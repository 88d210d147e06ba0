package models

import (
	"time"
)

// Holding is one portfolio position owned by a verified subject.
type Holding struct {
	ID        int64     `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Symbol    string    `db:"symbol" json:"symbol"`
	Name      string    `db:"name" json:"name"`
	Shares    float64   `db:"shares" json:"shares"`
	AvgPrice  float64   `db:"avg_price" json:"avg_price"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
