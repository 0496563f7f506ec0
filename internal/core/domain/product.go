package domain

import "time"

// Product is a catalogue item owned by exactly one dealer account.
type Product struct {
	ID            int64     `json:"id"`
	OwnerID       int64     `json:"owner_id"`
	OwnerUsername string    `json:"owner_username"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
