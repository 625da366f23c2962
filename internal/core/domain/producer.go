// internal/core/domain/producer.go
package domain

import "time"

// Producer is a manufacturer of products stocked in the warehouse.
type Producer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate performs domain validation on the producer.
func (p *Producer) Validate() error {
	if p.Name == "" {
		return NewValidation("name", "is required")
	}
	if p.Address == "" {
		return NewValidation("address", "is required")
	}
	return nil
}
