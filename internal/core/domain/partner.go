// internal/core/domain/partner.go
package domain

import "time"

// Partner is a counterparty of the warehouse: a supplier goods arrive from or
// a customer they ship to. Name and requisites are unique across partners.
type Partner struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	Email      string    `json:"email"`
	Requisites string    `json:"requisites"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Validate performs domain validation on the partner.
func (p *Partner) Validate() error {
	if p.Name == "" {
		return NewValidation("name", "is required")
	}
	if p.Address == "" {
		return NewValidation("address", "is required")
	}
	if p.Email == "" {
		return NewValidation("email", "is required")
	}
	if p.Requisites == "" {
		return NewValidation("requisites", "is required")
	}
	return nil
}
