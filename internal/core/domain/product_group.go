// internal/core/domain/product_group.go
package domain

import "time"

// ProductGroup is a named category products belong to. Names are unique.
type ProductGroup struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate performs domain validation on the product group.
func (g *ProductGroup) Validate() error {
	if g.Name == "" {
		return NewValidation("name", "is required")
	}
	return nil
}
