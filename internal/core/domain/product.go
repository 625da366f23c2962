// internal/core/domain/product.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a stocked item. Quantity is the current on-hand count and never
// goes negative. IncomePrice and OutcomePrice are the catalog unit prices for
// receiving and shipping; posted invoice lines snapshot one of them.
type Product struct {
	ID           int64           `json:"id"`
	GroupID      int64           `json:"group_id"`
	GroupName    string          `json:"group_name"`
	ProducerID   int64           `json:"producer_id"`
	ProducerName string          `json:"producer_name"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Quantity     int             `json:"quantity"`
	IncomePrice  decimal.Decimal `json:"income_price"`
	OutcomePrice decimal.Decimal `json:"outcome_price"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Validate performs domain validation on the product.
func (p *Product) Validate() error {
	if p.Name == "" {
		return NewValidation("name", "is required")
	}
	if p.GroupName == "" && p.GroupID == 0 {
		return NewValidation("group_name", "is required")
	}
	if p.ProducerName == "" && p.ProducerID == 0 {
		return NewValidation("producer_name", "is required")
	}
	if p.Quantity < 0 {
		return NewValidation("quantity", "must not be negative")
	}
	if !p.IncomePrice.IsPositive() {
		return NewValidation("income_price", "must be positive")
	}
	if !p.OutcomePrice.IsPositive() {
		return NewValidation("outcome_price", "must be positive")
	}
	return nil
}

// CatalogPrice returns the unit price to snapshot for the given transaction
// direction: income price for receiving, outcome price for shipping.
func (p *Product) CatalogPrice(t TransactionType) decimal.Decimal {
	if t == TransactionIncome {
		return p.IncomePrice
	}
	return p.OutcomePrice
}
