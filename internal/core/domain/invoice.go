// internal/core/domain/invoice.go
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a posted warehouse transaction: goods received from or shipped
// to a partner, handled by a worker. An invoice is created atomically with
// its items and is immutable afterwards.
type Invoice struct {
	ID          int64           `json:"id"`
	PartnerID   int64           `json:"partner_id"`
	PartnerName string          `json:"partner_name,omitempty"`
	WorkerID    int64           `json:"worker_id"`
	WorkerName  string          `json:"worker_name,omitempty"`
	Type        TransactionType `json:"type"`
	Date        time.Time       `json:"date"`
	Items       []Item          `json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Item is one line of an invoice. Price is the catalog price captured at
// posting time; it is never recomputed from the product afterwards.
type Item struct {
	ID          int64           `json:"id"`
	InvoiceID   int64           `json:"invoice_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Validate checks the invoice draft before posting. It covers everything
// that can be rejected without touching storage.
func (inv *Invoice) Validate() error {
	if inv.PartnerID == 0 {
		return NewValidation("partner_id", "is required")
	}
	if inv.WorkerID == 0 {
		return NewValidation("worker_id", "is required")
	}
	if !inv.Type.Valid() {
		return NewValidation("type", fmt.Sprintf("unknown transaction type %q", inv.Type))
	}
	if len(inv.Items) == 0 {
		return NewValidation("items", "at least one item is required")
	}
	for i, item := range inv.Items {
		if item.ProductID == 0 {
			return NewValidation(fmt.Sprintf("items[%d].product_id", i), "is required")
		}
		if item.Quantity <= 0 {
			return NewValidation(fmt.Sprintf("items[%d].quantity", i), "must be positive")
		}
	}
	return nil
}
