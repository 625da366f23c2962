// internal/core/domain/invoice_test.go
package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvolkova/warehouse-be/internal/core/domain"
)

func validInvoice() *domain.Invoice {
	return &domain.Invoice{
		PartnerID: 1,
		WorkerID:  1,
		Type:      domain.TransactionOutcome,
		Items: []domain.Item{
			{ProductID: 1, Quantity: 4},
		},
	}
}

func TestInvoice_Validate(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*domain.Invoice)
		errorContains string
	}{
		{
			name:   "valid_invoice",
			mutate: func(inv *domain.Invoice) {},
		},
		{
			name:          "missing_partner",
			mutate:        func(inv *domain.Invoice) { inv.PartnerID = 0 },
			errorContains: "partner_id",
		},
		{
			name:          "missing_worker",
			mutate:        func(inv *domain.Invoice) { inv.WorkerID = 0 },
			errorContains: "worker_id",
		},
		{
			name:          "unknown_type",
			mutate:        func(inv *domain.Invoice) { inv.Type = "transfer" },
			errorContains: `unknown transaction type "transfer"`,
		},
		{
			name:          "no_items",
			mutate:        func(inv *domain.Invoice) { inv.Items = nil },
			errorContains: "at least one item",
		},
		{
			name: "item_without_product",
			mutate: func(inv *domain.Invoice) {
				inv.Items = []domain.Item{{ProductID: 0, Quantity: 1}}
			},
			errorContains: "items[0].product_id",
		},
		{
			name: "item_with_zero_quantity",
			mutate: func(inv *domain.Invoice) {
				inv.Items = []domain.Item{{ProductID: 1, Quantity: 0}}
			},
			errorContains: "items[0].quantity",
		},
		{
			name: "item_with_negative_quantity",
			mutate: func(inv *domain.Invoice) {
				inv.Items = []domain.Item{
					{ProductID: 1, Quantity: 2},
					{ProductID: 2, Quantity: -1},
				}
			},
			errorContains: "items[1].quantity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := validInvoice()
			tt.mutate(inv)

			err := inv.Validate()

			if tt.errorContains == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestProduct_CatalogPrice(t *testing.T) {
	product := &domain.Product{
		IncomePrice:  decimal.NewFromFloat(0.40),
		OutcomePrice: decimal.NewFromFloat(0.75),
	}

	assert.True(t, product.CatalogPrice(domain.TransactionIncome).Equal(decimal.NewFromFloat(0.40)))
	assert.True(t, product.CatalogPrice(domain.TransactionOutcome).Equal(decimal.NewFromFloat(0.75)))
}

func TestParseTransactionType(t *testing.T) {
	tests := []struct {
		input    string
		expected domain.TransactionType
		wantErr  bool
	}{
		{input: "income", expected: domain.TransactionIncome},
		{input: "outcome", expected: domain.TransactionOutcome},
		{input: "INCOME", wantErr: true},
		{input: "transfer", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("input_"+tt.input, func(t *testing.T) {
			got, err := domain.ParseTransactionType(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, domain.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.True(t, got.Valid())
		})
	}
}
