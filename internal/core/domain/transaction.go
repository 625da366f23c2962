// internal/core/domain/transaction.go
package domain

import "fmt"

// TransactionType is the direction of an invoice: income receives goods into
// the warehouse, outcome ships them out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionOutcome TransactionType = "outcome"
)

// Valid reports whether the transaction type is one of the known directions.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionOutcome
}

// ParseTransactionType converts external input into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TransactionIncome:
		return TransactionIncome, nil
	case TransactionOutcome:
		return TransactionOutcome, nil
	default:
		return "", NewValidation("type", fmt.Sprintf("unknown transaction type %q", s))
	}
}
