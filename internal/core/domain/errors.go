// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Entity   string
	Criteria string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found (%s)", e.Entity, e.Criteria)
}

// NewNotFound creates a NotFoundError for the given entity and lookup criteria.
func NewNotFound(entity, criteria string) error {
	return &NotFoundError{Entity: entity, Criteria: criteria}
}

// AlreadyExistsError reports a uniqueness violation on create or update.
type AlreadyExistsError struct {
	Entity   string
	Criteria string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s already exists (%s)", e.Entity, e.Criteria)
}

// NewAlreadyExists creates an AlreadyExistsError for the given entity and criteria.
func NewAlreadyExists(entity, criteria string) error {
	return &AlreadyExistsError{Entity: entity, Criteria: criteria}
}

// InsufficientStockError reports an outbound posting that exceeds the
// product's on-hand quantity. It carries enough detail for the caller to
// build a useful message without another lookup.
type InsufficientStockError struct {
	Required    int
	Available   int
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock of %q: required %d, available %d",
		e.ProductName, e.Required, e.Available)
}

// NewInsufficientStock creates an InsufficientStockError.
func NewInsufficientStock(required, available int, productName string) error {
	return &InsufficientStockError{
		Required:    required,
		Available:   available,
		ProductName: productName,
	}
}

// ValidationError reports malformed or missing input, detected before any
// mutation takes place.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidation creates a ValidationError for the given field.
func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// IsAlreadyExists reports whether err is (or wraps) an AlreadyExistsError.
func IsAlreadyExists(err error) bool {
	var e *AlreadyExistsError
	return errors.As(err, &e)
}

// IsInsufficientStock reports whether err is (or wraps) an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var e *InsufficientStockError
	return errors.As(err, &e)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}
