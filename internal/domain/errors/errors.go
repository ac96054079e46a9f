package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists       = errors.New("already exists")
	ErrNotFound            = errors.New("not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrForbidden           = errors.New("forbidden")
	ErrOrderTerminal       = errors.New("order is in a terminal status")
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
	ErrEmptyOrder          = errors.New("order must contain at least one item")
	ErrInvalidQuantity     = errors.New("item quantity must be positive")
	ErrInvalidShipping     = errors.New("unknown shipping method")
	ErrSequenceExhausted   = errors.New("daily order number sequence exhausted")
)

// ProductNotFoundError names the product that is missing or inactive.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found or inactive", e.ProductID)
}

// VariantNotFoundError names the variant that is missing or inactive.
type VariantNotFoundError struct {
	ProductID int64
	VariantID int64
}

func (e *VariantNotFoundError) Error() string {
	return fmt.Sprintf("variant %d of product %d not found or inactive", e.VariantID, e.ProductID)
}

// InsufficientStockError carries enough detail for the caller to render a
// precise message without re-deriving anything.
type InsufficientStockError struct {
	ProductID int64
	VariantID *int64
	Requested int32
	Available int32
}

func (e *InsufficientStockError) Error() string {
	if e.VariantID != nil {
		return fmt.Sprintf("insufficient stock for product %d variant %d: requested %d, available %d",
			e.ProductID, *e.VariantID, e.Requested, e.Available)
	}
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// InvalidTransitionError names the rejected status edge.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}
