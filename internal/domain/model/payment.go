package model

import "github.com/shopspring/decimal"

// PaymentStatus is the payment outcome dimension of an order. It is reported
// by the external payment collaborator and is independent of the fulfilment
// status machine.
type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "PENDING"
	PaymentStatusPaid              PaymentStatus = "PAID"
	PaymentStatusFailed            PaymentStatus = "FAILED"
	PaymentStatusRefunded          PaymentStatus = "REFUNDED"
	PaymentStatusPartiallyRefunded PaymentStatus = "PARTIALLY_REFUNDED"
)

// Valid reports whether the value is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed,
		PaymentStatusRefunded, PaymentStatusPartiallyRefunded:
		return true
	}
	return false
}

// PaymentResult is the payment collaborator's verdict for one order.
type PaymentResult struct {
	OrderNumber string
	Status      PaymentStatus
	Amount      *decimal.Decimal
}
