package model

import (
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/errors"
)

// OrderStatus describes order fulfilment lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// Valid reports whether the value is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further status mutation is allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// transitions holds the allowed forward edges of the status machine.
// CANCELLED is reachable only through Cancel, which also restores stock and
// records the cancellation fields, so it is not an edge here.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing},
	OrderStatusProcessing: {OrderStatusShipped},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// CanTransition validates a status change. Terminal states reject everything
// with ErrOrderTerminal; any other illegal edge yields InvalidTransitionError.
func (s OrderStatus) CanTransition(next OrderStatus) error {
	if s.Terminal() {
		return domainErrors.ErrOrderTerminal
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return nil
		}
	}
	return &domainErrors.InvalidTransitionError{From: string(s), To: string(next)}
}

// ShippingMethod selects a shipping cost tier.
type ShippingMethod string

const (
	ShippingStandard  ShippingMethod = "standard"
	ShippingExpress   ShippingMethod = "express"
	ShippingOvernight ShippingMethod = "overnight"
)

// Valid reports whether the shipping method is a known tier.
func (m ShippingMethod) Valid() bool {
	switch m {
	case ShippingStandard, ShippingExpress, ShippingOvernight:
		return true
	}
	return false
}

// Order is a durable record of a completed checkout: header, line items and
// append-only tracking history. Address fields are snapshots captured at
// creation and never re-derived from live records.
type Order struct {
	ID              int64
	Number          string
	CustomerID      int64
	Status          OrderStatus
	PaymentStatus   PaymentStatus
	Subtotal        decimal.Decimal
	ShippingCost    decimal.Decimal
	TaxAmount       decimal.Decimal
	DiscountAmount  decimal.Decimal
	TotalAmount     decimal.Decimal
	ShippingAddress string
	BillingAddress  string
	ShippingMethod  ShippingMethod
	TrackingNumber  *string
	Notes           string
	CancelReason    *string
	CancelledAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items    []OrderItem
	Tracking []TrackingEntry
}

// Cancellable reports whether the customer may still cancel the order.
func (o *Order) Cancellable() bool {
	return !o.Status.Terminal()
}

// VendorOnOrder reports whether the vendor fulfils at least one line item.
func (o *Order) VendorOnOrder(vendorID int64) bool {
	for _, item := range o.Items {
		if item.VendorID == vendorID {
			return true
		}
	}
	return false
}
