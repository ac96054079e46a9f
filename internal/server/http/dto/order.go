package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest is one requested cart line.
type OrderItemRequest struct {
	ProductID int64  `json:"product_id" binding:"required"`
	VariantID *int64 `json:"variant_id,omitempty"`
	Quantity  int32  `json:"quantity" binding:"required"`
}

// CreateOrderRequest describes the order placement payload.
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" binding:"required"`
	ShippingAddress string             `json:"shipping_address" binding:"required"`
	BillingAddress  string             `json:"billing_address"`
	ShippingMethod  string             `json:"shipping_method" binding:"required"`
	Notes           string             `json:"notes"`
}

// UpdateStatusRequest describes a status transition payload.
type UpdateStatusRequest struct {
	Status         string  `json:"status" binding:"required"`
	TrackingNumber *string `json:"tracking_number,omitempty"`
	Location       *string `json:"location,omitempty"`
	Note           string  `json:"note"`
}

// CancelRequest carries the customer's cancellation reason.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// SearchQuery binds order listing query parameters. The customer and vendor
// filters are requests, not grants: scoping still narrows them to what the
// actor's role may see.
type SearchQuery struct {
	Q          string `form:"q"`
	Status     string `form:"status"`
	CustomerID *int64 `form:"customer_id"`
	VendorID   *int64 `form:"vendor_id"`
	From       string `form:"from"`
	To         string `form:"to"`
	MinTotal   string `form:"min_total"`
	MaxTotal   string `form:"max_total"`
	Sort       string `form:"sort"`
	Order      string `form:"order"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

// OrderItemResponse is one order line as returned to clients.
type OrderItemResponse struct {
	ProductID   int64           `json:"product_id"`
	VariantID   *int64          `json:"variant_id,omitempty"`
	VendorID    int64           `json:"vendor_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	VariantName string          `json:"variant_name,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	Quantity    int32           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// TrackingResponse is one entry of an order's tracking history.
type TrackingResponse struct {
	Status         string    `json:"status"`
	Note           string    `json:"note,omitempty"`
	TrackingNumber *string   `json:"tracking_number,omitempty"`
	Location       *string   `json:"location,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// OrderResponse is the full order representation.
type OrderResponse struct {
	ID              int64               `json:"id"`
	Number          string              `json:"number"`
	Status          string              `json:"status"`
	PaymentStatus   string              `json:"payment_status"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	ShippingCost    decimal.Decimal     `json:"shipping_cost"`
	TaxAmount       decimal.Decimal     `json:"tax_amount"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	ShippingAddress string              `json:"shipping_address"`
	BillingAddress  string              `json:"billing_address,omitempty"`
	ShippingMethod  string              `json:"shipping_method"`
	TrackingNumber  *string             `json:"tracking_number,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	CancelReason    *string             `json:"cancel_reason,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Items           []OrderItemResponse `json:"items"`
	Tracking        []TrackingResponse  `json:"tracking,omitempty"`
}

// ListOrdersResponse is a paginated listing.
type ListOrdersResponse struct {
	Orders   []OrderResponse `json:"orders"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}
