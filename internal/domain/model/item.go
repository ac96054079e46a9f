package model

import "github.com/shopspring/decimal"

// OrderItem is one line of an order. Product name, SKU, variant description,
// image and unit price are denormalized at order time so historical orders
// render correctly after catalog edits.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	VariantID   *int64
	VendorID    int64
	ProductName string
	ProductSKU  string
	VariantName string
	ImageURL    string
	Quantity    int32
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}
