package model

import "github.com/shopspring/decimal"

// Product is the read model of a catalog product as the order core sees it.
// The catalog itself is owned by an external collaborator; only the stock
// counters are mutated here, through the ledger contract.
type Product struct {
	ID             int64
	VendorID       int64
	Name           string
	SKU            string
	ImageURL       string
	Price          decimal.Decimal
	Active         bool
	TrackQuantity  bool
	AllowBackorder bool
	Quantity       int32
}

// Variant is a priced, separately stocked option of a product.
type Variant struct {
	ID              int64
	ProductID       int64
	Name            string
	PriceAdjustment decimal.Decimal
	Active          bool
	Quantity        int32
}

// StockInfo is a point-in-time availability snapshot for a product or one of
// its variants.
type StockInfo struct {
	Quantity       int32
	TrackQuantity  bool
	AllowBackorder bool
}

// Available reports whether the requested amount can be reserved.
func (s StockInfo) Available(amount int32) bool {
	if !s.TrackQuantity || s.AllowBackorder {
		return true
	}
	return s.Quantity >= amount
}
