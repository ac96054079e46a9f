package repository

import (
	"context"

	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/model"
)

// ProductCatalog reads product and variant state owned by the external
// catalog subsystem. Missing or inactive records surface as the typed
// not-found errors from the domain errors package.
type ProductCatalog interface {
	GetProduct(ctx context.Context, productID int64) (*model.Product, error)
	GetVariant(ctx context.Context, productID, variantID int64) (*model.Variant, error)
}

// StockLedger exposes availability reads over the per-product and per-variant
// quantity counters. The matching decrement/restore mutations run inside the
// order transactions (OrderRepository.Create / Cancel) so that availability
// checks and reservations commit as one unit; counters are never written
// outside those operations.
type StockLedger interface {
	Availability(ctx context.Context, productID int64, variantID *int64) (model.StockInfo, error)
}
