package usecase

import (
	"context"
	"fmt"
	"time"

	domainErrors "github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/errors"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/model"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/repository"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/pricing"
)

// AccessPolicy is the injected capability check the workflow consults instead
// of comparing role strings. The implementation lives with the identity
// collaborator wiring.
type AccessPolicy interface {
	// CanViewOrder reports whether the actor may read the order: its
	// customer, a vendor fulfilling at least one line, or an admin.
	CanViewOrder(ctx context.Context, actorID int64, order *model.Order) (bool, error)
	// CanUpdateStatus reports whether the actor may move the order through
	// the status machine: a vendor on the order or an admin.
	CanUpdateStatus(ctx context.Context, actorID int64, order *model.Order) (bool, error)
	// ScopeSearch narrows the filter to what the actor may see. Admin
	// filters pass through untouched.
	ScopeSearch(ctx context.Context, actorID int64, filter *repository.SearchFilter) error
}

// StatsCache is an optional read-through cache for order statistics.
// Implementations return (nil, nil) on a miss.
type StatsCache interface {
	Get(ctx context.Context, key string) (*model.OrderStats, error)
	Set(ctx context.Context, key string, stats *model.OrderStats) error
}

// CreateOrderItem is one requested cart line.
type CreateOrderItem struct {
	ProductID int64
	VariantID *int64
	Quantity  int32
}

// CreateOrderInput carries everything needed to place an order.
type CreateOrderInput struct {
	CustomerID      int64
	Items           []CreateOrderItem
	ShippingAddress string
	BillingAddress  string
	ShippingMethod  model.ShippingMethod
	Notes           string
}

// UpdateStatusInput carries the optional tracking details of a transition.
type UpdateStatusInput struct {
	TrackingNumber *string
	Location       *string
	Note           string
}

// OrderUseCase orchestrates order creation, status updates, cancellation and
// queries. All multi-write consistency is delegated to the repository's
// transactional operations.
type OrderUseCase struct {
	orders  repository.OrderRepository
	catalog repository.ProductCatalog
	stock   repository.StockLedger
	pricer  *pricing.Calculator
	policy  AccessPolicy
	stats   StatsCache
}

// NewOrderUseCase constructs OrderUseCase. The stats cache may be nil.
func NewOrderUseCase(
	orders repository.OrderRepository,
	catalog repository.ProductCatalog,
	stock repository.StockLedger,
	pricer *pricing.Calculator,
	policy AccessPolicy,
	stats StatsCache,
) *OrderUseCase {
	return &OrderUseCase{
		orders:  orders,
		catalog: catalog,
		stock:   stock,
		pricer:  pricer,
		policy:  policy,
		stats:   stats,
	}
}

// Create validates and prices the requested items, then persists the order,
// its lines, the initial tracking entry and the stock reservations as one
// atomic unit. Any failure leaves nothing applied.
func (u *OrderUseCase) Create(ctx context.Context, input CreateOrderInput) (*model.Order, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	items := make([]model.OrderItem, 0, len(input.Items))
	for _, req := range input.Items {
		product, err := u.catalog.GetProduct(ctx, req.ProductID)
		if err != nil {
			return nil, err
		}

		var variant *model.Variant
		if req.VariantID != nil {
			if variant, err = u.catalog.GetVariant(ctx, req.ProductID, *req.VariantID); err != nil {
				return nil, err
			}
		}

		// Advisory availability check for a precise early error; the
		// conditional decrement inside the creation transaction remains the
		// authoritative guard against races.
		info, err := u.stock.Availability(ctx, req.ProductID, req.VariantID)
		if err != nil {
			return nil, err
		}
		if !info.Available(req.Quantity) {
			return nil, &domainErrors.InsufficientStockError{
				ProductID: req.ProductID,
				VariantID: req.VariantID,
				Requested: req.Quantity,
				Available: info.Quantity,
			}
		}

		unitPrice := u.pricer.UnitPrice(product, variant)
		item := model.OrderItem{
			ProductID:   product.ID,
			VariantID:   req.VariantID,
			VendorID:    product.VendorID,
			ProductName: product.Name,
			ProductSKU:  product.SKU,
			ImageURL:    product.ImageURL,
			Quantity:    req.Quantity,
			UnitPrice:   unitPrice,
			TotalPrice:  u.pricer.LineTotal(unitPrice, req.Quantity),
		}
		if variant != nil {
			item.VariantName = variant.Name
		}
		items = append(items, item)
	}

	quote, err := u.pricer.Quote(items, input.ShippingMethod)
	if err != nil {
		return nil, err
	}

	draft := &model.Order{
		CustomerID:      input.CustomerID,
		Status:          model.OrderStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		Subtotal:        quote.Subtotal,
		ShippingCost:    quote.ShippingCost,
		TaxAmount:       quote.TaxAmount,
		DiscountAmount:  quote.DiscountAmount,
		TotalAmount:     quote.TotalAmount,
		ShippingAddress: input.ShippingAddress,
		BillingAddress:  input.BillingAddress,
		ShippingMethod:  input.ShippingMethod,
		Notes:           input.Notes,
		Items:           items,
	}

	return u.orders.Create(ctx, draft)
}

// Get returns the hydrated order. When a requesting actor is supplied the
// result is filtered by the access policy; an invisible order reads as not
// found so existence is not leaked.
func (u *OrderUseCase) Get(ctx context.Context, orderID int64, actorID *int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actorID != nil {
		ok, err := u.policy.CanViewOrder(ctx, *actorID, order)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domainErrors.ErrNotFound
		}
	}
	return order, nil
}

// Search lists orders matching the filter, scoped to the requesting actor's
// visibility unless none is supplied.
func (u *OrderUseCase) Search(ctx context.Context, filter repository.SearchFilter, actorID *int64) ([]model.Order, int64, error) {
	if actorID != nil {
		if err := u.policy.ScopeSearch(ctx, *actorID, &filter); err != nil {
			return nil, 0, err
		}
	}
	return u.orders.Search(ctx, filter)
}

// UpdateStatus applies a state-machine transition on behalf of a vendor on
// the order or an admin, appending exactly one tracking entry.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, orderID int64, next model.OrderStatus, actorID int64, input UpdateStatusInput) (*model.Order, error) {
	if !next.Valid() {
		return nil, &domainErrors.InvalidTransitionError{From: "", To: string(next)}
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	ok, err := u.policy.CanUpdateStatus(ctx, actorID, order)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domainErrors.ErrForbidden
	}

	entry := model.TrackingEntry{
		OrderID:        orderID,
		Status:         next,
		Note:           input.Note,
		TrackingNumber: input.TrackingNumber,
		Location:       input.Location,
		ActorID:        actorID,
	}
	return u.orders.UpdateStatus(ctx, orderID, next, entry)
}

// Cancel is the customer-initiated cancellation: only the order's customer
// may invoke it, terminal orders are rejected, and stock is restored for
// every line in the same transaction.
func (u *OrderUseCase) Cancel(ctx context.Context, orderID int64, reason string, actorID int64) error {
	return u.orders.Cancel(ctx, orderID, actorID, reason)
}

// Stats aggregates order counts and revenue, optionally scoped to a vendor
// and a date range, served through the cache when one is configured.
func (u *OrderUseCase) Stats(ctx context.Context, vendorID *int64, from, to *time.Time) (*model.OrderStats, error) {
	key := statsKey(vendorID, from, to)
	if u.stats != nil {
		if cached, err := u.stats.Get(ctx, key); err == nil && cached != nil {
			return cached, nil
		}
	}

	stats, err := u.orders.Stats(ctx, vendorID, from, to)
	if err != nil {
		return nil, err
	}

	if u.stats != nil {
		_ = u.stats.Set(ctx, key, stats)
	}
	return stats, nil
}

// MarkPayment records the payment collaborator's outcome for the order.
func (u *OrderUseCase) MarkPayment(ctx context.Context, orderID int64, status model.PaymentStatus) error {
	if !status.Valid() {
		return fmt.Errorf("unknown payment status %q", status)
	}
	return u.orders.UpdatePaymentStatus(ctx, orderID, status)
}

// PaymentPending lists orders still awaiting a payment outcome.
func (u *OrderUseCase) PaymentPending(ctx context.Context, limit int) ([]model.Order, error) {
	return u.orders.SelectPaymentPending(ctx, limit)
}

func statsKey(vendorID *int64, from, to *time.Time) string {
	v := int64(0)
	if vendorID != nil {
		v = *vendorID
	}
	f, t := "", ""
	if from != nil {
		f = from.UTC().Format(time.RFC3339)
	}
	if to != nil {
		t = to.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("%d:%s:%s", v, f, t)
}
