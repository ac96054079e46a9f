package app

import (
	"context"
	"time"

	domainErrors "github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/errors"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/model"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/repository"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/usecase"
)

// PaymentProvider fetches payment outcomes from the external payment system.
type PaymentProvider interface {
	Fetch(ctx context.Context, number string) (*model.PaymentResult, error)
}

// MarketplaceFacade aggregates use cases into a single application surface
// consumed by the HTTP layer and the payment poller.
type MarketplaceFacade struct {
	auth     *usecase.AuthUseCase
	orders   *usecase.OrderUseCase
	payments PaymentProvider
}

// NewMarketplaceFacade constructs the facade.
func NewMarketplaceFacade(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase, payments PaymentProvider) *MarketplaceFacade {
	return &MarketplaceFacade{auth: auth, orders: orders, payments: payments}
}

func (f *MarketplaceFacade) Register(ctx context.Context, login, password string, role model.Role) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password, role)
	return token, err
}

func (f *MarketplaceFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *MarketplaceFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *MarketplaceFacade) PlaceOrder(ctx context.Context, input usecase.CreateOrderInput) (*model.Order, error) {
	return f.orders.Create(ctx, input)
}

func (f *MarketplaceFacade) Order(ctx context.Context, orderID, actorID int64) (*model.Order, error) {
	return f.orders.Get(ctx, orderID, &actorID)
}

func (f *MarketplaceFacade) Orders(ctx context.Context, filter repository.SearchFilter, actorID int64) ([]model.Order, int64, error) {
	return f.orders.Search(ctx, filter, &actorID)
}

func (f *MarketplaceFacade) ChangeOrderStatus(ctx context.Context, orderID int64, next model.OrderStatus, actorID int64, input usecase.UpdateStatusInput) (*model.Order, error) {
	return f.orders.UpdateStatus(ctx, orderID, next, actorID, input)
}

func (f *MarketplaceFacade) CancelOrder(ctx context.Context, orderID int64, reason string, actorID int64) error {
	return f.orders.Cancel(ctx, orderID, reason, actorID)
}

// OrderStats serves aggregated order statistics. Vendors are always scoped to
// their own sales, admins may request any vendor or the whole marketplace.
func (f *MarketplaceFacade) OrderStats(ctx context.Context, actorID int64, vendorID *int64, from, to *time.Time) (*model.OrderStats, error) {
	usr, err := f.auth.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	switch usr.Role {
	case model.RoleAdmin:
	case model.RoleVendor:
		vendorID = &actorID
	default:
		return nil, domainErrors.ErrForbidden
	}

	return f.orders.Stats(ctx, vendorID, from, to)
}

func (f *MarketplaceFacade) OrdersAwaitingPayment(ctx context.Context, limit int) ([]model.Order, error) {
	return f.orders.PaymentPending(ctx, limit)
}

func (f *MarketplaceFacade) CheckPayment(ctx context.Context, number string) (*model.PaymentResult, error) {
	return f.payments.Fetch(ctx, number)
}

func (f *MarketplaceFacade) RecordPayment(ctx context.Context, orderID int64, status model.PaymentStatus) error {
	return f.orders.MarkPayment(ctx, orderID, status)
}
