package handlers

import (
	"context"
	"time"

	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/model"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/repository"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string, role model.Role) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, input usecase.CreateOrderInput) (*model.Order, error)
	Order(ctx context.Context, orderID, actorID int64) (*model.Order, error)
	Orders(ctx context.Context, filter repository.SearchFilter, actorID int64) ([]model.Order, int64, error)
	ChangeOrderStatus(ctx context.Context, orderID int64, next model.OrderStatus, actorID int64, input usecase.UpdateStatusInput) (*model.Order, error)
	CancelOrder(ctx context.Context, orderID int64, reason string, actorID int64) error
	OrderStats(ctx context.Context, actorID int64, vendorID *int64, from, to *time.Time) (*model.OrderStats, error)
}

// MarketplaceFacade aggregates the full set of operations used across handlers.
type MarketplaceFacade interface {
	AuthFacade
	OrderFacade
}
