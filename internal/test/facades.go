package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/model"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/repository"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/usecase"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	PlaceFn        func(context.Context, usecase.CreateOrderInput) (*model.Order, error)
	OrderFn        func(context.Context, int64, int64) (*model.Order, error)
	OrdersFn       func(context.Context, repository.SearchFilter, int64) ([]model.Order, int64, error)
	ChangeStatusFn func(context.Context, int64, model.OrderStatus, int64, usecase.UpdateStatusInput) (*model.Order, error)
	CancelFn       func(context.Context, int64, string, int64) error
	StatsFn        func(context.Context, int64, *int64, *time.Time, *time.Time) (*model.OrderStats, error)
}

// PlaceOrder delegates to the override or returns a default pending order.
func (s OrderFacadeStub) PlaceOrder(ctx context.Context, input usecase.CreateOrderInput) (*model.Order, error) {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, input)
	}
	return &model.Order{ID: 1, Number: "ORD-20250101-0001", CustomerID: input.CustomerID, Status: model.OrderStatusPending}, nil
}

// Order returns the configured order for given identifier.
func (s OrderFacadeStub) Order(ctx context.Context, orderID, actorID int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, orderID, actorID)
	}
	return &model.Order{ID: orderID, Number: "ORD-20250101-0001", CustomerID: actorID}, nil
}

// Orders returns a predefined listing.
func (s OrderFacadeStub) Orders(ctx context.Context, filter repository.SearchFilter, actorID int64) ([]model.Order, int64, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, filter, actorID)
	}
	return []model.Order{{ID: 1, Number: "ORD-20250101-0001"}}, 1, nil
}

// ChangeOrderStatus executes configured transition handler.
func (s OrderFacadeStub) ChangeOrderStatus(ctx context.Context, orderID int64, next model.OrderStatus, actorID int64, input usecase.UpdateStatusInput) (*model.Order, error) {
	if s.ChangeStatusFn != nil {
		return s.ChangeStatusFn(ctx, orderID, next, actorID, input)
	}
	return &model.Order{ID: orderID, Status: next}, nil
}

// CancelOrder executes configured cancellation handler.
func (s OrderFacadeStub) CancelOrder(ctx context.Context, orderID int64, reason string, actorID int64) error {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, orderID, reason, actorID)
	}
	return nil
}

// OrderStats returns configured statistics.
func (s OrderFacadeStub) OrderStats(ctx context.Context, actorID int64, vendorID *int64, from, to *time.Time) (*model.OrderStats, error) {
	if s.StatsFn != nil {
		return s.StatsFn(ctx, actorID, vendorID, from, to)
	}
	return &model.OrderStats{StatusCounts: map[model.OrderStatus]int64{}}, nil
}

// WorkerFacadeStub mimics poller interactions with the marketplace facade.
type WorkerFacadeStub struct {
	Orders   [][]model.Order
	OrdersFn func(context.Context, int) ([]model.Order, error)
	CheckFn  func(context.Context, string) (*model.PaymentResult, error)
	RecordFn func(context.Context, int64, model.PaymentStatus) error
	Records  []PaymentUpdateCall

	mu              sync.Mutex
	ordersCallCount int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// OrdersAwaitingPayment returns batches from configured queue.
func (s *WorkerFacadeStub) OrdersAwaitingPayment(ctx context.Context, limit int) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, limit)
	}
	call := atomic.AddInt32(&s.ordersCallCount, 1)
	if int(call) <= len(s.Orders) {
		return s.Orders[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// CheckPayment returns configured payment data.
func (s *WorkerFacadeStub) CheckPayment(ctx context.Context, number string) (*model.PaymentResult, error) {
	if s.CheckFn != nil {
		return s.CheckFn(ctx, number)
	}
	return &model.PaymentResult{OrderNumber: number, Status: model.PaymentStatusPaid}, nil
}

// RecordPayment records update requests.
func (s *WorkerFacadeStub) RecordPayment(ctx context.Context, orderID int64, status model.PaymentStatus) error {
	if s.RecordFn != nil {
		return s.RecordFn(ctx, orderID, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Records = append(s.Records, PaymentUpdateCall{OrderID: orderID, Status: status})
	return nil
}

// PaymentProviderStub fetches payment information for tests.
type PaymentProviderStub struct {
	FetchFn func(context.Context, string) (*model.PaymentResult, error)
	Result  *model.PaymentResult
	Err     error
}

// Fetch returns configured response or a default paid result.
func (s PaymentProviderStub) Fetch(ctx context.Context, number string) (*model.PaymentResult, error) {
	if s.FetchFn != nil {
		return s.FetchFn(ctx, number)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Result != nil {
		return s.Result, nil
	}
	return &model.PaymentResult{OrderNumber: number, Status: model.PaymentStatusPaid}, nil
}

// PolicyStub implements the access policy with overridable checks. The zero
// value allows everything.
type PolicyStub struct {
	CanViewFn   func(context.Context, int64, *model.Order) (bool, error)
	CanUpdateFn func(context.Context, int64, *model.Order) (bool, error)
	ScopeFn     func(context.Context, int64, *repository.SearchFilter) error
}

// CanViewOrder delegates to the override or allows access.
func (s PolicyStub) CanViewOrder(ctx context.Context, actorID int64, order *model.Order) (bool, error) {
	if s.CanViewFn != nil {
		return s.CanViewFn(ctx, actorID, order)
	}
	return true, nil
}

// CanUpdateStatus delegates to the override or allows access.
func (s PolicyStub) CanUpdateStatus(ctx context.Context, actorID int64, order *model.Order) (bool, error) {
	if s.CanUpdateFn != nil {
		return s.CanUpdateFn(ctx, actorID, order)
	}
	return true, nil
}

// ScopeSearch delegates to the override or leaves the filter untouched.
func (s PolicyStub) ScopeSearch(ctx context.Context, actorID int64, filter *repository.SearchFilter) error {
	if s.ScopeFn != nil {
		return s.ScopeFn(ctx, actorID, filter)
	}
	return nil
}

// StatsCacheStub is an in-memory stats cache recording accesses.
type StatsCacheStub struct {
	Entries map[string]*model.OrderStats
	Gets    []string
	Sets    []string
	GetErr  error
	SetErr  error
}

// NewStatsCacheStub constructs the stub with an initialized map.
func NewStatsCacheStub() *StatsCacheStub {
	return &StatsCacheStub{Entries: make(map[string]*model.OrderStats)}
}

// Get records the lookup and returns the stored entry, nil on miss.
func (s *StatsCacheStub) Get(ctx context.Context, key string) (*model.OrderStats, error) {
	s.Gets = append(s.Gets, key)
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	return s.Entries[key], nil
}

// Set records the write and stores the entry.
func (s *StatsCacheStub) Set(ctx context.Context, key string, stats *model.OrderStats) error {
	s.Sets = append(s.Sets, key)
	if s.SetErr != nil {
		return s.SetErr
	}
	s.Entries[key] = stats
	return nil
}
