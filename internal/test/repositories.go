package test

import (
	"context"
	"time"

	domainErrors "github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/errors"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/model"
	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash string, role model.Role) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Login: login, PasswordHash: passwordHash, Role: role}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// Seed registers a user with a fixed identifier and role.
func (s *UserRepositoryStub) Seed(id int64, login string, role model.Role) *model.User {
	user := &model.User{ID: id, Login: login, PasswordHash: "hash:pass", Role: role}
	s.Users[login] = user
	s.ByID[id] = user
	if id >= s.Next {
		s.Next = id + 1
	}
	return user
}

// StatusUpdateCall stores information about UpdateStatus invocations.
type StatusUpdateCall struct {
	OrderID int64
	Status  model.OrderStatus
	Entry   model.TrackingEntry
}

// PaymentUpdateCall stores information about UpdatePaymentStatus invocations.
type PaymentUpdateCall struct {
	OrderID int64
	Status  model.PaymentStatus
}

// CancelCall stores information about Cancel invocations.
type CancelCall struct {
	OrderID    int64
	CustomerID int64
	Reason     string
}

// OrderRepositoryStub allows tests to customize behaviour.
type OrderRepositoryStub struct {
	CreateFn               func(context.Context, *model.Order) (*model.Order, error)
	GetByIDFn              func(context.Context, int64) (*model.Order, error)
	GetByNumberFn          func(context.Context, string) (*model.Order, error)
	SearchFn               func(context.Context, repository.SearchFilter) ([]model.Order, int64, error)
	UpdateStatusFn         func(context.Context, int64, model.OrderStatus, model.TrackingEntry) (*model.Order, error)
	CancelFn               func(context.Context, int64, int64, string) error
	StatsFn                func(context.Context, *int64, *time.Time, *time.Time) (*model.OrderStats, error)
	UpdatePaymentStatusFn  func(context.Context, int64, model.PaymentStatus) error
	SelectPaymentPendingFn func(context.Context, int) ([]model.Order, error)

	Orders       []model.Order
	Pending      []model.Order
	Created      []*model.Order
	StatusCalls  []StatusUpdateCall
	PaymentCalls []PaymentUpdateCall
	CancelCalls  []CancelCall
}

// Create records the draft and returns it with an identifier assigned.
func (s *OrderRepositoryStub) Create(ctx context.Context, draft *model.Order) (*model.Order, error) {
	s.Created = append(s.Created, draft)
	if s.CreateFn != nil {
		return s.CreateFn(ctx, draft)
	}
	created := *draft
	created.ID = int64(len(s.Created))
	created.Number = "ORD-20250101-0001"
	return &created, nil
}

// GetByID returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, orderID)
	}
	for _, o := range s.Orders {
		if o.ID == orderID {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// GetByNumber returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	if s.GetByNumberFn != nil {
		return s.GetByNumberFn(ctx, number)
	}
	for _, o := range s.Orders {
		if o.Number == number {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// Search returns configured orders with their count.
func (s *OrderRepositoryStub) Search(ctx context.Context, filter repository.SearchFilter) ([]model.Order, int64, error) {
	if s.SearchFn != nil {
		return s.SearchFn(ctx, filter)
	}
	return s.Orders, int64(len(s.Orders)), nil
}

// UpdateStatus records the transition and returns the updated order.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, orderID int64, next model.OrderStatus, entry model.TrackingEntry) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, orderID, next, entry)
	}
	s.StatusCalls = append(s.StatusCalls, StatusUpdateCall{OrderID: orderID, Status: next, Entry: entry})
	order, err := s.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Status = next
	return order, nil
}

// Cancel records cancellation requests.
func (s *OrderRepositoryStub) Cancel(ctx context.Context, orderID, customerID int64, reason string) error {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, orderID, customerID, reason)
	}
	s.CancelCalls = append(s.CancelCalls, CancelCall{OrderID: orderID, CustomerID: customerID, Reason: reason})
	return nil
}

// Stats returns configured statistics or an empty aggregate.
func (s *OrderRepositoryStub) Stats(ctx context.Context, vendorID *int64, from, to *time.Time) (*model.OrderStats, error) {
	if s.StatsFn != nil {
		return s.StatsFn(ctx, vendorID, from, to)
	}
	return &model.OrderStats{StatusCounts: map[model.OrderStatus]int64{}}, nil
}

// UpdatePaymentStatus records payment outcome invocations.
func (s *OrderRepositoryStub) UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) error {
	if s.UpdatePaymentStatusFn != nil {
		return s.UpdatePaymentStatusFn(ctx, orderID, status)
	}
	s.PaymentCalls = append(s.PaymentCalls, PaymentUpdateCall{OrderID: orderID, Status: status})
	return nil
}

// SelectPaymentPending returns queued orders awaiting payment.
func (s *OrderRepositoryStub) SelectPaymentPending(ctx context.Context, limit int) ([]model.Order, error) {
	if s.SelectPaymentPendingFn != nil {
		return s.SelectPaymentPendingFn(ctx, limit)
	}
	return s.Pending, nil
}

// CatalogStub serves products and variants from in-memory maps.
type CatalogStub struct {
	Products     map[int64]*model.Product
	Variants     map[int64]*model.Variant
	GetProductFn func(context.Context, int64) (*model.Product, error)
	GetVariantFn func(context.Context, int64, int64) (*model.Variant, error)
}

// NewCatalogStub constructs the stub with initialized maps.
func NewCatalogStub() *CatalogStub {
	return &CatalogStub{
		Products: make(map[int64]*model.Product),
		Variants: make(map[int64]*model.Variant),
	}
}

// GetProduct returns a stored product or a typed not-found error.
func (s *CatalogStub) GetProduct(ctx context.Context, productID int64) (*model.Product, error) {
	if s.GetProductFn != nil {
		return s.GetProductFn(ctx, productID)
	}
	if product, ok := s.Products[productID]; ok {
		return product, nil
	}
	return nil, &domainErrors.ProductNotFoundError{ProductID: productID}
}

// GetVariant returns a stored variant or a typed not-found error.
func (s *CatalogStub) GetVariant(ctx context.Context, productID, variantID int64) (*model.Variant, error) {
	if s.GetVariantFn != nil {
		return s.GetVariantFn(ctx, productID, variantID)
	}
	if variant, ok := s.Variants[variantID]; ok && variant.ProductID == productID {
		return variant, nil
	}
	return nil, &domainErrors.VariantNotFoundError{ProductID: productID, VariantID: variantID}
}

// StockStub reports availability from an in-memory map keyed by product.
type StockStub struct {
	Infos          map[int64]model.StockInfo
	AvailabilityFn func(context.Context, int64, *int64) (model.StockInfo, error)
}

// Availability returns the configured stock snapshot. Unknown products read
// as unlimited stock so tests only configure what they constrain.
func (s *StockStub) Availability(ctx context.Context, productID int64, variantID *int64) (model.StockInfo, error) {
	if s.AvailabilityFn != nil {
		return s.AvailabilityFn(ctx, productID, variantID)
	}
	if info, ok := s.Infos[productID]; ok {
		return info, nil
	}
	return model.StockInfo{TrackQuantity: false}, nil
}
