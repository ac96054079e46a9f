package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/IbrahimUniJos/Kasuwa-sub002/internal/domain/model"
)

// SortKey selects the ordering of search results.
type SortKey string

const (
	SortByDate   SortKey = "order_date"
	SortByTotal  SortKey = "total_amount"
	SortByStatus SortKey = "status"
)

// SearchFilter narrows and pages order searches. Zero values mean "no filter".
type SearchFilter struct {
	NumberContains string
	Status         *model.OrderStatus
	CustomerID     *int64
	VendorID       *int64
	From           *time.Time
	To             *time.Time
	MinTotal       *decimal.Decimal
	MaxTotal       *decimal.Decimal
	SortBy         SortKey
	SortAsc        bool
	Page           int
	PageSize       int
}

// OrderRepository owns every multi-write atomic unit of the order core.
// Create and Cancel span order rows, tracking history and stock counters in a
// single transaction; a failure at any step leaves nothing applied.
type OrderRepository interface {
	// Create persists the draft order: allocates the order number, inserts
	// header, items and the initial tracking entry, and decrements stock for
	// every line. Returns the hydrated order as read back after commit.
	Create(ctx context.Context, draft *model.Order) (*model.Order, error)

	GetByID(ctx context.Context, id int64) (*model.Order, error)
	GetByNumber(ctx context.Context, number string) (*model.Order, error)
	Search(ctx context.Context, filter SearchFilter) ([]model.Order, int64, error)

	// UpdateStatus applies the state machine under a row lock and appends the
	// tracking entry in the same transaction.
	UpdateStatus(ctx context.Context, orderID int64, next model.OrderStatus, entry model.TrackingEntry) (*model.Order, error)

	// Cancel verifies the actor is the order's customer, moves the order to
	// CANCELLED and restores stock for every line, all in one transaction.
	Cancel(ctx context.Context, orderID, customerID int64, reason string) error

	Stats(ctx context.Context, vendorID *int64, from, to *time.Time) (*model.OrderStats, error)

	UpdatePaymentStatus(ctx context.Context, orderID int64, status model.PaymentStatus) error
	SelectPaymentPending(ctx context.Context, limit int) ([]model.Order, error)
}
