package model

import "time"

// TrackingEntry is one immutable audit record of an order's status at a point
// in time. Entries are append-only; the latest entry's status always equals
// the order's current status.
type TrackingEntry struct {
	ID             int64
	OrderID        int64
	Status         OrderStatus
	Note           string
	TrackingNumber *string
	Location       *string
	ActorID        int64
	CreatedAt      time.Time
}
