package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyStat is one day of the trailing revenue breakdown.
type DailyStat struct {
	Day     time.Time
	Orders  int64
	Revenue decimal.Decimal
}

// OrderStats aggregates order counts and revenue for dashboards. Revenue and
// average exclude cancelled orders.
type OrderStats struct {
	StatusCounts      map[OrderStatus]int64
	TotalOrders       int64
	TotalRevenue      decimal.Decimal
	AverageOrderValue decimal.Decimal
	Daily             []DailyStat
}
