package dto

import "github.com/shopspring/decimal"

// DailyStatResponse is one day of the recent breakdown.
type DailyStatResponse struct {
	Day     string          `json:"day"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// StatsResponse aggregates order counts and revenue.
type StatsResponse struct {
	StatusCounts      map[string]int64    `json:"status_counts"`
	TotalOrders       int64               `json:"total_orders"`
	TotalRevenue      decimal.Decimal     `json:"total_revenue"`
	AverageOrderValue decimal.Decimal     `json:"average_order_value"`
	Daily             []DailyStatResponse `json:"daily"`
}
