// Package kpi computes campaign performance metrics over the loaded
// tables: blended ROAS, the incremental-ROAS estimate against the
// organic baseline, influencer rankings and the revenue time series.
//
// Every function here is pure: it reads its inputs, allocates its own
// accumulators and returns fresh values. Repeated calls with the same
// inputs return the same results, so callers are free to cache.
package kpi

import (
	"promolens/models"
)

// Epsilon is the additive guard used on divisors that may legitimately
// be zero (spend, order counts). Keeping the division unconditional
// yields a large-but-finite ratio instead of a sentinel value.
const Epsilon = 1e-9

// Summary holds the headline KPIs for the filtered window.
type Summary struct {
	TotalRevenue float64 `json:"total_revenue"`
	TotalOrders  int     `json:"total_orders"`
	TotalSpend   float64 `json:"total_spend"`
	ROAS         float64 `json:"roas"`
}

// Summarize computes blended revenue, orders, spend and ROAS.
//
// Revenue and orders are summed over every tracking row regardless of
// source — organic and paid traffic count toward the numerator, so this
// is an efficiency ratio, not attribution. Spend is summed over the
// full payout table, not just influencers present in the window.
func Summarize(tracking []models.TrackingEvent, payouts []models.Payout) Summary {
	var s Summary
	for _, e := range tracking {
		s.TotalRevenue += e.Revenue
		s.TotalOrders += e.OrderFlag
	}
	for _, p := range payouts {
		s.TotalSpend += p.TotalPayout
	}
	if s.TotalSpend > 0 {
		s.ROAS = s.TotalRevenue / s.TotalSpend
	}
	return s
}
