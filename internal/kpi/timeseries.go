package kpi

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"promolens/models"
)

// RevenuePoint is one day of summed revenue.
type RevenuePoint struct {
	Date    time.Time `json:"date"`
	Revenue float64   `json:"revenue"`
}

// RevenueSeries is the daily revenue line for the filtered window plus
// a fitted linear trend for the chart overlay. The trend is expressed
// against day offsets from the first point.
type RevenueSeries struct {
	Points         []RevenuePoint `json:"points"`
	TrendIntercept float64        `json:"trend_intercept"`
	TrendSlope     float64        `json:"trend_slope"`
}

// RevenueOverTime groups tracking rows by calendar day (UTC) and sums
// revenue. Series with fewer than two points carry a zero trend.
func RevenueOverTime(tracking []models.TrackingEvent) RevenueSeries {
	byDay := make(map[time.Time]float64)
	for _, e := range tracking {
		day := time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, time.UTC)
		byDay[day] += e.Revenue
	}

	points := make([]RevenuePoint, 0, len(byDay))
	for day, rev := range byDay {
		points = append(points, RevenuePoint{Date: day, Revenue: rev})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	series := RevenueSeries{Points: points}
	if len(points) >= 2 {
		xs := make([]float64, len(points))
		ys := make([]float64, len(points))
		first := points[0].Date
		for i, p := range points {
			xs[i] = p.Date.Sub(first).Hours() / 24
			ys[i] = p.Revenue
		}
		series.TrendIntercept, series.TrendSlope = stat.LinearRegression(xs, ys, nil, false)
	}
	return series
}
