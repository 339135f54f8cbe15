// Package report assembles one dashboard view over the loaded bundle:
// it applies the requested filter, runs every KPI computation, and
// stamps the result as an immutable snapshot that the UI renders and
// the exporters serialize.
package report

import (
	"time"

	"github.com/google/uuid"

	"promolens/internal/kpi"
	"promolens/models"
)

// Snapshot is one fully computed report for a filter window. Snapshots
// are value objects: building one never mutates the bundle, and equal
// inputs produce equal figures (the ID and timestamp aside).
type Snapshot struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`

	Summary        kpi.Summary                 `json:"summary"`
	OverallIROAS   float64                     `json:"overall_iroas"`
	TopInfluencers []kpi.InfluencerRank        `json:"top_influencers"`
	IROASRows      []kpi.InfluencerProductPerf `json:"iroas_rows"`
	Rollup         []kpi.InfluencerIROAS       `json:"iroas_rollup"`
	Revenue        kpi.RevenueSeries           `json:"revenue"`
}

// Build filters the bundle and runs the full KPI pipeline. The payout
// table deliberately stays unfiltered: spend covers the whole roster
// whatever window is selected.
func Build(b *models.Bundle, f kpi.Filter, topN int) *Snapshot {
	tracking := f.Tracking(b.Tracking, b.Influencers)
	posts := f.Posts(b.Posts, b.Influencers)

	rows, overall := kpi.EstimateIROAS(tracking, b.Payouts)

	return &Snapshot{
		ID:             uuid.NewString(),
		GeneratedAt:    time.Now().UTC(),
		Summary:        kpi.Summarize(tracking, b.Payouts),
		OverallIROAS:   overall,
		TopInfluencers: kpi.TopInfluencers(tracking, posts, b.Payouts, b.Influencers, topN),
		IROASRows:      rows,
		Rollup:         kpi.RollupIROAS(rows, b.Influencers),
		Revenue:        kpi.RevenueOverTime(tracking),
	}
}
