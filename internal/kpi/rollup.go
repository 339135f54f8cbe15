package kpi

import (
	"sort"

	"github.com/montanaflynn/stats"

	"promolens/models"
)

// InfluencerIROAS aggregates the per-(influencer, product) estimate up
// to one row per influencer for the dashboard's second table.
type InfluencerIROAS struct {
	InfluencerID            int     `json:"influencer_id"`
	Name                    string  `json:"name"`
	Category                string  `json:"category"`
	Platform                string  `json:"platform"`
	TotalIncrementalRevenue float64 `json:"total_incremental_revenue"`
	Spend                   float64 `json:"spend"`
	IROAS                   float64 `json:"iroas"`
}

// RollupIROAS groups estimator rows by influencer: incremental revenue
// is summed, spend is the influencer's payout (constant across that
// influencer's rows), and iROAS is the unweighted mean of the per-product
// values. Sorted by iROAS descending, ties by influencer id.
func RollupIROAS(rows []InfluencerProductPerf, influencers []models.Influencer) []InfluencerIROAS {
	roster := make(map[int]models.Influencer, len(influencers))
	for _, inf := range influencers {
		roster[inf.ID] = inf
	}

	incremental := make(map[int]float64)
	iroasValues := make(map[int][]float64)
	spend := make(map[int]float64)
	for _, r := range rows {
		incremental[r.InfluencerID] += r.IncrementalRevenue
		iroasValues[r.InfluencerID] = append(iroasValues[r.InfluencerID], r.IROAS)
		spend[r.InfluencerID] = r.TotalPayout
	}

	out := make([]InfluencerIROAS, 0, len(incremental))
	for id, inc := range incremental {
		inf, ok := roster[id]
		if !ok {
			continue
		}
		mean, err := stats.Mean(iroasValues[id])
		if err != nil {
			mean = 0
		}
		out = append(out, InfluencerIROAS{
			InfluencerID:            id,
			Name:                    inf.Name,
			Category:                inf.Category,
			Platform:                inf.Platform,
			TotalIncrementalRevenue: inc,
			Spend:                   spend[id],
			IROAS:                   mean,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].IROAS != out[j].IROAS {
			return out[i].IROAS > out[j].IROAS
		}
		return out[i].InfluencerID < out[j].InfluencerID
	})
	return out
}
