package kpi

import (
	"sort"

	"github.com/montanaflynn/stats"

	"promolens/models"
)

// ProductBaseline is the organic behavior of one product inside the
// filtered window: how many distinct users touched it without influencer
// or paid exposure, and what they spent.
type ProductBaseline struct {
	Product        string  `json:"product"`
	OrganicUsers   int     `json:"organic_users"`
	OrganicRevenue float64 `json:"organic_revenue"`
	RevenuePerUser float64 `json:"revenue_per_user"`
}

// InfluencerProductPerf is one treatment-group row of the incremental
// ROAS estimate: an (influencer, product) pair with its measured revenue,
// the counterfactual baseline and the spend-normalized lift.
type InfluencerProductPerf struct {
	InfluencerID            int     `json:"influencer_id"`
	Product                 string  `json:"product"`
	InfluencerUsers         int     `json:"influencer_users"`
	InfluencerRevenue       float64 `json:"influencer_revenue"`
	RevenuePerUser          float64 `json:"revenue_per_user"`
	ExpectedBaselineRevenue float64 `json:"expected_baseline_revenue"`
	IncrementalRevenue      float64 `json:"incremental_revenue"`
	TotalPayout             float64 `json:"total_payout"`
	IROAS                   float64 `json:"iroas"`
}

// OrganicBaseline groups organic tracking rows by product and derives
// the expected per-user revenue absent influencer exposure.
//
// A product whose organic rows carry zero distinct users gets an
// explicit RevenuePerUser of 0 rather than a NaN: "no baseline signal"
// must not poison the downstream epsilon-guarded division.
func OrganicBaseline(tracking []models.TrackingEvent) map[string]ProductBaseline {
	users := make(map[string]map[int]bool)
	revenue := make(map[string]float64)
	for _, e := range tracking {
		if e.Source != models.SourceOrganic {
			continue
		}
		if users[e.Product] == nil {
			users[e.Product] = make(map[int]bool)
		}
		users[e.Product][e.UserID] = true
		revenue[e.Product] += e.Revenue
	}

	baseline := make(map[string]ProductBaseline, len(users))
	for product, seen := range users {
		b := ProductBaseline{
			Product:        product,
			OrganicUsers:   len(seen),
			OrganicRevenue: revenue[product],
		}
		if b.OrganicUsers > 0 {
			b.RevenuePerUser = b.OrganicRevenue / float64(b.OrganicUsers)
		}
		baseline[product] = b
	}
	return baseline
}

type influencerProductKey struct {
	influencerID int
	product      string
}

// EstimateIROAS estimates the revenue each influencer generated above
// the organic baseline, normalized by that influencer's payout.
//
// Organic rows form the per-product baseline, influencer rows the
// treatment groups; paid_ad rows are excluded entirely. Both joins are
// left joins with defined defaults: a product missing from the baseline
// contributes zero expected revenue (the full influencer revenue counts
// as incremental), and an influencer missing from the payout table keeps
// its row with zero spend. iROAS divides by payout+Epsilon with no
// alternate zero branch, so zero-spend rows come out large but finite.
//
// The returned overall value is the unweighted arithmetic mean of the
// per-row iROAS values: a row for a low-volume product line weighs the
// same as one for a flagship product. The mean of zero rows is 0.
func EstimateIROAS(tracking []models.TrackingEvent, payouts []models.Payout) ([]InfluencerProductPerf, float64) {
	baseline := OrganicBaseline(tracking)

	users := make(map[influencerProductKey]map[int]bool)
	revenue := make(map[influencerProductKey]float64)
	for _, e := range tracking {
		if e.Source != models.SourceInfluencer {
			continue
		}
		k := influencerProductKey{e.InfluencerID, e.Product}
		if users[k] == nil {
			users[k] = make(map[int]bool)
		}
		users[k][e.UserID] = true
		revenue[k] += e.Revenue
	}

	payoutByInfluencer := make(map[int]float64, len(payouts))
	for _, p := range payouts {
		payoutByInfluencer[p.InfluencerID] = p.TotalPayout
	}

	rows := make([]InfluencerProductPerf, 0, len(users))
	for k, seen := range users {
		row := InfluencerProductPerf{
			InfluencerID:      k.influencerID,
			Product:           k.product,
			InfluencerUsers:   len(seen),
			InfluencerRevenue: revenue[k],
		}
		if b, ok := baseline[k.product]; ok {
			row.RevenuePerUser = b.RevenuePerUser
		}
		row.ExpectedBaselineRevenue = row.RevenuePerUser * float64(row.InfluencerUsers)
		row.IncrementalRevenue = row.InfluencerRevenue - row.ExpectedBaselineRevenue
		row.TotalPayout = payoutByInfluencer[k.influencerID]
		row.IROAS = row.IncrementalRevenue / (row.TotalPayout + Epsilon)
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].InfluencerID != rows[j].InfluencerID {
			return rows[i].InfluencerID < rows[j].InfluencerID
		}
		return rows[i].Product < rows[j].Product
	})

	return rows, meanIROAS(rows)
}

func meanIROAS(rows []InfluencerProductPerf) float64 {
	if len(rows) == 0 {
		return 0
	}
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = r.IROAS
	}
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}
