package kpi

import (
	"sort"

	"promolens/models"
)

// InfluencerRank is one row of the top-influencers table: tracked
// revenue and orders joined with roster attributes, post engagement and
// payout efficiency.
type InfluencerRank struct {
	InfluencerID   int     `json:"influencer_id"`
	Name           string  `json:"name"`
	Platform       string  `json:"platform"`
	Category       string  `json:"category"`
	FollowerCount  int     `json:"follower_count"`
	Revenue        float64 `json:"revenue"`
	Orders         int     `json:"orders"`
	EngagementRate float64 `json:"engagement_rate"`
	TotalPayout    float64 `json:"total_payout"`
	CostPerOrder   float64 `json:"cost_per_order"`
}

// TopInfluencers ranks influencers with tracked revenue in the filtered
// window, descending by revenue, truncated to topN. A topN larger than
// the number of qualifying influencers returns every row; topN <= 0
// means no truncation.
//
// Engagement rate is sum(likes+comments)/sum(reach) over the
// influencer's filtered posts; an influencer with no posts in the
// window (or zero reach) gets 0. Cost per order divides payout by
// orders+Epsilon, so post-compensated influencers with zero tracked
// orders surface with a huge finite cost instead of an error.
func TopInfluencers(tracking []models.TrackingEvent, posts []models.Post, payouts []models.Payout, influencers []models.Influencer, topN int) []InfluencerRank {
	revenue := make(map[int]float64)
	orders := make(map[int]int)
	for _, e := range tracking {
		if e.Source != models.SourceInfluencer {
			continue
		}
		revenue[e.InfluencerID] += e.Revenue
		orders[e.InfluencerID] += e.OrderFlag
	}

	type engagement struct {
		likes, comments, reach int
	}
	eng := make(map[int]engagement)
	for _, p := range posts {
		e := eng[p.InfluencerID]
		e.likes += p.Likes
		e.comments += p.Comments
		e.reach += p.Reach
		eng[p.InfluencerID] = e
	}

	payoutByInfluencer := make(map[int]float64, len(payouts))
	for _, p := range payouts {
		payoutByInfluencer[p.InfluencerID] = p.TotalPayout
	}

	roster := make(map[int]models.Influencer, len(influencers))
	for _, inf := range influencers {
		roster[inf.ID] = inf
	}

	rows := make([]InfluencerRank, 0, len(revenue))
	for id, rev := range revenue {
		inf, ok := roster[id]
		if !ok {
			// Tracked revenue against an id missing from the roster has
			// nothing to join on; bundle validation rejects this upstream.
			continue
		}
		row := InfluencerRank{
			InfluencerID:  id,
			Name:          inf.Name,
			Platform:      inf.Platform,
			Category:      inf.Category,
			FollowerCount: inf.FollowerCount,
			Revenue:       rev,
			Orders:        orders[id],
			TotalPayout:   payoutByInfluencer[id],
		}
		if e, ok := eng[id]; ok && e.reach > 0 {
			row.EngagementRate = float64(e.likes+e.comments) / float64(e.reach)
		}
		row.CostPerOrder = row.TotalPayout / (float64(row.Orders) + Epsilon)
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Revenue != rows[j].Revenue {
			return rows[i].Revenue > rows[j].Revenue
		}
		return rows[i].InfluencerID < rows[j].InfluencerID
	})

	if topN > 0 && len(rows) > topN {
		rows = rows[:topN]
	}
	return rows
}
