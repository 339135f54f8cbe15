package kpi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"promolens/models"
)

func rankerFixture() ([]models.TrackingEvent, []models.Post, []models.Payout, []models.Influencer) {
	influencers := []models.Influencer{
		{ID: 1, Name: "Influencer_1", Category: "Fitness", Gender: "F", FollowerCount: 120000, Platform: "Instagram"},
		{ID: 2, Name: "Influencer_2", Category: "Nutrition", Gender: "M", FollowerCount: 40000, Platform: "YouTube"},
		{ID: 3, Name: "Influencer_3", Category: "Wellness", Gender: "F", FollowerCount: 900000, Platform: "Twitter"},
	}
	tracking := []models.TrackingEvent{
		influencerEvent(1, 10, "Protein", 1, 999),
		influencerEvent(1, 11, "Protein", 1, 1499),
		influencerEvent(2, 12, "Snack", 1, 499),
		influencerEvent(3, 13, "Supplement", 0, 0),
		organicEvent(14, "Protein", 1, 999), // never ranked
	}
	posts := []models.Post{
		{PostID: 1, InfluencerID: 1, Platform: "Instagram", Date: day(1), Reach: 10000, Likes: 400, Comments: 100},
		{PostID: 2, InfluencerID: 1, Platform: "Instagram", Date: day(2), Reach: 10000, Likes: 300, Comments: 200},
		{PostID: 3, InfluencerID: 2, Platform: "YouTube", Date: day(1), Reach: 5000, Likes: 100, Comments: 50},
	}
	payouts := []models.Payout{
		{InfluencerID: 1, Basis: models.BasisOrder, Rate: 500, OrdersCount: 2, TotalPayout: 1000},
		{InfluencerID: 2, Basis: models.BasisPost, Rate: 2500, OrdersCount: 1, TotalPayout: 2500},
		{InfluencerID: 3, Basis: models.BasisPost, Rate: 8000, OrdersCount: 1, TotalPayout: 8000},
	}
	return tracking, posts, payouts, influencers
}

func TestTopInfluencers_RankingAndJoins(t *testing.T) {
	tracking, posts, payouts, influencers := rankerFixture()

	rows := TopInfluencers(tracking, posts, payouts, influencers, 10)

	assert.Len(t, rows, 3, "every influencer with tracked revenue ranks, N beyond that pads nothing")
	assert.Equal(t, 1, rows[0].InfluencerID, "highest revenue first")
	assert.Equal(t, 2498.0, rows[0].Revenue)
	assert.Equal(t, 2, rows[0].Orders)
	assert.Equal(t, "Influencer_1", rows[0].Name)
	assert.Equal(t, "Instagram", rows[0].Platform)

	// Engagement: (400+100+300+200) / (10000+10000)
	assert.InDelta(t, 0.05, rows[0].EngagementRate, 1e-12)
	// Cost per order: 1000 / (2 + eps)
	assert.InDelta(t, 500.0, rows[0].CostPerOrder, 1e-6)
}

func TestTopInfluencers_ZeroOrdersPostBasisPayout(t *testing.T) {
	tracking, posts, payouts, influencers := rankerFixture()

	rows := TopInfluencers(tracking, posts, payouts, influencers, 10)

	// Influencer 3 is paid per post: payout stays 8000 despite zero
	// tracked orders, and cost per order is huge but finite.
	var ranked *InfluencerRank
	for i := range rows {
		if rows[i].InfluencerID == 3 {
			ranked = &rows[i]
		}
	}
	if assert.NotNil(t, ranked, "zero-order influencer with revenue rows must still rank") {
		assert.Equal(t, 8000.0, ranked.TotalPayout, "post-basis payout must not be zeroed by zero orders")
		assert.False(t, math.IsInf(ranked.CostPerOrder, 0))
		assert.False(t, math.IsNaN(ranked.CostPerOrder))
		assert.Greater(t, ranked.CostPerOrder, 1e12)
		assert.Zero(t, ranked.EngagementRate, "no posts in window yields zero engagement")
	}
}

func TestTopInfluencers_Truncation(t *testing.T) {
	tracking, posts, payouts, influencers := rankerFixture()

	rows := TopInfluencers(tracking, posts, payouts, influencers, 2)

	assert.Len(t, rows, 2)
	assert.Equal(t, []int{1, 2}, []int{rows[0].InfluencerID, rows[1].InfluencerID})
}

func TestTopInfluencers_EmptyTracking(t *testing.T) {
	_, posts, payouts, influencers := rankerFixture()

	rows := TopInfluencers(nil, posts, payouts, influencers, 10)

	assert.Empty(t, rows)
}
