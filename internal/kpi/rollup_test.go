package kpi

import (
	"testing"

	"promolens/models"
)

func TestRollupIROAS_GroupsPerInfluencer(t *testing.T) {
	influencers := []models.Influencer{
		{ID: 1, Name: "Influencer_1", Category: "Fitness", Platform: "Instagram"},
		{ID: 2, Name: "Influencer_2", Category: "Nutrition", Platform: "YouTube"},
	}
	rows := []InfluencerProductPerf{
		{InfluencerID: 1, Product: "Protein", IncrementalRevenue: 500, TotalPayout: 1000, IROAS: 0.5},
		{InfluencerID: 1, Product: "Snack", IncrementalRevenue: -100, TotalPayout: 1000, IROAS: -0.1},
		{InfluencerID: 2, Product: "Protein", IncrementalRevenue: 900, TotalPayout: 300, IROAS: 3},
	}

	out := RollupIROAS(rows, influencers)

	if len(out) != 2 {
		t.Fatalf("expected 2 rollup rows, got %d", len(out))
	}
	// Sorted by iROAS descending: influencer 2 first.
	if out[0].InfluencerID != 2 || out[0].IROAS != 3 {
		t.Errorf("expected influencer 2 first with iROAS 3, got %+v", out[0])
	}
	r1 := out[1]
	if r1.TotalIncrementalRevenue != 400 {
		t.Errorf("expected summed incremental 400, got %v", r1.TotalIncrementalRevenue)
	}
	if r1.Spend != 1000 {
		t.Errorf("spend is the influencer payout, got %v", r1.Spend)
	}
	if !almostEqual(r1.IROAS, 0.2) {
		t.Errorf("expected mean iROAS 0.2, got %v", r1.IROAS)
	}
	if r1.Name != "Influencer_1" || r1.Category != "Fitness" {
		t.Errorf("roster attributes not joined: %+v", r1)
	}
}

func TestRollupIROAS_Empty(t *testing.T) {
	if out := RollupIROAS(nil, nil); len(out) != 0 {
		t.Errorf("expected empty rollup, got %d rows", len(out))
	}
}
