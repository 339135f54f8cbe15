package kpi

import (
	"math"
	"testing"

	"promolens/models"
)

const floatTolerance = 1e-12

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= floatTolerance
}

// The reference scenario: product "Protein" has an organic baseline of 2
// users and 1000 revenue (500 per user); influencer 1 reached 3 distinct
// users for 2000 revenue on a 1000 payout. Expected baseline 1500,
// incremental 500, iROAS 500/(1000+1e-9).
func TestEstimateIROAS_ReferenceScenario(t *testing.T) {
	tracking := []models.TrackingEvent{
		organicEvent(10, "Protein", 1, 400),
		organicEvent(11, "Protein", 1, 600),
		influencerEvent(1, 20, "Protein", 1, 800),
		influencerEvent(1, 21, "Protein", 1, 700),
		influencerEvent(1, 22, "Protein", 1, 500),
	}
	payouts := []models.Payout{
		{InfluencerID: 1, Basis: models.BasisOrder, Rate: 500, OrdersCount: 2, TotalPayout: 1000},
	}

	rows, overall := EstimateIROAS(tracking, payouts)

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.InfluencerUsers != 3 {
		t.Errorf("expected 3 distinct users, got %d", r.InfluencerUsers)
	}
	if r.InfluencerRevenue != 2000 {
		t.Errorf("expected influencer revenue 2000, got %f", r.InfluencerRevenue)
	}
	if r.RevenuePerUser != 500 {
		t.Errorf("expected revenue per user 500, got %f", r.RevenuePerUser)
	}
	if r.ExpectedBaselineRevenue != 1500 {
		t.Errorf("expected baseline revenue 1500, got %f", r.ExpectedBaselineRevenue)
	}
	if r.IncrementalRevenue != 500 {
		t.Errorf("expected incremental revenue 500, got %f", r.IncrementalRevenue)
	}
	want := 500 / (1000 + Epsilon) // ~0.49999999995
	if !almostEqual(r.IROAS, want) {
		t.Errorf("expected iROAS %v, got %v", want, r.IROAS)
	}
	if !almostEqual(overall, want) {
		t.Errorf("overall mean over one row must equal that row, got %v", overall)
	}
}

// Verifies property 2 of the contract on a multi-product, multi-influencer
// window: incremental = revenue - rev_per_user(product) * users for every row.
func TestEstimateIROAS_IncrementalFormula(t *testing.T) {
	tracking := []models.TrackingEvent{
		organicEvent(1, "Protein", 1, 1000),
		organicEvent(2, "Protein", 0, 0),
		organicEvent(3, "Snack", 1, 499),
		influencerEvent(7, 10, "Protein", 1, 999),
		influencerEvent(7, 11, "Snack", 1, 499),
		influencerEvent(8, 12, "Snack", 0, 0),
	}
	payouts := []models.Payout{
		{InfluencerID: 7, Basis: models.BasisPost, Rate: 100, TotalPayout: 200},
		{InfluencerID: 8, Basis: models.BasisOrder, Rate: 50, TotalPayout: 100},
	}

	rows, _ := EstimateIROAS(tracking, payouts)

	baseline := OrganicBaseline(tracking)
	for _, r := range rows {
		rpu := 0.0
		if b, ok := baseline[r.Product]; ok && b.OrganicUsers > 0 {
			rpu = b.OrganicRevenue / float64(b.OrganicUsers)
		}
		want := r.InfluencerRevenue - rpu*float64(r.InfluencerUsers)
		if !almostEqual(r.IncrementalRevenue, want) {
			t.Errorf("row %d/%s: incremental %v, want %v", r.InfluencerID, r.Product, r.IncrementalRevenue, want)
		}
		wantIROAS := r.IncrementalRevenue / (r.TotalPayout + Epsilon)
		if !almostEqual(r.IROAS, wantIROAS) {
			t.Errorf("row %d/%s: iROAS %v, want exact epsilon division %v", r.InfluencerID, r.Product, r.IROAS, wantIROAS)
		}
	}
}

func TestEstimateIROAS_NoOrganicBaselineForProduct(t *testing.T) {
	// "Supplement" never appears organically: expected baseline must be 0
	// and the full influencer revenue counts as incremental.
	tracking := []models.TrackingEvent{
		organicEvent(1, "Protein", 1, 500),
		influencerEvent(3, 10, "Supplement", 1, 1499),
	}
	payouts := []models.Payout{
		{InfluencerID: 3, Basis: models.BasisOrder, Rate: 100, TotalPayout: 300},
	}

	rows, _ := EstimateIROAS(tracking, payouts)

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.RevenuePerUser != 0 || r.ExpectedBaselineRevenue != 0 {
		t.Errorf("missing baseline must contribute zero, got rpu=%v expected=%v", r.RevenuePerUser, r.ExpectedBaselineRevenue)
	}
	if r.IncrementalRevenue != 1499 {
		t.Errorf("expected full revenue as incremental, got %v", r.IncrementalRevenue)
	}
}

func TestEstimateIROAS_MissingPayoutKeepsRow(t *testing.T) {
	tracking := []models.TrackingEvent{
		influencerEvent(9, 1, "Snack", 1, 499),
	}

	rows, overall := EstimateIROAS(tracking, nil)

	if len(rows) != 1 {
		t.Fatalf("row without a payout must not be dropped, got %d rows", len(rows))
	}
	r := rows[0]
	if r.TotalPayout != 0 {
		t.Errorf("expected zero payout default, got %v", r.TotalPayout)
	}
	want := 499 / Epsilon
	if !almostEqual(r.IROAS/want, 1) {
		t.Errorf("expected iROAS %v for zero payout, got %v", want, r.IROAS)
	}
	if math.IsInf(r.IROAS, 0) || math.IsNaN(r.IROAS) {
		t.Errorf("iROAS must stay finite, got %v", r.IROAS)
	}
	if math.IsInf(overall, 0) || math.IsNaN(overall) {
		t.Errorf("overall mean must stay finite, got %v", overall)
	}
}

func TestEstimateIROAS_NegativeIncremental(t *testing.T) {
	// Organic users spend more per head than the influencer's audience:
	// the campaign underperformed its baseline and incremental goes negative.
	tracking := []models.TrackingEvent{
		organicEvent(1, "Protein", 1, 1999),
		influencerEvent(2, 10, "Protein", 0, 0),
		influencerEvent(2, 11, "Protein", 1, 499),
	}
	payouts := []models.Payout{
		{InfluencerID: 2, Basis: models.BasisPost, Rate: 2000, OrdersCount: 1, TotalPayout: 2000},
	}

	rows, overall := EstimateIROAS(tracking, payouts)

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if want := 499.0 - 1999*2; !almostEqual(r.IncrementalRevenue, want) {
		t.Errorf("expected incremental %v, got %v", want, r.IncrementalRevenue)
	}
	if r.IROAS >= 0 || overall >= 0 {
		t.Errorf("underperforming campaign must yield negative iROAS, got row=%v overall=%v", r.IROAS, overall)
	}
}

func TestEstimateIROAS_PaidAdOnlyYieldsNothing(t *testing.T) {
	tracking := []models.TrackingEvent{
		paidEvent(1, "Protein", 1, 999),
		paidEvent(2, "Snack", 1, 499),
	}
	payouts := []models.Payout{
		{InfluencerID: 1, Basis: models.BasisPost, Rate: 100, TotalPayout: 1000},
	}

	rows, overall := EstimateIROAS(tracking, payouts)

	if len(rows) != 0 {
		t.Errorf("paid_ad traffic must be excluded, got %d rows", len(rows))
	}
	if overall != 0 {
		t.Errorf("mean iROAS of zero rows must be 0, got %v", overall)
	}
}

func TestEstimateIROAS_EmptyInput(t *testing.T) {
	rows, overall := EstimateIROAS(nil, nil)
	if len(rows) != 0 || overall != 0 {
		t.Errorf("empty input must yield empty rows and mean 0, got %d rows, mean %v", len(rows), overall)
	}
}

func TestEstimateIROAS_DistinctUserCounting(t *testing.T) {
	// The same user touching a product twice counts once for both
	// populations.
	tracking := []models.TrackingEvent{
		organicEvent(1, "Protein", 0, 0),
		organicEvent(1, "Protein", 1, 1000),
		influencerEvent(4, 2, "Protein", 1, 999),
		influencerEvent(4, 2, "Protein", 0, 0),
	}
	payouts := []models.Payout{
		{InfluencerID: 4, Basis: models.BasisOrder, Rate: 100, TotalPayout: 100},
	}

	rows, _ := EstimateIROAS(tracking, payouts)

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].InfluencerUsers != 1 {
		t.Errorf("expected 1 distinct user, got %d", rows[0].InfluencerUsers)
	}
	// Baseline: 1 distinct organic user, 1000 revenue -> 1000 per user.
	if rows[0].ExpectedBaselineRevenue != 1000 {
		t.Errorf("expected baseline 1000, got %v", rows[0].ExpectedBaselineRevenue)
	}
}

func TestEstimateIROAS_OverallMeanIsUnweighted(t *testing.T) {
	// Documented behavior: the overall figure averages rows, not revenue.
	// A tiny product line moves the mean exactly as much as a flagship.
	tracking := []models.TrackingEvent{
		influencerEvent(1, 10, "Protein", 1, 10000),
		influencerEvent(2, 20, "Snack", 1, 10),
	}
	payouts := []models.Payout{
		{InfluencerID: 1, Basis: models.BasisOrder, Rate: 1, TotalPayout: 100},
		{InfluencerID: 2, Basis: models.BasisOrder, Rate: 1, TotalPayout: 100},
	}

	rows, overall := EstimateIROAS(tracking, payouts)

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	want := (rows[0].IROAS + rows[1].IROAS) / 2
	if !almostEqual(overall, want) {
		t.Errorf("expected unweighted mean %v, got %v", want, overall)
	}
}
