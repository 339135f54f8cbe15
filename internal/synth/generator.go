// Package synth produces demo versions of the four campaign tables with
// internally consistent relationships: posts reference roster
// influencers, influencer-sourced tracking events reference roster
// influencers, and payouts are derived from posts or tracked orders.
// Generation is deterministic for a given seed.
package synth

import (
	"fmt"
	"math/rand"
	"time"

	"promolens/models"
)

// Config controls the size and shape of the generated bundle.
type Config struct {
	Influencers    int
	Posts          int
	Users          int
	TrackingEvents int
	StartDate      time.Time
	WindowDays     int
	Seed           int64
}

// DefaultConfig mirrors the demo fixture set: 20 influencers, 100 posts,
// 3000 tracking events over a 90-day window.
func DefaultConfig() Config {
	return Config{
		Influencers:    20,
		Posts:          100,
		Users:          2000,
		TrackingEvents: 3000,
		StartDate:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		WindowDays:     90,
		Seed:           42,
	}
}

var (
	categories = []string{"Fitness", "Nutrition", "Lifestyle", "Wellness"}
	genders    = []string{"M", "F"}
	platforms  = []string{"Instagram", "YouTube", "Twitter"}
	products   = []string{"Protein", "Multivitamin", "Snack", "Supplement"}
	prices     = []float64{499, 999, 1499, 1999}

	platformReachFactor = map[string]float64{
		"Instagram": 0.4,
		"YouTube":   0.6,
		"Twitter":   0.2,
	}
	platformLikeFactor = map[string]float64{
		"Instagram": 0.08,
		"YouTube":   0.06,
		"Twitter":   0.04,
	}
	platformCommentFactor = map[string]float64{
		"Instagram": 0.015,
		"YouTube":   0.01,
		"Twitter":   0.008,
	}
)

// Generate builds a complete bundle. Posts are distributed so that every
// influencer has at least one; payouts use a post basis 60% of the time
// (rate x post count, which stays nonzero even when no orders were
// tracked) and an order basis otherwise (rate x tracked orders).
func Generate(cfg Config) (*models.Bundle, error) {
	if cfg.Influencers <= 0 {
		return nil, fmt.Errorf("influencer count must be > 0")
	}
	if cfg.Posts < cfg.Influencers {
		return nil, fmt.Errorf("need at least one post per influencer (%d posts for %d influencers)", cfg.Posts, cfg.Influencers)
	}
	if cfg.Users <= 0 || cfg.TrackingEvents < 0 {
		return nil, fmt.Errorf("users must be > 0 and tracking events >= 0")
	}
	if cfg.WindowDays <= 0 {
		return nil, fmt.Errorf("window must span at least one day")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	b := &models.Bundle{}

	for i := 1; i <= cfg.Influencers; i++ {
		b.Influencers = append(b.Influencers, models.Influencer{
			ID:            i,
			Name:          fmt.Sprintf("Influencer_%d", i),
			Category:      categories[rng.Intn(len(categories))],
			Gender:        genders[rng.Intn(len(genders))],
			FollowerCount: 10_000 + rng.Intn(2_000_000-10_000),
			Platform:      platforms[rng.Intn(len(platforms))],
		})
	}
	roster := b.InfluencerIndex()

	// First block guarantees coverage, the rest is random assignment.
	authors := make([]int, 0, cfg.Posts)
	for i := 1; i <= cfg.Influencers; i++ {
		authors = append(authors, i)
	}
	for len(authors) < cfg.Posts {
		authors = append(authors, 1+rng.Intn(cfg.Influencers))
	}

	for i, infID := range authors {
		inf := roster[infID]
		reach := int(float64(inf.FollowerCount) * (0.3 + rng.Float64()*0.4) * platformReachFactor[inf.Platform])
		likes := int(float64(reach) * platformLikeFactor[inf.Platform] * (0.8 + rng.Float64()*0.4))
		comments := int(float64(reach) * platformCommentFactor[inf.Platform] * (0.8 + rng.Float64()*0.4))
		post := models.Post{
			PostID:       i + 1,
			InfluencerID: infID,
			Platform:     inf.Platform,
			Date:         cfg.StartDate.AddDate(0, 0, rng.Intn(cfg.WindowDays)),
			URL:          fmt.Sprintf("https://post/%d", i+1),
			Caption:      "Sample caption",
			Reach:        reach,
			Likes:        likes,
			Comments:     comments,
		}
		if reach > 0 {
			post.EngagementRate = float64(likes+comments) / float64(reach)
		}
		b.Posts = append(b.Posts, post)
	}

	for i := 0; i < cfg.TrackingEvents; i++ {
		e := models.TrackingEvent{
			UserID:  1 + rng.Intn(cfg.Users),
			Product: products[rng.Intn(len(products))],
			Date:    cfg.StartDate.AddDate(0, 0, rng.Intn(cfg.WindowDays)),
		}

		var orderProb float64
		switch p := rng.Float64(); {
		case p < 0.3:
			e.Source = models.SourceInfluencer
			e.InfluencerID = 1 + rng.Intn(cfg.Influencers)
			orderProb = 0.05
		case p < 0.8:
			e.Source = models.SourceOrganic
			orderProb = 0.015
		default:
			e.Source = models.SourcePaidAd
			orderProb = 0.06
		}
		if e.Source != models.SourceOrganic {
			e.Campaign = fmt.Sprintf("camp_%d", 1+rng.Intn(5))
		}
		if rng.Float64() < orderProb {
			e.OrderFlag = 1
			e.Revenue = prices[rng.Intn(len(prices))]
		}
		b.Tracking = append(b.Tracking, e)
	}

	postCount := make(map[int]int)
	for _, p := range b.Posts {
		postCount[p.InfluencerID]++
	}
	trackedOrders := make(map[int]int)
	for _, e := range b.Tracking {
		if e.Source == models.SourceInfluencer {
			trackedOrders[e.InfluencerID] += e.OrderFlag
		}
	}

	for i := 1; i <= cfg.Influencers; i++ {
		var p models.Payout
		p.InfluencerID = i
		if rng.Float64() < 0.6 {
			p.Basis = models.BasisPost
			p.Rate = float64(2000 + rng.Intn(18000))
			p.OrdersCount = postCount[i]
			p.TotalPayout = p.Rate * float64(p.OrdersCount)
		} else {
			p.Basis = models.BasisOrder
			p.Rate = float64(50 + rng.Intn(950))
			p.OrdersCount = trackedOrders[i]
			p.TotalPayout = p.Rate * float64(p.OrdersCount)
		}
		b.Payouts = append(b.Payouts, p)
	}

	return b, nil
}
