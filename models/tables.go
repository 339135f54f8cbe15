package models

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for dates in all four tables.
const DateLayout = "2006-01-02"

// Tracking event sources
const (
	SourceInfluencer = "influencer"
	SourceOrganic    = "organic"
	SourcePaidAd     = "paid_ad"
)

// Payout bases
const (
	BasisPost  = "post"
	BasisOrder = "order"
)

// Influencer is one row of the influencer roster.
type Influencer struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	Gender        string `json:"gender"`
	FollowerCount int    `json:"follower_count"`
	Platform      string `json:"platform"`
}

// Post is one social post published by an influencer.
// Reach is independent of likes+comments; no ordering between them is enforced.
type Post struct {
	PostID         int       `json:"post_id"`
	InfluencerID   int       `json:"influencer_id"`
	Platform       string    `json:"platform"`
	Date           time.Time `json:"date"`
	URL            string    `json:"url"`
	Caption        string    `json:"caption"`
	Reach          int       `json:"reach"`
	Likes          int       `json:"likes"`
	Comments       int       `json:"comments"`
	EngagementRate float64   `json:"engagement_rate"`
}

// TrackingEvent is one user touchpoint in the conversion log.
// InfluencerID is 0 unless Source is "influencer". Campaign is empty for
// organic traffic. Rows are immutable once loaded.
type TrackingEvent struct {
	Source       string    `json:"source"`
	Campaign     string    `json:"campaign"`
	InfluencerID int       `json:"influencer_id"`
	UserID       int       `json:"user_id"`
	Product      string    `json:"product"`
	Date         time.Time `json:"date"`
	OrderFlag    int       `json:"orders"`
	Revenue      float64   `json:"revenue"`
}

// Payout is the compensation record for one influencer. Exactly one row
// per influencer; TotalPayout may legitimately be zero.
type Payout struct {
	InfluencerID int     `json:"influencer_id"`
	Basis        string  `json:"basis"`
	Rate         float64 `json:"rate"`
	OrdersCount  int     `json:"orders"`
	TotalPayout  float64 `json:"total_payout"`
}

// Validate checks a single influencer row.
func (i Influencer) Validate() error {
	if i.ID <= 0 {
		return fmt.Errorf("influencer id must be positive, got %d", i.ID)
	}
	if i.Name == "" {
		return fmt.Errorf("influencer %d has empty name", i.ID)
	}
	if i.FollowerCount < 0 {
		return fmt.Errorf("influencer %d has negative follower count", i.ID)
	}
	return nil
}

// Validate checks a single post row.
func (p Post) Validate() error {
	if p.PostID <= 0 {
		return fmt.Errorf("post id must be positive, got %d", p.PostID)
	}
	if p.InfluencerID <= 0 {
		return fmt.Errorf("post %d has no influencer reference", p.PostID)
	}
	if p.Reach < 0 || p.Likes < 0 || p.Comments < 0 {
		return fmt.Errorf("post %d has negative engagement metrics", p.PostID)
	}
	return nil
}

// Validate checks a single tracking event.
func (e TrackingEvent) Validate() error {
	switch e.Source {
	case SourceInfluencer:
		if e.InfluencerID <= 0 {
			return fmt.Errorf("influencer-sourced event for user %d missing influencer id", e.UserID)
		}
	case SourceOrganic, SourcePaidAd:
		if e.InfluencerID != 0 {
			return fmt.Errorf("%s event for user %d carries influencer id %d", e.Source, e.UserID, e.InfluencerID)
		}
	default:
		return fmt.Errorf("unknown tracking source %q", e.Source)
	}
	if e.OrderFlag != 0 && e.OrderFlag != 1 {
		return fmt.Errorf("order flag must be 0 or 1, got %d", e.OrderFlag)
	}
	if e.Revenue < 0 {
		return fmt.Errorf("negative revenue %.2f for user %d", e.Revenue, e.UserID)
	}
	return nil
}

// Validate checks a single payout row.
func (p Payout) Validate() error {
	if p.InfluencerID <= 0 {
		return fmt.Errorf("payout missing influencer id")
	}
	if p.Basis != BasisPost && p.Basis != BasisOrder {
		return fmt.Errorf("unknown payout basis %q for influencer %d", p.Basis, p.InfluencerID)
	}
	if p.TotalPayout < 0 {
		return fmt.Errorf("negative payout for influencer %d", p.InfluencerID)
	}
	return nil
}
