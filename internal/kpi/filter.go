package kpi

import (
	"time"

	"promolens/models"
)

// Filter restricts tracking rows and posts to a date window, a set of
// platforms and a set of categories. A zero Start or End leaves that
// bound open; empty Platforms or Categories means no restriction, like
// a dashboard multi-select with everything checked.
//
// Applying a filter allocates fresh slices and never mutates its inputs.
type Filter struct {
	Start      time.Time
	End        time.Time
	Platforms  []string
	Categories []string
}

// Tracking filters tracking events. Date bounds are inclusive. Platform
// and category come from the referenced influencer; rows without an
// influencer reference (organic and paid_ad traffic) pass the
// platform/category constraints, since dropping them would silently
// empty the organic baseline the iROAS estimator depends on.
func (f Filter) Tracking(events []models.TrackingEvent, influencers []models.Influencer) []models.TrackingEvent {
	platforms := toSet(f.Platforms)
	categories := toSet(f.Categories)
	roster := make(map[int]models.Influencer, len(influencers))
	for _, inf := range influencers {
		roster[inf.ID] = inf
	}

	out := make([]models.TrackingEvent, 0, len(events))
	for _, e := range events {
		if !f.inWindow(e.Date) {
			continue
		}
		if inf, ok := roster[e.InfluencerID]; ok {
			if !matches(platforms, inf.Platform) || !matches(categories, inf.Category) {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

// Posts filters posts. The platform constraint applies to the post's own
// platform; the category constraint to the author's roster category.
func (f Filter) Posts(posts []models.Post, influencers []models.Influencer) []models.Post {
	platforms := toSet(f.Platforms)
	categories := toSet(f.Categories)
	roster := make(map[int]models.Influencer, len(influencers))
	for _, inf := range influencers {
		roster[inf.ID] = inf
	}

	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if !f.inWindow(p.Date) {
			continue
		}
		if !matches(platforms, p.Platform) {
			continue
		}
		if inf, ok := roster[p.InfluencerID]; ok && !matches(categories, inf.Category) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (f Filter) inWindow(t time.Time) bool {
	if !f.Start.IsZero() && t.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && t.After(f.End) {
		return false
	}
	return true
}

func toSet(items []string) map[string]bool {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

// matches treats a nil set as "no restriction".
func matches(set map[string]bool, value string) bool {
	return set == nil || set[value]
}
