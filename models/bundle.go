package models

import "fmt"

// Bundle holds one loaded session's worth of campaign data. The four
// tables are loaded once and treated as read-only; computations derive
// new tables from copies and never write back.
type Bundle struct {
	Influencers []Influencer
	Posts       []Post
	Tracking    []TrackingEvent
	Payouts     []Payout
}

// Validate checks per-row constraints and cross-table referential
// integrity: every post and every influencer-sourced tracking event must
// reference a known influencer, and payouts must be keyed 1:1 with the
// roster.
func (b *Bundle) Validate() error {
	roster := make(map[int]bool, len(b.Influencers))
	for _, inf := range b.Influencers {
		if err := inf.Validate(); err != nil {
			return err
		}
		if roster[inf.ID] {
			return fmt.Errorf("duplicate influencer id %d", inf.ID)
		}
		roster[inf.ID] = true
	}

	for _, p := range b.Posts {
		if err := p.Validate(); err != nil {
			return err
		}
		if !roster[p.InfluencerID] {
			return fmt.Errorf("post %d references unknown influencer %d", p.PostID, p.InfluencerID)
		}
	}

	for _, e := range b.Tracking {
		if err := e.Validate(); err != nil {
			return err
		}
		if e.Source == SourceInfluencer && !roster[e.InfluencerID] {
			return fmt.Errorf("tracking event for user %d references unknown influencer %d", e.UserID, e.InfluencerID)
		}
	}

	paid := make(map[int]bool, len(b.Payouts))
	for _, p := range b.Payouts {
		if err := p.Validate(); err != nil {
			return err
		}
		if !roster[p.InfluencerID] {
			return fmt.Errorf("payout references unknown influencer %d", p.InfluencerID)
		}
		if paid[p.InfluencerID] {
			return fmt.Errorf("duplicate payout for influencer %d", p.InfluencerID)
		}
		paid[p.InfluencerID] = true
	}
	for id := range roster {
		if !paid[id] {
			return fmt.Errorf("influencer %d has no payout record", id)
		}
	}

	return nil
}

// InfluencerIndex returns a lookup from influencer id to roster row.
func (b *Bundle) InfluencerIndex() map[int]Influencer {
	idx := make(map[int]Influencer, len(b.Influencers))
	for _, inf := range b.Influencers {
		idx[inf.ID] = inf
	}
	return idx
}
