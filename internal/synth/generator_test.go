package synth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"promolens/models"
)

func smallConfig() Config {
	return Config{
		Influencers:    5,
		Posts:          20,
		Users:          100,
		TrackingEvents: 400,
		StartDate:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		WindowDays:     30,
		Seed:           42,
	}
}

func TestGenerate_BundleIsInternallyConsistent(t *testing.T) {
	b, err := Generate(smallConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if err := b.Validate(); err != nil {
		t.Fatalf("generated bundle failed integrity check: %v", err)
	}
	if len(b.Influencers) != 5 || len(b.Posts) != 20 || len(b.Tracking) != 400 || len(b.Payouts) != 5 {
		t.Fatalf("unexpected table sizes: %d/%d/%d/%d",
			len(b.Influencers), len(b.Posts), len(b.Tracking), len(b.Payouts))
	}

	// Every influencer authored at least one post.
	authored := make(map[int]bool)
	for _, p := range b.Posts {
		authored[p.InfluencerID] = true
	}
	for _, inf := range b.Influencers {
		if !authored[inf.ID] {
			t.Errorf("influencer %d has no posts", inf.ID)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate(smallConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := Generate(smallConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(a.Tracking) != len(b.Tracking) {
		t.Fatalf("runs disagree on tracking size")
	}
	for i := range a.Tracking {
		if a.Tracking[i] != b.Tracking[i] {
			t.Fatalf("same seed produced different tracking row %d: %+v vs %+v", i, a.Tracking[i], b.Tracking[i])
		}
	}
	for i := range a.Payouts {
		if a.Payouts[i] != b.Payouts[i] {
			t.Fatalf("same seed produced different payout %d", i)
		}
	}
}

func TestGenerate_PayoutBasisSemantics(t *testing.T) {
	b, err := Generate(smallConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
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

	for _, p := range b.Payouts {
		switch p.Basis {
		case models.BasisPost:
			if p.OrdersCount != postCount[p.InfluencerID] {
				t.Errorf("post-basis orders count should equal post count, got %d want %d", p.OrdersCount, postCount[p.InfluencerID])
			}
			// Per-post compensation is independent of tracked orders: the
			// payout must stay nonzero even for influencers who converted
			// nobody.
			if p.TotalPayout == 0 {
				t.Errorf("post-basis payout for influencer %d is zero despite %d posts", p.InfluencerID, postCount[p.InfluencerID])
			}
		case models.BasisOrder:
			if p.OrdersCount != trackedOrders[p.InfluencerID] {
				t.Errorf("order-basis orders count mismatch for influencer %d", p.InfluencerID)
			}
			if want := p.Rate * float64(p.OrdersCount); p.TotalPayout != want {
				t.Errorf("order-basis payout %v, want rate*orders=%v", p.TotalPayout, want)
			}
		}
	}
}

func TestGenerate_RejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero influencers", func(c *Config) { c.Influencers = 0 }},
		{"fewer posts than influencers", func(c *Config) { c.Posts = 3 }},
		{"zero users", func(c *Config) { c.Users = 0 }},
		{"zero window", func(c *Config) { c.WindowDays = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := smallConfig()
			tt.mutate(&cfg)
			if _, err := Generate(cfg); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}

func TestWriteCSVDir_ProducesFourTables(t *testing.T) {
	b, err := Generate(smallConfig())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	dir := t.TempDir()
	if err := WriteCSVDir(dir, b); err != nil {
		t.Fatalf("write csv dir: %v", err)
	}

	for _, name := range []string{InfluencersFile, PostsFile, TrackingFile, PayoutsFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestWriteXLSX_ProducesWorkbook(t *testing.T) {
	cfg := smallConfig()
	cfg.TrackingEvents = 50
	b, err := Generate(cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	path := filepath.Join(t.TempDir(), "campaign_demo.xlsx")
	if err := WriteXLSX(path, b); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("workbook not written: %v", err)
	}
}
