package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"promolens/internal/synth"
	"promolens/models"
)

func main() {
	out := flag.String("out", "data", "output directory (csv) or file path (xlsx)")
	format := flag.String("format", "", "output format: csv or xlsx (default inferred from -out)")
	seed := flag.Int64("seed", 42, "RNG seed (deterministic)")
	start := flag.String("start", "2025-01-01", "campaign start date (YYYY-MM-DD)")
	days := flag.Int("days", 90, "campaign window in days")
	influencers := flag.Int("influencers", 20, "number of influencers")
	posts := flag.Int("posts", 100, "number of posts")
	users := flag.Int("users", 2000, "size of the user pool")
	events := flag.Int("events", 3000, "number of tracking events")
	flag.Parse()

	startDate, err := time.ParseInLocation(models.DateLayout, *start, time.UTC)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid -start (expected YYYY-MM-DD):", err)
		os.Exit(2)
	}

	fmtName := strings.ToLower(strings.TrimSpace(*format))
	if fmtName == "" {
		if strings.ToLower(filepath.Ext(*out)) == ".xlsx" {
			fmtName = "xlsx"
		} else {
			fmtName = "csv"
		}
	}

	cfg := synth.Config{
		Influencers:    *influencers,
		Posts:          *posts,
		Users:          *users,
		TrackingEvents: *events,
		StartDate:      startDate,
		WindowDays:     *days,
		Seed:           *seed,
	}

	bundle, err := synth.Generate(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error generating dataset:", err)
		os.Exit(1)
	}

	switch fmtName {
	case "csv":
		if err := synth.WriteCSVDir(*out, bundle); err != nil {
			fmt.Fprintln(os.Stderr, "error writing csv:", err)
			os.Exit(1)
		}
	case "xlsx":
		if err := synth.WriteXLSX(*out, bundle); err != nil {
			fmt.Fprintln(os.Stderr, "error writing xlsx:", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "unsupported format:", fmtName)
		os.Exit(2)
	}

	fmt.Printf("Generated campaign dataset: %s\n", *out)
	fmt.Printf("Influencers: %d | Posts: %d | Tracking: %d | Payouts: %d\n",
		len(bundle.Influencers), len(bundle.Posts), len(bundle.Tracking), len(bundle.Payouts))
}
