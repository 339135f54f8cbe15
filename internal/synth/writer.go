package synth

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"promolens/models"
)

// Table file names used by both the CSV writer and the loader.
const (
	InfluencersFile = "influencers.csv"
	PostsFile       = "posts.csv"
	TrackingFile    = "tracking.csv"
	PayoutsFile     = "payouts.csv"
)

// Column headers for the four tables, in wire order.
var (
	InfluencerHeaders = []string{"id", "name", "category", "gender", "follower_count", "platform"}
	PostHeaders       = []string{"post_id", "influencer_id", "platform", "date", "url", "caption", "reach", "likes", "comments", "engagement_rate"}
	TrackingHeaders   = []string{"source", "campaign", "influencer_id", "user_id", "product", "date", "orders", "revenue"}
	PayoutHeaders     = []string{"influencer_id", "basis", "rate", "orders", "total_payout"}
)

func influencerRecord(i models.Influencer) []string {
	return []string{
		strconv.Itoa(i.ID), i.Name, i.Category, i.Gender,
		strconv.Itoa(i.FollowerCount), i.Platform,
	}
}

func postRecord(p models.Post) []string {
	return []string{
		strconv.Itoa(p.PostID), strconv.Itoa(p.InfluencerID), p.Platform,
		p.Date.Format(models.DateLayout), p.URL, p.Caption,
		strconv.Itoa(p.Reach), strconv.Itoa(p.Likes), strconv.Itoa(p.Comments),
		strconv.FormatFloat(p.EngagementRate, 'f', 6, 64),
	}
}

func trackingRecord(e models.TrackingEvent) []string {
	influencerID := ""
	if e.InfluencerID != 0 {
		influencerID = strconv.Itoa(e.InfluencerID)
	}
	return []string{
		e.Source, e.Campaign, influencerID, strconv.Itoa(e.UserID),
		e.Product, e.Date.Format(models.DateLayout),
		strconv.Itoa(e.OrderFlag), strconv.FormatFloat(e.Revenue, 'f', -1, 64),
	}
}

func payoutRecord(p models.Payout) []string {
	return []string{
		strconv.Itoa(p.InfluencerID), p.Basis,
		strconv.FormatFloat(p.Rate, 'f', -1, 64),
		strconv.Itoa(p.OrdersCount),
		strconv.FormatFloat(p.TotalPayout, 'f', -1, 64),
	}
}

// WriteCSVDir writes the four tables as individual CSV files into dir,
// creating it if needed.
func WriteCSVDir(dir string, b *models.Bundle) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(dir, InfluencersFile), InfluencerHeaders, len(b.Influencers), func(i int) []string {
		return influencerRecord(b.Influencers[i])
	}); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(dir, PostsFile), PostHeaders, len(b.Posts), func(i int) []string {
		return postRecord(b.Posts[i])
	}); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(dir, TrackingFile), TrackingHeaders, len(b.Tracking), func(i int) []string {
		return trackingRecord(b.Tracking[i])
	}); err != nil {
		return err
	}
	return writeCSV(filepath.Join(dir, PayoutsFile), PayoutHeaders, len(b.Payouts), func(i int) []string {
		return payoutRecord(b.Payouts[i])
	})
}

func writeCSV(path string, headers []string, n int, record func(int) []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(headers); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := w.Write(record(i)); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteXLSX writes the bundle as one workbook with a sheet per table.
func WriteXLSX(path string, b *models.Bundle) error {
	f := excelize.NewFile()

	sheets := []struct {
		name    string
		headers []string
		rows    int
		record  func(int) []string
	}{
		{"Influencers", InfluencerHeaders, len(b.Influencers), func(i int) []string { return influencerRecord(b.Influencers[i]) }},
		{"Posts", PostHeaders, len(b.Posts), func(i int) []string { return postRecord(b.Posts[i]) }},
		{"Tracking", TrackingHeaders, len(b.Tracking), func(i int) []string { return trackingRecord(b.Tracking[i]) }},
		{"Payouts", PayoutHeaders, len(b.Payouts), func(i int) []string { return payoutRecord(b.Payouts[i]) }},
	}

	for si, s := range sheets {
		idx, err := f.NewSheet(s.name)
		if err != nil {
			return err
		}
		if si == 0 {
			f.SetActiveSheet(idx)
		}
		for c, h := range s.headers {
			cell, _ := excelize.CoordinatesToCellName(c+1, 1)
			if err := f.SetCellValue(s.name, cell, h); err != nil {
				return err
			}
		}
		for r := 0; r < s.rows; r++ {
			rec := s.record(r)
			for c, v := range rec {
				cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
				if err := f.SetCellValue(s.name, cell, v); err != nil {
					return err
				}
			}
		}
	}

	// Drop the default sheet so the workbook only carries the four tables.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	return f.SaveAs(path)
}
