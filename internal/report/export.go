package report

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"promolens/internal/errors"
	"promolens/models"
)

// TopInfluencersCSV renders the top-influencers table as CSV for the
// dashboard's download button.
func (s *Snapshot) TopInfluencersCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"influencer_id", "name", "platform", "category", "follower_count",
		"revenue", "orders", "engagement_rate", "total_payout", "cost_per_order"}
	if err := w.Write(header); err != nil {
		return nil, errors.IOError(err, "write top influencers csv")
	}
	for _, r := range s.TopInfluencers {
		record := []string{
			strconv.Itoa(r.InfluencerID), r.Name, r.Platform, r.Category,
			strconv.Itoa(r.FollowerCount),
			formatFloat(r.Revenue), strconv.Itoa(r.Orders),
			formatFloat(r.EngagementRate), formatFloat(r.TotalPayout),
			formatFloat(r.CostPerOrder),
		}
		if err := w.Write(record); err != nil {
			return nil, errors.IOError(err, "write top influencers csv")
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// IROASRollupCSV renders the per-influencer iROAS table as CSV.
func (s *Snapshot) IROASRollupCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"influencer_id", "name", "category", "platform",
		"total_incremental_revenue", "spend", "iroas"}
	if err := w.Write(header); err != nil {
		return nil, errors.IOError(err, "write iroas csv")
	}
	for _, r := range s.Rollup {
		record := []string{
			strconv.Itoa(r.InfluencerID), r.Name, r.Category, r.Platform,
			formatFloat(r.TotalIncrementalRevenue), formatFloat(r.Spend),
			formatFloat(r.IROAS),
		}
		if err := w.Write(record); err != nil {
			return nil, errors.IOError(err, "write iroas csv")
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// WriteXLSX serializes the whole snapshot as a workbook: a summary
// sheet carrying the snapshot metadata and headline KPIs, then one
// sheet per result table.
func (s *Snapshot) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()

	summary := "Summary"
	idx, err := f.NewSheet(summary)
	if err != nil {
		return errors.IOError(err, "create summary sheet")
	}
	f.SetActiveSheet(idx)

	summaryRows := [][]interface{}{
		{"snapshot_id", s.ID},
		{"generated_at", s.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"total_revenue", s.Summary.TotalRevenue},
		{"total_orders", s.Summary.TotalOrders},
		{"total_spend", s.Summary.TotalSpend},
		{"roas", s.Summary.ROAS},
		{"overall_iroas", s.OverallIROAS},
	}
	for r, pair := range summaryRows {
		for c, v := range pair {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(summary, cell, v); err != nil {
				return errors.IOError(err, "write summary sheet")
			}
		}
	}

	if err := writeSheet(f, "Top Influencers",
		[]string{"influencer_id", "name", "platform", "category", "revenue", "orders", "engagement_rate", "cost_per_order"},
		len(s.TopInfluencers), func(i int) []interface{} {
			r := s.TopInfluencers[i]
			return []interface{}{r.InfluencerID, r.Name, r.Platform, r.Category, r.Revenue, r.Orders, r.EngagementRate, r.CostPerOrder}
		}); err != nil {
		return err
	}

	if err := writeSheet(f, "iROAS Detail",
		[]string{"influencer_id", "product", "influencer_users", "influencer_revenue", "expected_baseline_revenue", "incremental_revenue", "total_payout", "iroas"},
		len(s.IROASRows), func(i int) []interface{} {
			r := s.IROASRows[i]
			return []interface{}{r.InfluencerID, r.Product, r.InfluencerUsers, r.InfluencerRevenue, r.ExpectedBaselineRevenue, r.IncrementalRevenue, r.TotalPayout, r.IROAS}
		}); err != nil {
		return err
	}

	if err := writeSheet(f, "iROAS Rollup",
		[]string{"influencer_id", "name", "category", "platform", "total_incremental_revenue", "spend", "iroas"},
		len(s.Rollup), func(i int) []interface{} {
			r := s.Rollup[i]
			return []interface{}{r.InfluencerID, r.Name, r.Category, r.Platform, r.TotalIncrementalRevenue, r.Spend, r.IROAS}
		}); err != nil {
		return err
	}

	if err := writeSheet(f, "Revenue Over Time",
		[]string{"date", "revenue"},
		len(s.Revenue.Points), func(i int) []interface{} {
			p := s.Revenue.Points[i]
			return []interface{}{p.Date.Format(models.DateLayout), p.Revenue}
		}); err != nil {
		return err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.IOError(err, "finalize workbook")
	}
	if err := f.Write(w); err != nil {
		return errors.IOError(err, "write workbook")
	}
	return nil
}

func writeSheet(f *excelize.File, name string, headers []string, n int, record func(int) []interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return errors.IOError(err, "create sheet "+name)
	}
	for c, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(name, cell, h); err != nil {
			return errors.IOError(err, "write sheet "+name)
		}
	}
	for r := 0; r < n; r++ {
		for c, v := range record(r) {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(name, cell, v); err != nil {
				return errors.IOError(err, "write sheet "+name)
			}
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
