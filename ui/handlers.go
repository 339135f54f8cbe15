package ui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"promolens/internal/kpi"
	"promolens/internal/report"
	"promolens/models"
)

// request holds the decoded filter controls common to every endpoint.
type request struct {
	filter kpi.Filter
	topN   int
}

// parseRequest decodes start/end dates, repeated platform and category
// parameters, and top_n. Absent dates mean the full range; top_n is
// clamped to the configured [min, max] window.
func (a *App) parseRequest(r *http.Request) (request, error) {
	q := r.URL.Query()
	req := request{topN: a.data.DefaultTopN}

	if s := q.Get("start"); s != "" {
		d, err := time.ParseInLocation(models.DateLayout, s, time.UTC)
		if err != nil {
			return req, fmt.Errorf("invalid start date %q, want YYYY-MM-DD", s)
		}
		req.filter.Start = d
	}
	if s := q.Get("end"); s != "" {
		d, err := time.ParseInLocation(models.DateLayout, s, time.UTC)
		if err != nil {
			return req, fmt.Errorf("invalid end date %q, want YYYY-MM-DD", s)
		}
		req.filter.End = d
	}
	if !req.filter.Start.IsZero() && !req.filter.End.IsZero() && req.filter.End.Before(req.filter.Start) {
		return req, fmt.Errorf("end date precedes start date")
	}

	req.filter.Platforms = q["platform"]
	req.filter.Categories = q["category"]

	if s := q.Get("top_n"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return req, fmt.Errorf("invalid top_n %q", s)
		}
		req.topN = n
	}
	if req.topN < a.data.MinTopN {
		req.topN = a.data.MinTopN
	}
	if req.topN > a.data.MaxTopN {
		req.topN = a.data.MaxTopN
	}

	return req, nil
}

func (a *App) snapshot(r *http.Request) (*report.Snapshot, error) {
	req, err := a.parseRequest(r)
	if err != nil {
		return nil, err
	}
	return report.Build(a.bundle, req.filter, req.topN), nil
}

func (a *App) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Error("encode response: %v", err)
	}
}

func (a *App) respondError(w http.ResponseWriter, status int, err error) {
	a.respondJSON(w, status, map[string]string{"error": err.Error()})
}

func (a *App) handleKPIs(w http.ResponseWriter, r *http.Request) {
	snap, err := a.snapshot(r)
	if err != nil {
		a.respondError(w, http.StatusBadRequest, err)
		return
	}
	a.respondJSON(w, http.StatusOK, map[string]interface{}{
		"total_revenue": snap.Summary.TotalRevenue,
		"total_orders":  snap.Summary.TotalOrders,
		"total_spend":   snap.Summary.TotalSpend,
		"roas":          snap.Summary.ROAS,
		"overall_iroas": snap.OverallIROAS,
	})
}

func (a *App) handleTopInfluencers(w http.ResponseWriter, r *http.Request) {
	snap, err := a.snapshot(r)
	if err != nil {
		a.respondError(w, http.StatusBadRequest, err)
		return
	}
	a.respondJSON(w, http.StatusOK, snap.TopInfluencers)
}

func (a *App) handleIROAS(w http.ResponseWriter, r *http.Request) {
	snap, err := a.snapshot(r)
	if err != nil {
		a.respondError(w, http.StatusBadRequest, err)
		return
	}
	a.respondJSON(w, http.StatusOK, map[string]interface{}{
		"rows":          snap.IROASRows,
		"overall_iroas": snap.OverallIROAS,
	})
}

func (a *App) handleIROASRollup(w http.ResponseWriter, r *http.Request) {
	snap, err := a.snapshot(r)
	if err != nil {
		a.respondError(w, http.StatusBadRequest, err)
		return
	}
	a.respondJSON(w, http.StatusOK, snap.Rollup)
}

func (a *App) handleRevenueSeries(w http.ResponseWriter, r *http.Request) {
	snap, err := a.snapshot(r)
	if err != nil {
		a.respondError(w, http.StatusBadRequest, err)
		return
	}
	a.respondJSON(w, http.StatusOK, snap.Revenue)
}

func (a *App) handleExportTopInfluencers(w http.ResponseWriter, r *http.Request) {
	snap, err := a.snapshot(r)
	if err != nil {
		a.respondError(w, http.StatusBadRequest, err)
		return
	}
	raw, err := snap.TopInfluencersCSV()
	if err != nil {
		a.respondError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="top_influencers.csv"`)
	_, _ = w.Write(raw)
}

func (a *App) handleExportIROAS(w http.ResponseWriter, r *http.Request) {
	snap, err := a.snapshot(r)
	if err != nil {
		a.respondError(w, http.StatusBadRequest, err)
		return
	}
	raw, err := snap.IROASRollupCSV()
	if err != nil {
		a.respondError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="iroas_table.csv"`)
	_, _ = w.Write(raw)
}

func (a *App) handleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	snap, err := a.snapshot(r)
	if err != nil {
		a.respondError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="campaign_report.xlsx"`)
	if err := snap.WriteXLSX(w); err != nil {
		a.logger.Error("workbook export: %v", err)
	}
}
