package ui

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"promolens/internal/report"
	"promolens/models"
)

const (
	chartWidth  = 800.0
	chartHeight = 300.0
	chartPad    = 10.0
)

// dashboardView is everything the template renders for one request.
type dashboardView struct {
	Snapshot *report.Snapshot

	Start      string
	End        string
	Platforms  []optionView
	Categories []optionView
	TopN       int

	ChartPoints string // SVG polyline points for the revenue series
	Query       string // echo of the filter query, reused by export links
}

type optionView struct {
	Name     string
	Selected bool
}

func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	req, err := a.parseRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	snap := report.Build(a.bundle, req.filter, req.topN)

	view := dashboardView{
		Snapshot:    snap,
		TopN:        req.topN,
		Platforms:   options(distinct(a.bundle.Influencers, func(i models.Influencer) string { return i.Platform }), req.filter.Platforms),
		Categories:  options(distinct(a.bundle.Influencers, func(i models.Influencer) string { return i.Category }), req.filter.Categories),
		ChartPoints: polyline(snap),
		Query:       r.URL.RawQuery,
	}
	if !req.filter.Start.IsZero() {
		view.Start = req.filter.Start.Format(models.DateLayout)
	}
	if !req.filter.End.IsZero() {
		view.End = req.filter.End.Format(models.DateLayout)
	}

	if err := a.templates.ExecuteTemplate(w, "dashboard.html", view); err != nil {
		a.logger.Error("render dashboard: %v", err)
	}
}

func distinct(influencers []models.Influencer, field func(models.Influencer) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, inf := range influencers {
		v := field(inf)
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func options(values []string, selected []string) []optionView {
	sel := make(map[string]bool, len(selected))
	for _, s := range selected {
		sel[s] = true
	}
	out := make([]optionView, 0, len(values))
	for _, v := range values {
		// With no explicit selection every option is active, matching
		// the filter's "empty means everything" semantics.
		out = append(out, optionView{Name: v, Selected: len(sel) == 0 || sel[v]})
	}
	return out
}

// polyline scales the revenue series into SVG coordinates.
func polyline(snap *report.Snapshot) string {
	points := snap.Revenue.Points
	if len(points) == 0 {
		return ""
	}

	maxRevenue := 0.0
	for _, p := range points {
		if p.Revenue > maxRevenue {
			maxRevenue = p.Revenue
		}
	}
	if maxRevenue == 0 {
		maxRevenue = 1
	}

	span := float64(len(points) - 1)
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for i, p := range points {
		x := chartPad + (chartWidth-2*chartPad)*float64(i)/span
		y := chartHeight - chartPad - (chartHeight-2*chartPad)*(p.Revenue/maxRevenue)
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.1f,%.1f", x, y)
	}
	return b.String()
}
