// Package csvfile loads the four campaign tables from a directory of
// CSV files. Columns are resolved by header name, so column order in
// the files does not matter. The four tables are parsed concurrently
// and the assembled bundle is integrity-checked before it is returned;
// a partial bundle is never handed to the caller.
package csvfile

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"promolens/internal"
	"promolens/internal/errors"
	"promolens/models"
)

const (
	influencersFile = "influencers.csv"
	postsFile       = "posts.csv"
	trackingFile    = "tracking.csv"
	payoutsFile     = "payouts.csv"
)

// Loader reads campaign data from a fixture directory.
type Loader struct {
	dir    string
	logger *internal.Logger
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir, logger: internal.DefaultLogger}
}

// Load parses all four tables and validates cross-table integrity.
func (l *Loader) Load(ctx context.Context) (*models.Bundle, error) {
	bundle := &models.Bundle{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := l.parseInfluencers(ctx)
		if err != nil {
			return err
		}
		bundle.Influencers = rows
		return nil
	})
	g.Go(func() error {
		rows, err := l.parsePosts(ctx)
		if err != nil {
			return err
		}
		bundle.Posts = rows
		return nil
	})
	g.Go(func() error {
		rows, err := l.parseTracking(ctx)
		if err != nil {
			return err
		}
		bundle.Tracking = rows
		return nil
	})
	g.Go(func() error {
		rows, err := l.parsePayouts(ctx)
		if err != nil {
			return err
		}
		bundle.Payouts = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := bundle.Validate(); err != nil {
		return nil, errors.Wrap(errors.DataInvalid(err.Error()), "loaded tables failed integrity check")
	}

	l.logger.Info("loaded campaign data from %s: %d influencers, %d posts, %d tracking events, %d payouts",
		l.dir, len(bundle.Influencers), len(bundle.Posts), len(bundle.Tracking), len(bundle.Payouts))
	return bundle, nil
}

// table is one parsed CSV file with header-name column lookup.
type table struct {
	path    string
	columns map[string]int
	rows    [][]string
}

func (l *Loader) readTable(ctx context.Context, name string) (*table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(l.dir, name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("missing data file " + path)
		}
		return nil, errors.IOError(err, "open "+path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.IOError(err, "parse "+path)
	}
	if len(records) == 0 {
		return nil, errors.DataInvalid(path + " has no header row")
	}

	columns := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		columns[strings.TrimSpace(h)] = i
	}
	return &table{path: path, columns: columns, rows: records[1:]}, nil
}

func (t *table) cell(row []string, column string) (string, error) {
	idx, ok := t.columns[column]
	if !ok {
		return "", errors.DataInvalid(t.path + " is missing column " + column)
	}
	return strings.TrimSpace(row[idx]), nil
}

func (t *table) intCell(row []string, column string) (int, error) {
	s, err := t.cell(row, column)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "%s: bad integer in column %s", t.path, column)
	}
	return n, nil
}

func (t *table) floatCell(row []string, column string) (float64, error) {
	s, err := t.cell(row, column)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "%s: bad number in column %s", t.path, column)
	}
	return v, nil
}

var dateLayouts = []string{models.DateLayout, "2006-01-02 15:04:05", time.RFC3339}

func (t *table) dateCell(row []string, column string) (time.Time, error) {
	s, err := t.cell(row, column)
	if err != nil {
		return time.Time{}, err
	}
	for _, layout := range dateLayouts {
		if d, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return d, nil
		}
	}
	return time.Time{}, errors.DataInvalid(t.path + ": unparseable date " + s)
}

func (l *Loader) parseInfluencers(ctx context.Context) ([]models.Influencer, error) {
	t, err := l.readTable(ctx, influencersFile)
	if err != nil {
		return nil, err
	}
	out := make([]models.Influencer, 0, len(t.rows))
	for _, row := range t.rows {
		var inf models.Influencer
		if inf.ID, err = t.intCell(row, "id"); err != nil {
			return nil, err
		}
		if inf.Name, err = t.cell(row, "name"); err != nil {
			return nil, err
		}
		if inf.Category, err = t.cell(row, "category"); err != nil {
			return nil, err
		}
		if inf.Gender, err = t.cell(row, "gender"); err != nil {
			return nil, err
		}
		if inf.FollowerCount, err = t.intCell(row, "follower_count"); err != nil {
			return nil, err
		}
		if inf.Platform, err = t.cell(row, "platform"); err != nil {
			return nil, err
		}
		out = append(out, inf)
	}
	return out, nil
}

func (l *Loader) parsePosts(ctx context.Context) ([]models.Post, error) {
	t, err := l.readTable(ctx, postsFile)
	if err != nil {
		return nil, err
	}
	out := make([]models.Post, 0, len(t.rows))
	for _, row := range t.rows {
		var p models.Post
		if p.PostID, err = t.intCell(row, "post_id"); err != nil {
			return nil, err
		}
		if p.InfluencerID, err = t.intCell(row, "influencer_id"); err != nil {
			return nil, err
		}
		if p.Platform, err = t.cell(row, "platform"); err != nil {
			return nil, err
		}
		if p.Date, err = t.dateCell(row, "date"); err != nil {
			return nil, err
		}
		if p.URL, err = t.cell(row, "url"); err != nil {
			return nil, err
		}
		if p.Caption, err = t.cell(row, "caption"); err != nil {
			return nil, err
		}
		if p.Reach, err = t.intCell(row, "reach"); err != nil {
			return nil, err
		}
		if p.Likes, err = t.intCell(row, "likes"); err != nil {
			return nil, err
		}
		if p.Comments, err = t.intCell(row, "comments"); err != nil {
			return nil, err
		}
		if p.EngagementRate, err = t.floatCell(row, "engagement_rate"); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (l *Loader) parseTracking(ctx context.Context) ([]models.TrackingEvent, error) {
	t, err := l.readTable(ctx, trackingFile)
	if err != nil {
		return nil, err
	}
	out := make([]models.TrackingEvent, 0, len(t.rows))
	for _, row := range t.rows {
		var e models.TrackingEvent
		if e.Source, err = t.cell(row, "source"); err != nil {
			return nil, err
		}
		if e.Campaign, err = t.cell(row, "campaign"); err != nil {
			return nil, err
		}
		if e.InfluencerID, err = t.intCell(row, "influencer_id"); err != nil {
			return nil, err
		}
		if e.UserID, err = t.intCell(row, "user_id"); err != nil {
			return nil, err
		}
		if e.Product, err = t.cell(row, "product"); err != nil {
			return nil, err
		}
		if e.Date, err = t.dateCell(row, "date"); err != nil {
			return nil, err
		}
		if e.OrderFlag, err = t.intCell(row, "orders"); err != nil {
			return nil, err
		}
		if e.Revenue, err = t.floatCell(row, "revenue"); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (l *Loader) parsePayouts(ctx context.Context) ([]models.Payout, error) {
	t, err := l.readTable(ctx, payoutsFile)
	if err != nil {
		return nil, err
	}
	out := make([]models.Payout, 0, len(t.rows))
	for _, row := range t.rows {
		var p models.Payout
		if p.InfluencerID, err = t.intCell(row, "influencer_id"); err != nil {
			return nil, err
		}
		if p.Basis, err = t.cell(row, "basis"); err != nil {
			return nil, err
		}
		if p.Rate, err = t.floatCell(row, "rate"); err != nil {
			return nil, err
		}
		if p.OrdersCount, err = t.intCell(row, "orders"); err != nil {
			return nil, err
		}
		if p.TotalPayout, err = t.floatCell(row, "total_payout"); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
