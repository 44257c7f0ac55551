// Package events is a Layar layer backed by SQLite. Rows carry the H3 cell of
// their position; a radius query prefilters on the cell cover and refines by
// haversine distance.
package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/openlayar/layard/internal/layar"
	"github.com/openlayar/layard/internal/spatial"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id        TEXT PRIMARY KEY,
	title     TEXT NOT NULL,
	venue     TEXT,
	lat       REAL NOT NULL,
	lon       REAL NOT NULL,
	cell      TEXT NOT NULL,
	starts_at TEXT NOT NULL,
	url       TEXT
);
CREATE INDEX IF NOT EXISTS idx_events_cell ON events(cell);
`

type Event struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Venue    string    `json:"venue,omitempty"`
	Lat      float64   `json:"lat"`
	Lon      float64   `json:"lon"`
	StartsAt time.Time `json:"starts_at"`
	URL      string    `json:"url,omitempty"`

	distM float64
}

type Layer struct {
	db            *sql.DB
	res           int
	defaultRadius int
}

func Open(path string, res, defaultRadius int) (*Layer, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Layer{db: db, res: res, defaultRadius: defaultRadius}, nil
}

func (l *Layer) Close() error { return l.db.Close() }

// Fetch selects events inside the query radius. SEARCHBOX matches the title,
// CUSTOM_SLIDER limits how many days ahead an event may start, RADIOLIST
// picks the ordering ("nearest" by distance, soonest-first is the default).
func (l *Layer) Fetch(ctx context.Context, c layar.Criteria) (layar.Collection, error) {
	radius := l.defaultRadius
	if c.Radius != nil {
		radius = *c.Radius
	}

	cells, err := spatial.CellsForRadius(c.Latitude, c.Longitude, float64(radius), l.res)
	if err != nil {
		return nil, fmt.Errorf("cell cover: %w", err)
	}
	if len(cells) == 0 {
		return layar.Items{}, nil
	}

	query, args := buildQuery(cells, c)
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Event
	for rows.Next() {
		var e Event
		var startsAt string
		if err := rows.Scan(&e.ID, &e.Title, &e.Venue, &e.Lat, &e.Lon, &startsAt, &e.URL); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if e.StartsAt, err = time.Parse(time.RFC3339, startsAt); err != nil {
			return nil, fmt.Errorf("event %s starts_at: %w", e.ID, err)
		}
		e.distM = haversineM(c.Latitude, c.Longitude, e.Lat, e.Lon)
		if e.distM > float64(radius) {
			continue // inside the cell cover but outside the radius
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	if strings.EqualFold(strings.TrimSpace(c.RadioOption), "nearest") {
		sort.SliceStable(out, func(i, j int) bool { return out[i].distM < out[j].distM })
	}

	items := make(layar.Items, len(out))
	for i, e := range out {
		items[i] = e
	}
	return items, nil
}

func buildQuery(cells []string, c layar.Criteria) (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, len(cells)+2)

	sb.WriteString(`SELECT id, title, COALESCE(venue,''), lat, lon, starts_at, COALESCE(url,'') FROM events WHERE cell IN (`)
	for i, cell := range cells {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("?")
		args = append(args, cell)
	}
	sb.WriteString(")")

	if s := strings.TrimSpace(c.SearchQuery); s != "" {
		sb.WriteString(" AND title LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(s)+"%")
	}
	if days, err := strconv.Atoi(strings.TrimSpace(c.SliderValue)); err == nil && days > 0 {
		sb.WriteString(" AND starts_at <= ?")
		args = append(args, time.Now().UTC().AddDate(0, 0, days).Format(time.RFC3339))
	}

	sb.WriteString(" ORDER BY starts_at ASC")
	return sb.String(), args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func (l *Layer) Adapt(item layar.Item) (layar.POI, error) {
	e, ok := item.(Event)
	if !ok {
		return layar.POI{}, fmt.Errorf("events: unexpected item type %T", item)
	}

	poi := layar.POI{
		ID:    e.ID,
		Lat:   e.Lat,
		Lon:   e.Lon,
		Title: e.Title,
		Line2: e.Venue,
		Line3: e.StartsAt.Format("Mon Jan 2 15:04"),
	}
	if e.URL != "" {
		poi.Actions = []layar.Action{{Label: "Event details", URI: e.URL}}
	}
	return poi, nil
}

// Upsert and Delete implement the ingest applier seam.

func (l *Layer) Upsert(ctx context.Context, id string, body json.RawMessage) error {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	if e.ID == "" {
		e.ID = id
	}
	cell, err := spatial.CellFor(e.Lat, e.Lon, l.res)
	if err != nil {
		return fmt.Errorf("event %s: %w", e.ID, err)
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO events (id, title, venue, lat, lon, cell, starts_at, url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.Venue, e.Lat, e.Lon, cell,
		e.StartsAt.UTC().Format(time.RFC3339), e.URL)
	if err != nil {
		return fmt.Errorf("upsert event %s: %w", e.ID, err)
	}
	return nil
}

func (l *Layer) Delete(ctx context.Context, id string) error {
	if _, err := l.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	return nil
}

const earthRadiusM = 6371000.0

func haversineM(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180
	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusM * math.Asin(math.Sqrt(a))
}
