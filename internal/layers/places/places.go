// Package places is a Layar layer backed by a Redis geo index. Place payloads
// live under poi:places:<id>; the geo set geo:places maps ids to positions.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/openlayar/layard/internal/layar"
	"github.com/openlayar/layard/internal/store/redisstore"
)

const (
	geoKey    = "geo:places"
	poiPrefix = "poi:places:"
)

type Place struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Category string  `json:"category,omitempty"`
	Rating   float64 `json:"rating,omitempty"`
	Address  string  `json:"address,omitempty"`
	ImageURL string  `json:"image_url,omitempty"`
	WebURL   string  `json:"web_url,omitempty"`
}

type Layer struct {
	store         *redisstore.Client
	defaultRadius int
}

func New(store *redisstore.Client, defaultRadius int) *Layer {
	return &Layer{store: store, defaultRadius: defaultRadius}
}

// Fetch runs a radius search around the caller and applies the layer's
// widget filters: SEARCHBOX matches the place name, CHECKBOXLIST selects
// categories, CUSTOM_SLIDER is a minimum rating, RADIOLIST picks the
// ordering (distance is the default, "rating" sorts best-rated first).
func (l *Layer) Fetch(ctx context.Context, c layar.Criteria) (layar.Collection, error) {
	radius := l.defaultRadius
	if c.Radius != nil {
		radius = *c.Radius
	}

	near, err := l.store.GeoRadius(ctx, geoKey, c.Longitude, c.Latitude, float64(radius))
	if err != nil {
		return nil, fmt.Errorf("geo search: %w", err)
	}
	if len(near) == 0 {
		return layar.Items{}, nil
	}

	keys := make([]string, len(near))
	for i, n := range near {
		keys[i] = poiPrefix + n.Member
	}
	bodies, err := l.store.MGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load payloads: %w", err)
	}

	minRating, _ := strconv.ParseFloat(strings.TrimSpace(c.SliderValue), 64)
	categories := categorySet(c.Checkboxes)
	search := strings.ToLower(strings.TrimSpace(c.SearchQuery))

	places := make([]Place, 0, len(near))
	for i, n := range near {
		body, ok := bodies[keys[i]]
		if !ok {
			// indexed member without a payload: skip, the index is ahead
			// of the payload write or behind its delete
			continue
		}
		var p Place
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("decode place %s: %w", n.Member, err)
		}
		if p.ID == "" {
			p.ID = n.Member
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if categories != nil {
			if _, ok := categories[p.Category]; !ok {
				continue
			}
		}
		if minRating > 0 && p.Rating < minRating {
			continue
		}
		places = append(places, p)
	}

	if strings.EqualFold(strings.TrimSpace(c.RadioOption), "rating") {
		sort.SliceStable(places, func(i, j int) bool {
			return places[i].Rating > places[j].Rating
		})
	}

	items := make(layar.Items, len(places))
	for i, p := range places {
		items[i] = p
	}
	return items, nil
}

func (l *Layer) Adapt(item layar.Item) (layar.POI, error) {
	p, ok := item.(Place)
	if !ok {
		return layar.POI{}, fmt.Errorf("places: unexpected item type %T", item)
	}

	poi := layar.POI{
		ID:       p.ID,
		Lat:      p.Lat,
		Lon:      p.Lon,
		Title:    p.Name,
		ImageURL: p.ImageURL,
		Line2:    p.Address,
	}
	if p.Category != "" {
		poi.Line3 = p.Category
	}
	if p.Rating > 0 {
		poi.Line4 = fmt.Sprintf("rated %.1f", p.Rating)
	}
	if p.WebURL != "" {
		poi.Actions = []layar.Action{{Label: "Open website", URI: p.WebURL}}
	}
	return poi, nil
}

// Upsert and Delete implement the ingest applier seam.

func (l *Layer) Upsert(ctx context.Context, id string, body json.RawMessage) error {
	var p Place
	if err := json.Unmarshal(body, &p); err != nil {
		return fmt.Errorf("decode place: %w", err)
	}
	if p.ID == "" {
		p.ID = id
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode place: %w", err)
	}
	if err := l.store.Set(ctx, poiPrefix+p.ID, raw); err != nil {
		return err
	}
	return l.store.GeoAdd(ctx, geoKey, p.ID, p.Lon, p.Lat)
}

func (l *Layer) Delete(ctx context.Context, id string) error {
	if err := l.store.ZRem(ctx, geoKey, id); err != nil {
		return err
	}
	return l.store.Del(ctx, poiPrefix+id)
}

func categorySet(checkboxes []string) map[string]struct{} {
	var set map[string]struct{}
	for _, c := range checkboxes {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if set == nil {
			set = map[string]struct{}{}
		}
		set[c] = struct{}{}
	}
	return set
}
