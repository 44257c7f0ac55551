// Package spatial computes H3 cell covers for radius queries.
package spatial

import (
	"fmt"
	"math"
	"sort"

	h3 "github.com/uber/h3-go/v4"
)

// avgEdgeLengthM is the average hexagon edge length in meters per H3
// resolution, from the H3 reference tables.
var avgEdgeLengthM = [16]float64{
	1281256.011,
	483056.8391,
	182512.9565,
	68979.22179,
	26071.75968,
	9854.09099,
	3724.532667,
	1406.475763,
	531.414010,
	200.786148,
	75.863783,
	28.663897,
	10.830188,
	4.092010,
	1.546100,
	0.584169,
}

// CellsForRadius returns the unique, sorted cell ids at the given resolution
// whose disk around the center covers a radius in meters. The cover is
// intentionally generous: callers refine by true distance afterwards.
func CellsForRadius(lat, lon, radiusM float64, res int) ([]string, error) {
	if err := validateRes(res); err != nil {
		return nil, err
	}
	if radiusM <= 0 {
		return nil, fmt.Errorf("radius must be positive, got %f", radiusM)
	}

	center, err := h3.LatLngToCell(h3.LatLng{Lat: lat, Lng: lon}, res)
	if err != nil {
		return nil, fmt.Errorf("h3 cell for center: %w", err)
	}

	k := ringsForRadius(radiusM, res)
	cells, err := h3.GridDisk(center, k)
	if err != nil {
		return nil, fmt.Errorf("h3 grid disk k=%d: %w", k, err)
	}

	out := make([]string, 0, len(cells))
	seen := make(map[string]struct{}, len(cells))
	for _, c := range cells {
		s := c.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}

// CellFor returns the cell id containing a point, used when indexing records.
func CellFor(lat, lon float64, res int) (string, error) {
	if err := validateRes(res); err != nil {
		return "", err
	}
	c, err := h3.LatLngToCell(h3.LatLng{Lat: lat, Lng: lon}, res)
	if err != nil {
		return "", fmt.Errorf("h3 cell: %w", err)
	}
	return c.String(), nil
}

func validateRes(res int) error {
	if res < 0 || res > 15 {
		return fmt.Errorf("invalid H3 resolution %d (must be 0..15)", res)
	}
	return nil
}

// ringsForRadius picks the GridDisk k that covers radiusM. Hex centers at
// ring k sit roughly k*edge*sqrt(3) from the origin; one extra ring absorbs
// the cell geometry slack.
func ringsForRadius(radiusM float64, res int) int {
	step := avgEdgeLengthM[res] * math.Sqrt(3)
	return int(math.Ceil(radiusM/step)) + 1
}
