package layar

import (
	"net/url"
	"strconv"
	"strings"
)

// Params is the typed view over the raw GetPointsOfInterest query parameters.
// Optional numeric fields are nil when the caller did not supply them;
// defaults are applied downstream, not here.
type Params struct {
	UserID        string
	DeveloperHash string
	Timestamp     string
	LayerName     string
	Lat           float64
	Lon           float64

	Accuracy *int
	Radius   *int
	Alt      *int
	PageKey  int

	// user-defined UI widgets configured on the layer
	RadioOption string
	Search      string
	Search2     string
	Search3     string
	Slider      string
	Slider2     string
	Slider3     string
	Checkboxes  []string
}

// ParseParams validates the raw query map. Any failure is a *BadRequestError
// naming the offending parameter.
func ParseParams(q url.Values) (Params, error) {
	var p Params
	var err error

	if p.UserID, err = required(q, "userId"); err != nil {
		return Params{}, err
	}
	if p.DeveloperHash, err = required(q, "developerHash"); err != nil {
		return Params{}, err
	}
	if p.Timestamp, err = required(q, "timestamp"); err != nil {
		return Params{}, err
	}
	if p.LayerName, err = required(q, "layerName"); err != nil {
		return Params{}, err
	}
	if p.Lat, err = requiredFloat(q, "lat"); err != nil {
		return Params{}, err
	}
	if p.Lon, err = requiredFloat(q, "lon"); err != nil {
		return Params{}, err
	}

	if p.Accuracy, err = optionalInt(q, "accuracy"); err != nil {
		return Params{}, err
	}
	if p.Radius, err = optionalInt(q, "radius"); err != nil {
		return Params{}, err
	}
	if p.Alt, err = optionalInt(q, "alt"); err != nil {
		return Params{}, err
	}

	page, err := optionalInt(q, "pageKey")
	if err != nil {
		return Params{}, err
	}
	if page != nil {
		p.PageKey = *page
	}

	p.RadioOption = q.Get("RADIOLIST")
	p.Search = q.Get("SEARCHBOX")
	p.Search2 = q.Get("SEARCHBOX_2")
	p.Search3 = q.Get("SEARCHBOX_3")
	p.Slider = q.Get("CUSTOM_SLIDER")
	p.Slider2 = q.Get("CUSTOM_SLIDER_2")
	p.Slider3 = q.Get("CUSTOM_SLIDER_3")
	if cb := q.Get("CHECKBOXLIST"); cb != "" {
		p.Checkboxes = strings.Split(cb, ",")
	}

	return p, nil
}

func required(q url.Values, key string) (string, error) {
	if !q.Has(key) {
		return "", &BadRequestError{Param: key}
	}
	return q.Get(key), nil
}

func requiredFloat(q url.Values, key string) (float64, error) {
	s, err := required(q, key)
	if err != nil {
		return 0, err
	}
	f, perr := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if perr != nil {
		return 0, &BadRequestError{Param: key, Err: perr}
	}
	return f, nil
}

// optionalInt returns nil when the parameter is absent or empty.
func optionalInt(q url.Values, key string) (*int, error) {
	s := q.Get(key)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil, &BadRequestError{Param: key, Err: err}
	}
	return &n, nil
}
