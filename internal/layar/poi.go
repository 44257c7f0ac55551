package layar

import "math"

// Action is one entry in a POI's ordered action list. Layar v3 optionally
// allows auto-trigger fields.
type Action struct {
	Label            string `json:"label"`
	URI              string `json:"uri"`
	AutoTriggerOnly  bool   `json:"autoTriggerOnly,omitempty"`
	AutoTriggerRange int    `json:"autoTriggerRange,omitempty"`
}

// POI is a point of interest as the layer adapters produce it. ID is a string
// even when the source identifier is numeric; adapters convert. Lat/Lon are
// degrees; the wire conversion happens in Encode.
//
// String lengths are recommendations from the Layar publishing docs, not
// enforced here: title <= 60, line2-4 <= 35, attribution <= 45.
type POI struct {
	ID    string
	Lat   float64
	Lon   float64
	Title string

	ImageURL    string
	Line2       string
	Line3       string
	Line4       string
	Attribution string

	// Type's meaning is set when publishing the layer; zero is valid.
	Type int

	// Dimension selects the display style: 1 point marker, 2 image,
	// 3 3d object. Zero encodes as 1.
	Dimension int

	// Alt and RelativeAlt are meters. Zero means unset and is elided from
	// the encoding; a POI at exactly 0m cannot be distinguished, by design.
	Alt         int
	RelativeAlt int

	Transform map[string]any
	Object    map[string]any

	// Actions keeps its order on the wire. A nil slice encodes as [].
	Actions []Action
}

// Hotspot is the wire-encoded form of a POI.
type Hotspot map[string]any

// Encode produces the hotspot mapping for the response body. It is pure: the
// receiver is never mutated, and encoding the same POI twice yields identical
// output.
//
// Rules, in order: elide falsy optionals, convert lat/lon to 1e-6 fixed
// point truncating toward zero, default dimension to 1, normalize nil
// actions to an empty list.
func (p POI) Encode() Hotspot {
	h := Hotspot{
		"id":    p.ID,
		"lat":   fixedPoint(p.Lat),
		"lon":   fixedPoint(p.Lon),
		"title": p.Title,
		"type":  p.Type,
	}

	dim := p.Dimension
	if dim == 0 {
		dim = 1
	}
	h["dimension"] = dim

	actions := p.Actions
	if actions == nil {
		actions = []Action{}
	}
	h["actions"] = actions

	if p.ImageURL != "" {
		h["imageURL"] = p.ImageURL
	}
	if p.Line2 != "" {
		h["line2"] = p.Line2
	}
	if p.Line3 != "" {
		h["line3"] = p.Line3
	}
	if p.Line4 != "" {
		h["line4"] = p.Line4
	}
	if p.Attribution != "" {
		h["attribution"] = p.Attribution
	}
	if p.Alt != 0 {
		h["alt"] = p.Alt
	}
	if p.RelativeAlt != 0 {
		h["relativeAlt"] = p.RelativeAlt
	}
	if len(p.Transform) > 0 {
		h["transform"] = p.Transform
	}
	if len(p.Object) > 0 {
		h["object"] = p.Object
	}

	return h
}

// fixedPoint scales a degree coordinate by 1,000,000 and truncates toward
// zero, as the wire protocol requires.
func fixedPoint(deg float64) int64 {
	return int64(math.Trunc(deg * 1e6))
}
