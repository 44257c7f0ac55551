package layar

// ContentType is what Layar clients expect for response bodies.
const ContentType = "application/javascript; charset=utf-8"

// Response is the GetPointsOfInterest body. NextPageKey serializes as null
// when there is no further page; radius appears only when the caller omitted
// one and the layer's default was used.
type Response struct {
	Hotspots    []Hotspot `json:"hotspots"`
	Layer       string    `json:"layer"`
	ErrorCode   int       `json:"errorCode"`
	ErrorString string    `json:"errorString"`
	NextPageKey *string   `json:"nextPageKey"`
	MorePages   bool      `json:"morePages"`
	Radius      int       `json:"radius,omitempty"`
}

func newResponse(layerName string) *Response {
	return &Response{
		Hotspots:    []Hotspot{},
		Layer:       layerName,
		ErrorCode:   CodeOK,
		ErrorString: "ok",
	}
}
