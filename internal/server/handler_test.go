package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/openlayar/layard/internal/layar"
)

func newTestHandler(t *testing.T) http.HandlerFunc {
	t.Helper()

	reg := layar.NewRegistry()
	reg.MustRegister("places", layar.Funcs{
		FetchFunc: func(ctx context.Context, c layar.Criteria) (layar.Collection, error) {
			return layar.Items{1, 2, 3}, nil
		},
		AdaptFunc: func(item layar.Item) (layar.POI, error) {
			return layar.POI{ID: fmt.Sprint(item), Lat: 52.37, Lon: 4.89, Title: "spot"}, nil
		},
	})
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := layar.NewPipeline(layar.Options{ResultsPerPage: 15, MaxResults: 50, DefaultRadius: 1000}, reg, log)
	return HandleGetPOIs(log, p)
}

func poiRequest(layerName string) *http.Request {
	q := url.Values{
		"userId":        {"u-1"},
		"developerHash": {"deadbeef"},
		"timestamp":     {"1"},
		"layerName":     {layerName},
		"lat":           {"52.37"},
		"lon":           {"4.89"},
	}
	return httptest.NewRequest(http.MethodGet, "/layar?"+q.Encode(), nil)
}

func TestHandleGetPOIsSuccess(t *testing.T) {
	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, poiRequest("places"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != layar.ContentType {
		t.Fatalf("content type = %q", ct)
	}

	var body struct {
		Hotspots    []map[string]any `json:"hotspots"`
		Layer       string           `json:"layer"`
		ErrorCode   int              `json:"errorCode"`
		ErrorString string           `json:"errorString"`
		NextPageKey *string          `json:"nextPageKey"`
		MorePages   bool             `json:"morePages"`
		Radius      int              `json:"radius"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ErrorCode != 0 || body.ErrorString != "ok" || body.Layer != "places" {
		t.Fatalf("body: %+v", body)
	}
	if len(body.Hotspots) != 3 {
		t.Fatalf("hotspots = %d", len(body.Hotspots))
	}
	if body.NextPageKey != nil || body.MorePages {
		t.Fatalf("pagination: next=%v more=%v", body.NextPageKey, body.MorePages)
	}
	if body.Radius != 1000 {
		t.Fatalf("radius = %d", body.Radius)
	}

	// nextPageKey must be present as an explicit null
	if !strings.Contains(rec.Body.String(), `"nextPageKey":null`) {
		t.Fatalf("nextPageKey not serialized as null: %s", rec.Body.String())
	}
}

func TestHandleGetPOIsMissingParam(t *testing.T) {
	h := newTestHandler(t)
	q := url.Values{
		"userId":    {"u-1"},
		"timestamp": {"1"},
		"layerName": {"places"},
		"lat":       {"52.37"},
		"lon":       {"4.89"},
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/layar?"+q.Encode(), nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "developerHash") {
		t.Fatalf("400 body does not name the parameter: %s", rec.Body.String())
	}
}

func TestHandleGetPOIsUnknownLayerIs200(t *testing.T) {
	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, poiRequest("nope"))

	if rec.Code != http.StatusOK {
		t.Fatalf("captured errors must stay 200, got %d", rec.Code)
	}
	var body layar.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ErrorCode != layar.CodeNoSuchLayer || body.ErrorString != "no such layer: nope" {
		t.Fatalf("body: %+v", body)
	}
	if body.Hotspots == nil || len(body.Hotspots) != 0 {
		t.Fatalf("hotspots = %v, want empty list", body.Hotspots)
	}
}
