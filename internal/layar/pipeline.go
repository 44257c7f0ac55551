package layar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/openlayar/layard/internal/observability"
)

// Options is the pipeline's configuration surface. Zero ResultsPerPage
// disables pagination; zero MaxResults disables the global cap.
type Options struct {
	ResultsPerPage int
	MaxResults     int
	DefaultRadius  int
	VerifyHash     bool
	SharedSecret   string
}

// Pipeline turns one parsed request into one Response. It holds no mutable
// state, so a single instance serves concurrent requests.
type Pipeline struct {
	opts Options
	reg  *Registry
	log  *slog.Logger
}

func NewPipeline(opts Options, reg *Registry, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{opts: opts, reg: reg, log: log}
}

// Handle runs the request through parse, auth, dispatch, pagination and
// encoding. A non-nil error is transport-fatal (*BadRequestError); every
// failure past parsing is captured into the response body instead.
func (p *Pipeline) Handle(ctx context.Context, q url.Values) (*Response, error) {
	ps, err := ParseParams(q)
	if err != nil {
		return nil, err
	}

	resp := newResponse(ps.LayerName)
	if err := p.serve(ctx, ps, resp); err != nil {
		var perr *ProtocolError
		if !errors.As(err, &perr) {
			p.log.Error("layer failure", "layer", ps.LayerName, "err", err)
			perr = Errf(CodeLayerFailure, "layer failure: %s", ps.LayerName)
		}
		resp.ErrorCode = perr.Code
		resp.ErrorString = perr.Message
	}
	return resp, nil
}

func (p *Pipeline) serve(ctx context.Context, ps Params, resp *Response) error {
	if p.opts.VerifyHash {
		if !VerifyHash(p.opts.SharedSecret, ps.Timestamp, ps.DeveloperHash) {
			return Errf(CodeBadHash, "Bad developerHash")
		}
	}

	layer, err := p.reg.Resolve(ps.LayerName)
	if err != nil {
		return err
	}

	crit := Criteria{
		Latitude:     ps.Lat,
		Longitude:    ps.Lon,
		Radius:       ps.Radius,
		RadioOption:  ps.RadioOption,
		SearchQuery:  ps.Search,
		SearchQuery2: ps.Search2,
		SearchQuery3: ps.Search3,
		SliderValue:  ps.Slider,
		SliderValue2: ps.Slider2,
		SliderValue3: ps.Slider3,
		Checkboxes:   ps.Checkboxes,
	}

	start := time.Now()
	col, err := layer.Fetch(ctx, crit)
	observability.ObserveLayerFetch(ps.LayerName, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("fetch %s: %w", ps.LayerName, err)
	}

	items, morePages, nextPageKey := Paginate(col, ps.PageKey, p.opts.ResultsPerPage, p.opts.MaxResults)
	resp.MorePages = morePages
	if nextPageKey != "" {
		resp.NextPageKey = &nextPageKey
	}

	hotspots := make([]Hotspot, 0, len(items))
	for _, it := range items {
		poi, err := layer.Adapt(it)
		if err != nil {
			return fmt.Errorf("adapt %s: %w", ps.LayerName, err)
		}
		hotspots = append(hotspots, poi.Encode())
	}
	resp.Hotspots = hotspots

	// echo the radius used when the caller did not pin one
	if ps.Radius == nil {
		resp.Radius = p.opts.DefaultRadius
	}
	return nil
}
