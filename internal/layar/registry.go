package layar

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Criteria is the filter object handed to a layer's Fetch. Radius carries the
// caller's value when supplied; layers fall back to their configured default
// when it is nil (the echoed default is recorded by the pipeline, not here).
type Criteria struct {
	Latitude  float64
	Longitude float64
	Radius    *int

	RadioOption  string
	SearchQuery  string
	SearchQuery2 string
	SearchQuery3 string
	SliderValue  string
	SliderValue2 string
	SliderValue3 string
	Checkboxes   []string
}

// Layer is the capability pair a layer name resolves to. Both methods must
// exist; the interface makes fetch-only or adapt-only layers unrepresentable.
type Layer interface {
	Fetch(ctx context.Context, c Criteria) (Collection, error)
	Adapt(item Item) (POI, error)
}

// Funcs adapts a function pair to the Layer interface.
type Funcs struct {
	FetchFunc func(ctx context.Context, c Criteria) (Collection, error)
	AdaptFunc func(item Item) (POI, error)
}

func (f Funcs) Fetch(ctx context.Context, c Criteria) (Collection, error) {
	return f.FetchFunc(ctx, c)
}

func (f Funcs) Adapt(item Item) (POI, error) {
	return f.AdaptFunc(item)
}

// Registry maps layer names to Layer implementations. It is built at startup
// and read-only at request time, so concurrent Resolve calls need no locking.
type Registry struct {
	layers map[string]Layer
}

func NewRegistry() *Registry {
	return &Registry{layers: map[string]Layer{}}
}

func (r *Registry) Register(name string, l Layer) error {
	if name == "" {
		return errors.New("layer name is required")
	}
	if l == nil {
		return fmt.Errorf("layer %q: implementation is required", name)
	}
	if f, ok := l.(Funcs); ok && (f.FetchFunc == nil || f.AdaptFunc == nil) {
		return fmt.Errorf("layer %q: both fetch and adapt are required", name)
	}
	if _, dup := r.layers[name]; dup {
		return fmt.Errorf("layer %q: already registered", name)
	}
	r.layers[name] = l
	return nil
}

func (r *Registry) MustRegister(name string, l Layer) {
	if err := r.Register(name, l); err != nil {
		panic(err)
	}
}

// Resolve is an exact name lookup: no partial matching, no case folding.
// A missing entry is protocol error 21.
func (r *Registry) Resolve(name string) (Layer, error) {
	l, ok := r.layers[name]
	if !ok {
		return nil, Errf(CodeNoSuchLayer, "no such layer: %s", name)
	}
	return l, nil
}

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.layers))
	for name := range r.layers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
