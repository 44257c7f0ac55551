package layar

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func stubLayer() Funcs {
	return Funcs{
		FetchFunc: func(ctx context.Context, c Criteria) (Collection, error) {
			return Items{}, nil
		},
		AdaptFunc: func(item Item) (POI, error) {
			return POI{}, nil
		},
	}
}

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("places", stubLayer())

	if _, err := r.Resolve("places"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
}

func TestRegistryResolveUnknown(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("places", stubLayer())

	_, err := r.Resolve("ghosts")
	var perr *ProtocolError
	if !errors.As(err, &perr) {
		t.Fatalf("got %T, want *ProtocolError", err)
	}
	if perr.Code != CodeNoSuchLayer {
		t.Fatalf("code = %d, want %d", perr.Code, CodeNoSuchLayer)
	}
	if !strings.Contains(perr.Message, "ghosts") {
		t.Fatalf("message %q does not name the layer", perr.Message)
	}
}

func TestRegistryResolveIsExact(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("places", stubLayer())
	for _, name := range []string{"Places", "place", "places "} {
		if _, err := r.Resolve(name); err == nil {
			t.Fatalf("resolve(%q) matched; lookup must be exact", name)
		}
	}
}

func TestRegistryRejects(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("", stubLayer()); err == nil {
		t.Fatal("empty name accepted")
	}
	if err := r.Register("x", nil); err == nil {
		t.Fatal("nil layer accepted")
	}
	if err := r.Register("x", Funcs{FetchFunc: stubLayer().FetchFunc}); err == nil {
		t.Fatal("adapt-less Funcs accepted")
	}
	if err := r.Register("x", Funcs{AdaptFunc: stubLayer().AdaptFunc}); err == nil {
		t.Fatal("fetch-less Funcs accepted")
	}
	r.MustRegister("x", stubLayer())
	if err := r.Register("x", stubLayer()); err == nil {
		t.Fatal("duplicate name accepted")
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("zebra", stubLayer())
	r.MustRegister("alpha", stubLayer())
	names := r.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zebra" {
		t.Fatalf("names = %v", names)
	}
}
