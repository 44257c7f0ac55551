// Package ingest defines the POI feed events that keep layer stores current,
// and the applier seam the layers implement.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Event is one upsert or delete in a layer's POI feed.
type Event struct {
	Version int             `json:"version"`
	Op      string          `json:"op"`
	Layer   string          `json:"layer"`
	ID      string          `json:"id,omitempty"`
	Seq     uint64          `json:"seq,omitempty"`
	TS      time.Time       `json:"ts"`
	Body    json.RawMessage `json:"body,omitempty"`
}

const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

func (e Event) Validate() error {
	if e.Version != 1 {
		return fmt.Errorf("version must be 1")
	}
	switch e.Op {
	case OpUpsert, OpDelete:
	default:
		return fmt.Errorf("op must be upsert|delete")
	}
	if strings.TrimSpace(e.Layer) == "" {
		return fmt.Errorf("layer is required")
	}
	if e.TS.IsZero() {
		return fmt.Errorf("ts is required")
	}
	if e.Op == OpUpsert && len(e.Body) == 0 {
		return fmt.Errorf("upsert requires body")
	}
	if e.Op == OpDelete && e.ID == "" {
		return fmt.Errorf("delete requires id")
	}
	return nil
}

// EffectiveID returns the event's id, deriving a stable one from the layer
// and body when the producer did not assign any.
func (e Event) EffectiveID() string {
	if e.ID != "" {
		return e.ID
	}
	h := xxhash.New()
	_, _ = h.WriteString(e.Layer)
	_, _ = h.WriteString(":")
	_, _ = h.Write(e.Body)
	return fmt.Sprintf("%016x", h.Sum64())
}

// Key identifies the POI an event addresses, for per-POI sequence dedupe.
func (e Event) Key() string {
	return e.Layer + ":" + e.EffectiveID()
}

// Applier applies feed events to one layer's backing store.
type Applier interface {
	Upsert(ctx context.Context, id string, body json.RawMessage) error
	Delete(ctx context.Context, id string) error
}

// Appliers dispatches events by layer name.
type Appliers map[string]Applier

func (a Appliers) Apply(ctx context.Context, e Event) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	ap, ok := a[e.Layer]
	if !ok {
		return fmt.Errorf("no applier for layer %q", e.Layer)
	}
	switch e.Op {
	case OpUpsert:
		return ap.Upsert(ctx, e.EffectiveID(), e.Body)
	default:
		return ap.Delete(ctx, e.ID)
	}
}
