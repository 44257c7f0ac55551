package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/openlayar/layard/internal/ingest"
)

type fakeApplier struct {
	upserts map[string]int
	deletes map[string]int
	err     error
}

func newFakeApplier() *fakeApplier {
	return &fakeApplier{upserts: map[string]int{}, deletes: map[string]int{}}
}

func (f *fakeApplier) Upsert(_ context.Context, id string, _ json.RawMessage) error {
	f.upserts[id]++
	return f.err
}

func (f *fakeApplier) Delete(_ context.Context, id string) error {
	f.deletes[id]++
	return f.err
}

func newTestRunner(ap ingest.Applier) *Runner {
	return New(
		FromApp(true, "kafka", "localhost:9092", "poi-ingest", "test-group"),
		ingest.Appliers{"places": ap},
		Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))},
	)
}

func upsertEvent(id string, seq uint64) ingest.Event {
	return ingest.Event{
		Version: 1,
		Op:      ingest.OpUpsert,
		Layer:   "places",
		ID:      id,
		Seq:     seq,
		TS:      time.Now(),
		Body:    json.RawMessage(`{"id":"` + id + `","name":"A","lat":1,"lon":2}`),
	}
}

func TestApplyDispatches(t *testing.T) {
	ap := newFakeApplier()
	r := newTestRunner(ap)

	if err := r.apply(context.Background(), upsertEvent("p1", 0)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if ap.upserts["p1"] != 1 {
		t.Fatalf("upserts = %v", ap.upserts)
	}

	del := ingest.Event{Version: 1, Op: ingest.OpDelete, Layer: "places", ID: "p1", TS: time.Now()}
	if err := r.apply(context.Background(), del); err != nil {
		t.Fatalf("apply delete: %v", err)
	}
	if ap.deletes["p1"] != 1 {
		t.Fatalf("deletes = %v", ap.deletes)
	}
}

func TestApplyRejectsInvalid(t *testing.T) {
	ap := newFakeApplier()
	r := newTestRunner(ap)

	bad := upsertEvent("p1", 0)
	bad.Version = 9
	if err := r.apply(context.Background(), bad); err == nil {
		t.Fatal("invalid event accepted")
	}
	if len(ap.upserts) != 0 {
		t.Fatalf("invalid event reached the applier: %v", ap.upserts)
	}
}

func TestApplySeqDedupe(t *testing.T) {
	ap := newFakeApplier()
	r := newTestRunner(ap)
	ctx := context.Background()

	if err := r.apply(ctx, upsertEvent("p1", 5)); err != nil {
		t.Fatalf("seq 5: %v", err)
	}
	// replay and stale seq are both dropped silently
	if err := r.apply(ctx, upsertEvent("p1", 5)); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if err := r.apply(ctx, upsertEvent("p1", 3)); err != nil {
		t.Fatalf("stale: %v", err)
	}
	if ap.upserts["p1"] != 1 {
		t.Fatalf("upserts = %d, want 1", ap.upserts["p1"])
	}

	if err := r.apply(ctx, upsertEvent("p1", 6)); err != nil {
		t.Fatalf("seq 6: %v", err)
	}
	if ap.upserts["p1"] != 2 {
		t.Fatalf("newer seq not applied: %d", ap.upserts["p1"])
	}

	// seq 0 means the producer does not sequence; always applied
	if err := r.apply(ctx, upsertEvent("p1", 0)); err != nil {
		t.Fatalf("seq 0: %v", err)
	}
	if ap.upserts["p1"] != 3 {
		t.Fatalf("unsequenced event dropped: %d", ap.upserts["p1"])
	}
}

func TestApplySeqPerKey(t *testing.T) {
	ap := newFakeApplier()
	r := newTestRunner(ap)
	ctx := context.Background()

	if err := r.apply(ctx, upsertEvent("p1", 5)); err != nil {
		t.Fatalf("p1: %v", err)
	}
	if err := r.apply(ctx, upsertEvent("p2", 5)); err != nil {
		t.Fatalf("p2: %v", err)
	}
	if ap.upserts["p1"] != 1 || ap.upserts["p2"] != 1 {
		t.Fatalf("upserts = %v", ap.upserts)
	}
}

func TestStartDisabled(t *testing.T) {
	r := New(
		FromApp(false, "none", "", "poi-ingest", "g"),
		ingest.Appliers{"places": newFakeApplier()},
		Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))},
	)
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("disabled start: %v", err)
	}
	if ready, _ := r.Readiness(); ready {
		t.Fatal("disabled runner reports ready")
	}
	r.Stop()
}

func TestSeqDedupe(t *testing.T) {
	d := newSeqDedupe(4)
	if !d.shouldApply("k", 1) {
		t.Fatal("first seq rejected")
	}
	if d.shouldApply("k", 1) {
		t.Fatal("replay accepted")
	}
	if !d.shouldApply("k", 2) {
		t.Fatal("newer seq rejected")
	}
	if d.shouldApply("k", 1) {
		t.Fatal("stale seq accepted")
	}
}
