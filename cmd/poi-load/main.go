// poi-load bulk-applies a JSON file of POI feed events to the layer stores,
// for seeding and backfills. The file holds an array of the same events the
// Kafka feed carries.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/openlayar/layard/internal/config"
	"github.com/openlayar/layard/internal/ingest"
	"github.com/openlayar/layard/internal/layers/events"
	"github.com/openlayar/layard/internal/layers/places"
	"github.com/openlayar/layard/internal/store/redisstore"
)

func main() {
	file := flag.String("file", "", "path to a JSON array of feed events")
	flag.Parse()
	if *file == "" {
		log.Fatal("usage: poi-load -file events.json")
	}

	cfg := config.FromEnv()
	ctx := context.Background()

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read %s: %v", *file, err)
	}
	var evs []ingest.Event
	if err := json.Unmarshal(raw, &evs); err != nil {
		log.Fatalf("decode %s: %v", *file, err)
	}

	appliers := ingest.Appliers{}

	if cfg.RedisAddr != "" {
		rcli, err := redisstore.New(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatalf("redis connect: %v", err)
		}
		defer func() { _ = rcli.Close() }()
		appliers["places"] = places.New(rcli, cfg.DefaultRadius)
	}
	if cfg.SQLitePath != "" {
		el, err := events.Open(cfg.SQLitePath, cfg.H3Res, cfg.DefaultRadius)
		if err != nil {
			log.Fatalf("sqlite open: %v", err)
		}
		defer func() { _ = el.Close() }()
		appliers["events"] = el
	}

	applied, skipped := 0, 0
	for i, ev := range evs {
		if err := appliers.Apply(ctx, ev); err != nil {
			log.Printf("event %d (%s %s): %v", i, ev.Op, ev.Layer, err)
			skipped++
			continue
		}
		applied++
	}
	log.Printf("done: %d applied, %d skipped", applied, skipped)
}
