package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/openlayar/layard/internal/config"
	"github.com/openlayar/layard/internal/health"
	"github.com/openlayar/layard/internal/ingest"
	ingestkafka "github.com/openlayar/layard/internal/ingest/kafka"
	"github.com/openlayar/layard/internal/layar"
	"github.com/openlayar/layard/internal/layers/events"
	"github.com/openlayar/layard/internal/layers/places"
	"github.com/openlayar/layard/internal/logger"
	"github.com/openlayar/layard/internal/observability"
	"github.com/openlayar/layard/internal/server"
	"github.com/openlayar/layard/internal/store/redisstore"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func run() int {
	cfg := config.FromEnv()

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   strings.ToLower(os.Getenv("LOG_CONSOLE")) == "true",
		SampleN:   envInt("LOG_SAMPLE_N", 0),
		Component: "layard",
	}, os.Stdout)

	log := logger.NewSlog(&zl)

	observability.ExposeBuildInfo(Version)
	log.Info("starting layard",
		"addr", cfg.Addr,
		"version", Version,
		"verify_hash", cfg.VerifyHash)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := layar.NewRegistry()
	appliers := ingest.Appliers{}

	if cfg.RedisAddr != "" {
		rcli, err := redisstore.New(ctx, cfg.RedisAddr,
			redisstore.WithDialTimeout(cfg.StoreOpTimeout*4),
			redisstore.WithReadTimeout(cfg.StoreOpTimeout))
		if err != nil {
			log.Error("redis connect failed", "addr", cfg.RedisAddr, "err", err)
			return 1
		}
		defer func() { _ = rcli.Close() }()

		pl := places.New(rcli, cfg.DefaultRadius)
		reg.MustRegister("places", pl)
		appliers["places"] = pl
	}

	if cfg.SQLitePath != "" {
		el, err := events.Open(cfg.SQLitePath, cfg.H3Res, cfg.DefaultRadius)
		if err != nil {
			log.Error("sqlite open failed", "path", cfg.SQLitePath, "err", err)
			return 1
		}
		defer func() { _ = el.Close() }()

		reg.MustRegister("events", el)
		appliers["events"] = el
	}

	log.Info("layers registered", "layers", strings.Join(reg.Names(), ","))

	var ready health.ReadinessReporter
	if cfg.Ingest.Enabled {
		runner := ingestkafka.New(
			ingestkafka.FromApp(cfg.Ingest.Enabled, cfg.Ingest.Driver,
				cfg.Ingest.Brokers, cfg.Ingest.Topic, cfg.Ingest.GroupID),
			appliers,
			ingestkafka.Options{Logger: log},
		)
		if err := runner.Start(ctx); err != nil {
			log.Error("ingest runner start failed", "err", err)
			return 1
		}
		defer runner.Stop()
		ready = runner
	}

	pipeline := layar.NewPipeline(layar.Options{
		ResultsPerPage: cfg.ResultsPerPage,
		MaxResults:     cfg.MaxResults,
		DefaultRadius:  cfg.DefaultRadius,
		VerifyHash:     cfg.VerifyHash,
		SharedSecret:   cfg.SharedSecret,
	}, reg, log)

	if err := server.Run(ctx, cfg, log, pipeline, ready); err != nil {
		log.Error("server exited with error", "err", err)
		return 1
	}
	log.Info("server stopped")
	return 0
}
