package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type IngestCfg struct {
	Enabled bool
	Driver  string
	Topic   string
	Brokers string
	GroupID string
}

type Config struct {
	Addr     string
	LogLevel string

	// Layar protocol surface
	SharedSecret   string
	VerifyHash     bool
	ResultsPerPage int
	MaxResults     int
	DefaultRadius  int

	// layer backends
	RedisAddr  string
	SQLitePath string
	H3Res      int

	StoreOpTimeout time.Duration

	Ingest IngestCfg
}

func FromEnv() Config {
	res := getint("H3_RES", 9)
	if res < 0 {
		res = 0
	}
	if res > 15 {
		res = 15
	}

	return Config{
		Addr:     getenv("ADDR", ":8085"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		SharedSecret:   getenv("LAYAR_SHARED_SECRET", ""),
		VerifyHash:     getbool("LAYAR_VERIFY_HASH", false),
		ResultsPerPage: getint("RESULTS_PER_PAGE", 15),
		MaxResults:     getint("MAX_RESULTS", 50),
		DefaultRadius:  getint("DEFAULT_RADIUS", 1000),

		RedisAddr:  getenv("REDIS_ADDR", "localhost:6379"),
		SQLitePath: getenv("SQLITE_PATH", "layard.db"),
		H3Res:      res,

		StoreOpTimeout: getduration("STORE_OP_TIMEOUT", 250*time.Millisecond),

		Ingest: IngestCfg{
			Enabled: getbool("INGEST_ENABLED", false),
			Driver:  getenv("INGEST_DRIVER", "none"),
			Topic:   getenv("KAFKA_TOPIC", "poi-ingest"),
			Brokers: getenv("KAFKA_BROKERS", "localhost:9092"),
			GroupID: getenv("KAFKA_GROUP_ID", "layard-ingest"),
		},
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
