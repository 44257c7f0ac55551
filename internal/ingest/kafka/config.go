package kafka

import (
	"strings"
	"time"
)

type Driver string

const (
	DriverNone  Driver = "none"
	DriverKafka Driver = "kafka"
)

type IngestConfig struct {
	Enabled bool
	Driver  Driver

	Brokers []string
	Topic   string
	GroupID string

	SessionTimeout   time.Duration
	Heartbeat        time.Duration
	RebalanceTimeout time.Duration
	InitialOldest    bool
}

// FromApp maps the service config into the runner's own config, filling in
// the consumer-group timings.
func FromApp(enabled bool, driver, brokers, topic, groupID string) IngestConfig {
	d := Driver(strings.TrimSpace(driver))
	if d == "" {
		d = DriverNone
	}
	return IngestConfig{
		Enabled:          enabled,
		Driver:           d,
		Brokers:          split(brokers),
		Topic:            topic,
		GroupID:          groupID,
		SessionTimeout:   30 * time.Second,
		Heartbeat:        3 * time.Second,
		RebalanceTimeout: 30 * time.Second,
		InitialOldest:    true,
	}
}

func split(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if x := strings.TrimSpace(p); x != "" {
			out = append(out, x)
		}
	}
	return out
}
