// Package redisstore wraps the Redis operations backing geo-indexed layers.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openlayar/layard/internal/observability"
)

type Option func(*redis.Options)

func WithPoolSize(n int) Option {
	return func(o *redis.Options) { o.PoolSize = n }
}

func WithMinIdleConns(n int) Option {
	return func(o *redis.Options) { o.MinIdleConns = n }
}

func WithDialTimeout(d time.Duration) Option {
	return func(o *redis.Options) { o.DialTimeout = d }
}

func WithReadTimeout(d time.Duration) Option {
	return func(o *redis.Options) { o.ReadTimeout = d }
}

type Client struct {
	rdb *redis.Client
}

func New(ctx context.Context, addr string, opts ...Option) (*Client, error) {
	if addr == "" {
		return nil, errors.New("redis address is required")
	}

	ro := &redis.Options{
		Addr:         addr,
		PoolSize:     64,
		MinIdleConns: 4,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	}
	for _, f := range opts {
		f(ro)
	}

	rdb := redis.NewClient(ro)

	start := time.Now()
	err := rdb.Ping(ctx).Err()
	observability.ObserveStoreOp("ping", err, time.Since(start).Seconds())
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Client{rdb: rdb}, nil
}

// GeoAdd indexes a member at a position in the key's geo set.
func (c *Client) GeoAdd(ctx context.Context, key, member string, lon, lat float64) error {
	start := time.Now()
	err := c.rdb.GeoAdd(ctx, key, &redis.GeoLocation{
		Name:      member,
		Longitude: lon,
		Latitude:  lat,
	}).Err()
	observability.ObserveStoreOp("geoadd", err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("redis GEOADD %q %q: %w", key, member, err)
	}
	return nil
}

// Near is one geo search hit, nearest first.
type Near struct {
	Member string
	DistM  float64
	Lat    float64
	Lon    float64
}

// GeoRadius returns members within radiusM meters of the position, sorted by
// ascending distance.
func (c *Client) GeoRadius(ctx context.Context, key string, lon, lat, radiusM float64) ([]Near, error) {
	start := time.Now()
	locs, err := c.rdb.GeoRadius(ctx, key, lon, lat, &redis.GeoRadiusQuery{
		Radius:    radiusM,
		Unit:      "m",
		WithCoord: true,
		WithDist:  true,
		Sort:      "ASC",
	}).Result()
	observability.ObserveStoreOp("georadius", err, time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("redis GEORADIUS %q: %w", key, err)
	}

	out := make([]Near, 0, len(locs))
	for _, l := range locs {
		out = append(out, Near{
			Member: l.Name,
			DistM:  l.Dist,
			Lat:    l.Latitude,
			Lon:    l.Longitude,
		})
	}
	return out, nil
}

func (c *Client) ZRem(ctx context.Context, key, member string) error {
	start := time.Now()
	err := c.rdb.ZRem(ctx, key, member).Err()
	observability.ObserveStoreOp("zrem", err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("redis ZREM %q %q: %w", key, member, err)
	}
	return nil
}

func (c *Client) Set(ctx context.Context, key string, val []byte) error {
	start := time.Now()
	err := c.rdb.Set(ctx, key, val, 0).Err()
	observability.ObserveStoreOp("set", err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("redis SET %q: %w", key, err)
	}
	return nil
}

// MGet returns a map of found keys to their values; missing keys are absent.
func (c *Client) MGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	start := time.Now()
	if len(keys) == 0 {
		observability.ObserveStoreOp("mget", nil, time.Since(start).Seconds())
		return map[string][]byte{}, nil
	}

	vals, err := c.rdb.MGet(ctx, keys...).Result()
	observability.ObserveStoreOp("mget", err, time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("redis MGET %d keys: %w", len(keys), err)
	}

	out := make(map[string][]byte, len(vals))
	for i, v := range vals {
		if v == nil {
			continue // missing key
		}
		switch t := v.(type) {
		case string:
			out[keys[i]] = []byte(t)
		case []byte:
			out[keys[i]] = t
		default:
			out[keys[i]] = fmt.Append(nil, t)
		}
	}
	return out, nil
}

func (c *Client) Del(ctx context.Context, keys ...string) error {
	start := time.Now()
	err := c.rdb.Del(ctx, keys...).Err()
	observability.ObserveStoreOp("del", err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("redis DEL %d keys: %w", len(keys), err)
	}
	return nil
}

func (c *Client) Close() error {
	if err := c.rdb.Close(); err != nil {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}
