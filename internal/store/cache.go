package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/nemflow/nemflow/internal/model"
)

// Snapshot TTLs per data cadence.
const (
	TTL5Min    = 60 * time.Second
	TTL30Min   = 300 * time.Second
	TTLForward = 3600 * time.Second
)

// HotCache writes latest-value JSON snapshots to the KV store under stable
// keys. Every write is best-effort: a cache failure is logged and swallowed
// so it can never fail persistence.
type HotCache struct {
	rdb redis.Cmdable
}

// NewHotCache wraps a redis client.
func NewHotCache(rdb redis.Cmdable) *HotCache {
	return &HotCache{rdb: rdb}
}

func (c *HotCache) set(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if c == nil || c.rdb == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to marshal cache snapshot")
		return
	}
	if err := c.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to write cache snapshot")
	}
}

// SnapshotPrices writes prices:latest plus one prices:{region} key per row.
func (c *HotCache) SnapshotPrices(ctx context.Context, prices []model.DispatchPrice) {
	if len(prices) == 0 {
		return
	}
	c.set(ctx, "prices:latest", prices, TTL5Min)
	for _, dp := range prices {
		c.set(ctx, "prices:"+dp.Region, dp, TTL5Min)
	}
}

// SnapshotFCAS writes fcas:latest.
func (c *HotCache) SnapshotFCAS(ctx context.Context, fcas []model.FCASPrice) {
	if len(fcas) == 0 {
		return
	}
	c.set(ctx, "fcas:latest", fcas, TTL5Min)
}

// SnapshotForward writes forward:{region}:{date} for a predispatch run.
func (c *HotCache) SnapshotForward(ctx context.Context, region string, day time.Time, rows []model.PredispatchRegion) {
	if len(rows) == 0 {
		return
	}
	key := fmt.Sprintf("forward:%s:%s", region, day.UTC().Format("2006-01-02"))
	c.set(ctx, key, rows, TTLForward)
}

// SnapshotDemandForecast writes demand:forecast:{region} for a P5MIN run.
func (c *HotCache) SnapshotDemandForecast(ctx context.Context, region string, rows []model.P5Forecast) {
	if len(rows) == 0 {
		return
	}
	c.set(ctx, "demand:forecast:"+region, rows, TTL30Min)
}

// ComprehensiveSnapshot is the everything-at-once view pushed after a full
// dispatch ingest, consumed by the live hub and the diagnostics endpoint.
type ComprehensiveSnapshot struct {
	Prices      []model.DispatchPrice  `json:"prices"`
	FCAS        []model.FCASPrice      `json:"fcas,omitempty"`
	Batteries   []model.BatteryDispatch `json:"batteries,omitempty"`
	FuelMix     []model.FuelMix        `json:"fuel_mix,omitempty"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// SnapshotComprehensive writes comprehensive:latest.
func (c *HotCache) SnapshotComprehensive(ctx context.Context, snap ComprehensiveSnapshot) {
	c.set(ctx, "comprehensive:latest", snap, TTL5Min)
}

// ProbeKeys checks existence of the standard snapshot keys and returns how
// many respond, for the validator's cache health check.
func (c *HotCache) ProbeKeys(ctx context.Context) (hits, total int) {
	keys := []string{"prices:latest", "fcas:latest"}
	for _, r := range model.Regions {
		keys = append(keys, "prices:"+r)
	}
	if c == nil || c.rdb == nil {
		return 0, len(keys)
	}
	for _, key := range keys {
		n, err := c.rdb.Exists(ctx, key).Result()
		if err == nil && n > 0 {
			hits++
		}
	}
	return hits, len(keys)
}
