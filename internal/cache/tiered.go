// Package cache provides the two-tier read cache and the request coalescer
// that sit between the API handlers and the relational store.
package cache

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// Tier labels surfaced on API responses via the X-Cache header.
const (
	TierKV   = "kv"
	TierHTTP = "http"
	TierMiss = "miss"
)

// promoteTTL is the first-tier TTL applied when a second-tier hit is copied
// forward.
const promoteTTL = 60 * time.Second

// Tiered is a two-tier cache: redis in front, an HTTP response cache behind.
// The second tier is keyed by request key and holds synthetic responses so an
// entry outlives a redis flush.
type Tiered struct {
	rdb redis.Cmdable

	mu   sync.RWMutex
	http map[string]httpEntry
}

type httpEntry struct {
	body      []byte
	header    http.Header
	expiresAt time.Time
}

// New returns a tiered cache over the given redis client.
func New(rdb redis.Cmdable) *Tiered {
	return &Tiered{
		rdb:  rdb,
		http: make(map[string]httpEntry),
	}
}

// Get looks key up in the first tier, then requestKey in the second. A
// second-tier hit is promoted into the first tier with a 60-second TTL. The
// returned tier is one of kv, http or miss.
func (t *Tiered) Get(ctx context.Context, key, requestKey string) ([]byte, string, bool) {
	if t.rdb != nil {
		if b, err := t.rdb.Get(ctx, key).Bytes(); err == nil {
			return b, TierKV, true
		} else if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("first-tier cache read failed")
		}
	}

	t.mu.RLock()
	entry, ok := t.http[requestKey]
	t.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, TierMiss, false
	}

	if t.rdb != nil {
		if err := t.rdb.Set(ctx, key, entry.body, promoteTTL).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache promotion failed")
		}
	}
	return entry.body, TierHTTP, true
}

// Set writes data to the first tier under key with the given TTL and, when a
// requestKey is supplied, stores a synthetic response in the second tier
// carrying Cache-Control: public, max-age={ttl}.
func (t *Tiered) Set(ctx context.Context, key string, data []byte, ttl time.Duration, requestKey string) {
	if t.rdb != nil {
		if err := t.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("first-tier cache write failed")
		}
	}
	if requestKey == "" {
		return
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	header.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(ttl.Seconds())))

	t.mu.Lock()
	t.http[requestKey] = httpEntry{body: data, header: header, expiresAt: time.Now().Add(ttl)}
	t.mu.Unlock()
}

// ResponseHeader returns the stored synthetic response headers for a second
// tier entry, or nil when absent.
func (t *Tiered) ResponseHeader(requestKey string) http.Header {
	t.mu.RLock()
	defer t.mu.RUnlock()
	entry, ok := t.http[requestKey]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil
	}
	return entry.header
}

// TrackKey appends key to the index set for pattern, so Invalidate can find
// it later. Writers call this alongside Set.
func (t *Tiered) TrackKey(ctx context.Context, pattern, key string) {
	if t.rdb == nil {
		return
	}
	if err := t.rdb.SAdd(ctx, "index:"+pattern, key).Err(); err != nil {
		log.Warn().Err(err).Str("pattern", pattern).Msg("failed to track cache key")
	}
}

// Invalidate deletes every key recorded under index:<pattern> plus the index
// itself. The second tier is left to expire by TTL.
func (t *Tiered) Invalidate(ctx context.Context, pattern string) int {
	if t.rdb == nil {
		return 0
	}
	indexKey := "index:" + pattern
	keys, err := t.rdb.SMembers(ctx, indexKey).Result()
	if err != nil {
		log.Warn().Err(err).Str("pattern", pattern).Msg("failed to read cache index")
		return 0
	}
	if len(keys) == 0 {
		return 0
	}
	deleted := 0
	if n, err := t.rdb.Del(ctx, keys...).Result(); err == nil {
		deleted = int(n)
	} else {
		log.Warn().Err(err).Str("pattern", pattern).Msg("failed to delete indexed cache keys")
	}
	if err := t.rdb.Del(ctx, indexKey).Err(); err != nil {
		log.Warn().Err(err).Str("pattern", pattern).Msg("failed to delete cache index")
	}
	return deleted
}
