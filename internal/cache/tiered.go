package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"vc7day/internal/observability"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Loader produces the value for a key on a full miss.
type Loader func(ctx context.Context) ([]byte, error)

// Tiered is a read-through byte cache: in-process memory first, then Redis,
// then the loader. Concurrent misses for one key share a single load.
// Values are copied on the way out so callers may mutate what they decode.
// A fill never replaces a value written by Set or Delete after the fill began.
type Tiered struct {
	local *gocache.Cache
	rdb   *redis.Client
	ttl   time.Duration
	group singleflight.Group

	mu  sync.Mutex
	gen map[string]uint64
}

// NewTiered creates a Tiered cache. rdb may be nil for a memory-only cache.
func NewTiered(rdb *redis.Client, ttl time.Duration) *Tiered {
	if ttl <= 0 {
		ttl = DocumentTTL
	}
	return &Tiered{
		local: gocache.New(ttl, 2*ttl),
		rdb:   rdb,
		ttl:   ttl,
		gen:   make(map[string]uint64),
	}
}

// Get returns the cached bytes for key, loading and storing them on a miss.
func (t *Tiered) Get(ctx context.Context, key string, load Loader) ([]byte, error) {
	if v, ok := t.local.Get(key); ok {
		observability.CacheLookups.WithLabelValues("memory", "hit").Inc()
		return clone(v.([]byte)), nil
	}
	observability.CacheLookups.WithLabelValues("memory", "miss").Inc()

	v, err, _ := t.group.Do(key, func() (interface{}, error) {
		start := t.generation(key)

		if t.rdb != nil {
			data, err := t.rdb.Get(ctx, key).Bytes()
			switch {
			case err == nil:
				observability.CacheLookups.WithLabelValues("redis", "hit").Inc()
				t.fill(ctx, key, data, start, false)
				return data, nil
			case errors.Is(err, redis.Nil):
				observability.CacheLookups.WithLabelValues("redis", "miss").Inc()
			default:
				observability.CacheLookups.WithLabelValues("redis", "error").Inc()
			}
		}

		data, err := load(ctx)
		if err != nil {
			return nil, err
		}
		t.fill(ctx, key, data, start, true)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return clone(v.([]byte)), nil
}

// Set stores data under key in both tiers. Redis failures only cost a
// future miss.
func (t *Tiered) Set(ctx context.Context, key string, data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen[key]++
	t.group.Forget(key)
	t.store(ctx, key, clone(data), true)
}

// Delete evicts key from both tiers.
func (t *Tiered) Delete(ctx context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen[key]++
	t.group.Forget(key)
	t.local.Delete(key)
	if t.rdb != nil {
		if err := t.rdb.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("evict %s: %w", key, err)
		}
	}
	return nil
}

func (t *Tiered) generation(key string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen[key]
}

// fill stores a value read on a miss unless a write landed since start.
func (t *Tiered) fill(ctx context.Context, key string, data []byte, start uint64, toRedis bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.gen[key] != start {
		observability.CacheLookups.WithLabelValues("memory", "stale_fill").Inc()
		return
	}
	t.store(ctx, key, clone(data), toRedis)
}

// store writes both tiers. Callers hold t.mu.
func (t *Tiered) store(ctx context.Context, key string, data []byte, toRedis bool) {
	t.local.Set(key, data, gocache.DefaultExpiration)
	if toRedis && t.rdb != nil {
		_ = t.rdb.Set(ctx, key, data, t.ttl).Err()
	}
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
