package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cyphera/cyphera-tax/libs/go/clock"
	"github.com/cyphera/cyphera-tax/libs/go/config"
	"github.com/cyphera/cyphera-tax/libs/go/interfaces"
	"github.com/cyphera/cyphera-tax/libs/go/logger"
	"github.com/cyphera/cyphera-tax/libs/go/taxerrors"
	"github.com/cyphera/cyphera-tax/libs/go/types/business"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// RateCache holds validated rate schedules for a bounded time and makes sure
// at most one fetch per key is outstanding.
//
// Lookups that miss join the key's in-flight load if there is one. A load runs
// detached from the context of the caller that started it, so one caller giving
// up does not fail the others. Failed loads store nothing, and expired entries
// are evicted on access rather than served.
type RateCache struct {
	fetcher interfaces.RateFetcher
	parser  interfaces.ScheduleParser
	clock   clock.Clock
	ttl     time.Duration
	logger  *zap.Logger

	cacheMutex sync.RWMutex
	cache      map[business.CacheKey]*CachedSchedule
	// generations is bumped per key by Invalidate and epoch by Clear, so a
	// load started before either call does not repopulate the cache afterwards.
	generations map[business.CacheKey]uint64
	epoch       uint64

	flights  singleflight.Group
	inFlight atomic.Int64
	hits     atomic.Int64
	misses   atomic.Int64
	fetches  atomic.Int64
	failures atomic.Int64
}

// CachedSchedule is a cache entry with its expiry
type CachedSchedule struct {
	Schedule  *business.RateSchedule
	StoredAt  time.Time
	ExpiresAt time.Time
}

// RateCacheStats is a point-in-time view of the cache counters
type RateCacheStats struct {
	Entries  int
	Expired  int
	InFlight int64
	Hits     int64
	Misses   int64
	Fetches  int64
	Failures int64
	TTL      time.Duration
}

// RateCacheOption configures a RateCache
type RateCacheOption func(*RateCache)

func WithCacheTTL(ttl time.Duration) RateCacheOption {
	return func(c *RateCache) { c.ttl = ttl }
}

func WithCacheClock(clk clock.Clock) RateCacheOption {
	return func(c *RateCache) { c.clock = clk }
}

func WithCacheLogger(log *zap.Logger) RateCacheOption {
	return func(c *RateCache) { c.logger = log }
}

// NewRateCache creates a cache that loads misses through fetcher and parser
func NewRateCache(fetcher interfaces.RateFetcher, parser interfaces.ScheduleParser, opts ...RateCacheOption) *RateCache {
	c := &RateCache{
		fetcher: fetcher,
		parser:  parser,
		clock:   clock.Real(),
		ttl:     config.DefaultCacheTTL,
		logger:  logger.Log,
		cache:   make(map[business.CacheKey]*CachedSchedule),

		generations: make(map[business.CacheKey]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logger.ForComponent(c.logger, logger.ComponentCache)
	return c
}

// GetOrFetch returns the cached schedule for key, loading it on a miss.
// Cancelling ctx returns ctx.Err() to this caller only; a load it started
// keeps running and still populates the cache for later callers.
func (c *RateCache) GetOrFetch(ctx context.Context, key business.CacheKey) (*business.RateSchedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx, c.logger).With(zap.String("cache_key", key.String()))

	if schedule, ok := c.getCachedSchedule(key); ok {
		c.hits.Add(1)
		log.Debug("Rate cache hit")
		return schedule, nil
	}
	c.misses.Add(1)
	log.Debug("Rate cache miss")

	loadCtx := context.WithoutCancel(ctx)
	ch := c.flights.DoChan(key.String(), func() (interface{}, error) {
		return c.load(loadCtx, key, log)
	})

	select {
	case <-ctx.Done():
		log.Debug("Caller stopped waiting for rate schedule", zap.Error(ctx.Err()))
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		schedule, ok := res.Val.(*business.RateSchedule)
		if !ok || schedule == nil {
			return nil, taxerrors.Cache("get_or_fetch", "in-flight load for %s produced no schedule", key)
		}
		return schedule, nil
	}
}

// load runs once per flight. It re-checks the cache because a flight for the
// same key may have completed between the caller's miss and this flight starting.
func (c *RateCache) load(ctx context.Context, key business.CacheKey, log *zap.Logger) (*business.RateSchedule, error) {
	if schedule, ok := c.getCachedSchedule(key); ok {
		return schedule, nil
	}

	c.cacheMutex.RLock()
	stamp := loadStamp{epoch: c.epoch, generation: c.generations[key]}
	c.cacheMutex.RUnlock()

	c.fetches.Add(1)
	c.inFlight.Add(1)
	defer c.inFlight.Add(-1)

	start := c.clock.Now()
	doc, err := c.fetcher.Fetch(ctx, key)
	if err != nil {
		c.failures.Add(1)
		log.Warn("Failed to fetch rate schedule",
			zap.String("kind", taxerrors.KindOf(err).String()),
			zap.Error(err))
		return nil, err
	}

	schedule, err := c.parser.Parse(doc, key.EntityType)
	if err != nil {
		c.failures.Add(1)
		if taxerrors.KindOf(err) == taxerrors.KindSchemaMismatch {
			log.Error("Source document no longer matches the expected bracket format",
				zap.String("url", doc.URL),
				zap.Error(err))
		} else {
			log.Warn("Failed to parse rate schedule", zap.Error(err))
		}
		return nil, err
	}
	if schedule == nil {
		c.failures.Add(1)
		return nil, taxerrors.Cache("load", "parser returned no schedule for %s", key)
	}
	if schedule.Key() != key {
		c.failures.Add(1)
		return nil, taxerrors.Cache("load", "schedule for %s cannot be stored under %s", schedule.Key(), key)
	}

	if !c.setCachedSchedule(key, schedule, stamp) {
		log.Debug("Rate cache invalidated during load, result not stored")
	}
	log.Info("Loaded rate schedule",
		zap.String("url", schedule.SourceURL()),
		zap.Int("brackets", schedule.Len()),
		zap.Duration("duration", c.clock.Now().Sub(start)))
	return schedule, nil
}

// getCachedSchedule returns a live entry, evicting it if it has expired
func (c *RateCache) getCachedSchedule(key business.CacheKey) (*business.RateSchedule, bool) {
	c.cacheMutex.RLock()
	entry, exists := c.cache[key]
	c.cacheMutex.RUnlock()
	if !exists {
		return nil, false
	}
	if c.clock.Now().Before(entry.ExpiresAt) {
		return entry.Schedule, true
	}

	c.cacheMutex.Lock()
	if c.cache[key] == entry {
		delete(c.cache, key)
	}
	c.cacheMutex.Unlock()
	c.logger.Debug("Evicted expired rate schedule", zap.String("cache_key", key.String()))
	return nil, false
}

// loadStamp identifies the cache state a load started from
type loadStamp struct {
	epoch      uint64
	generation uint64
}

func (c *RateCache) setCachedSchedule(key business.CacheKey, schedule *business.RateSchedule, stamp loadStamp) bool {
	now := c.clock.Now()

	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()
	if c.epoch != stamp.epoch || c.generations[key] != stamp.generation {
		return false
	}
	c.cache[key] = &CachedSchedule{
		Schedule:  schedule,
		StoredAt:  now,
		ExpiresAt: now.Add(c.ttl),
	}
	return true
}

// Contains reports whether a live entry exists for key without loading it
func (c *RateCache) Contains(key business.CacheKey) bool {
	c.cacheMutex.RLock()
	entry, exists := c.cache[key]
	c.cacheMutex.RUnlock()
	return exists && c.clock.Now().Before(entry.ExpiresAt)
}

// Invalidate drops the entry for key. A load of key already in flight keeps
// its single-flight slot, so callers arriving meanwhile join it instead of
// fetching concurrently, but its result is not stored. Loads of other keys
// are unaffected.
func (c *RateCache) Invalidate(key business.CacheKey) {
	c.cacheMutex.Lock()
	delete(c.cache, key)
	c.generations[key]++
	c.cacheMutex.Unlock()

	c.logger.Info("Invalidated rate schedule", zap.String("cache_key", key.String()))
}

// Clear drops every entry
func (c *RateCache) Clear() {
	c.cacheMutex.Lock()
	dropped := len(c.cache)
	c.cache = make(map[business.CacheKey]*CachedSchedule)
	c.generations = make(map[business.CacheKey]uint64)
	c.epoch++
	c.cacheMutex.Unlock()

	c.logger.Info("Cleared rate cache", zap.Int("entries", dropped))
}

// Stats returns statistics about the cache
func (c *RateCache) Stats() RateCacheStats {
	now := c.clock.Now()

	c.cacheMutex.RLock()
	defer c.cacheMutex.RUnlock()

	var expired int
	for _, entry := range c.cache {
		if !now.Before(entry.ExpiresAt) {
			expired++
		}
	}
	return RateCacheStats{
		Entries:  len(c.cache),
		Expired:  expired,
		InFlight: c.inFlight.Load(),
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Fetches:  c.fetches.Load(),
		Failures: c.failures.Load(),
		TTL:      c.ttl,
	}
}
