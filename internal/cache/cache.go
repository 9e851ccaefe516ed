// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

// Package cache provides the TTL cache in front of the warehouse. Entries are
// assembled dashboard tabs keyed by tab name and filter; warehouse queries are
// billed per scan, so repeated views within the TTL must not reach Snowflake.
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/jellydator/ttlcache/v3"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/metrics"
)

// Cache is a thread-safe TTL cache with a capacity bound and Prometheus
// instrumentation. The zero value is not usable; call New.
type Cache[V any] struct {
	name  string
	ttl   time.Duration
	items *ttlcache.Cache[string, V]

	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// maxCleanupInterval caps how long expired entries linger before the
// background cleanup removes them.
const maxCleanupInterval = 5 * time.Minute

// Stats tracks cache performance metrics
type Stats struct {
	Hits       uint64 `json:"hits"`
	Misses     uint64 `json:"misses"`
	Insertions uint64 `json:"insertions"`
	Evictions  uint64 `json:"evictions"`
	Entries    int    `json:"entries"`
}

// New creates a cache whose entries expire after ttl. capacity bounds the
// number of entries (0 = unbounded); the least recently used entry is evicted
// first. name labels the cache in metrics.
//
// A background goroutine removes expired entries every ttl (at most every
// five minutes) until Stop is called.
//
// Example:
//
//	tabs := cache.New[*models.Tab]("tabs", 5*time.Minute, 256)
//	defer tabs.Stop()
func New[V any](name string, ttl time.Duration, capacity uint64) *Cache[V] {
	opts := []ttlcache.Option[string, V]{ttlcache.WithTTL[string, V](ttl)}
	if capacity > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, V](capacity))
	}

	c := &Cache[V]{
		name:   name,
		ttl:    ttl,
		items:  ttlcache.New[string, V](opts...),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}

	// Eviction handlers must not call back into the cache.
	c.items.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, _ *ttlcache.Item[string, V]) {
		metrics.CacheEvictions.WithLabelValues(name, evictionReason(reason)).Inc()
	})

	go c.cleanupLoop(cleanupInterval(ttl))

	return c
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 || ttl > maxCleanupInterval {
		return maxCleanupInterval
	}
	return ttl
}

// cleanupLoop periodically removes expired entries
func (c *Cache[V]) cleanupLoop(interval time.Duration) {
	defer close(c.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.items.DeleteExpired()
			metrics.CacheEntries.WithLabelValues(c.name).Set(float64(c.items.Len()))
		}
	}
}

func evictionReason(reason ttlcache.EvictionReason) string {
	switch reason {
	case ttlcache.EvictionReasonExpired:
		return "expired"
	case ttlcache.EvictionReasonCapacityReached:
		return "capacity"
	case ttlcache.EvictionReasonDeleted:
		return "deleted"
	default:
		return "other"
	}
}

// Get returns the cached value for key and whether it was found and fresh.
func (c *Cache[V]) Get(key string) (V, bool) {
	item := c.items.Get(key)
	if item == nil {
		metrics.CacheMisses.WithLabelValues(c.name).Inc()
		var zero V
		return zero, false
	}
	metrics.CacheHits.WithLabelValues(c.name).Inc()
	return item.Value(), true
}

// Set stores value under key with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, ttlcache.DefaultTTL)
}

// SetWithTTL stores value under key with a custom TTL.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.items.Set(key, value, ttl)
	metrics.CacheEntries.WithLabelValues(c.name).Set(float64(c.items.Len()))
}

// Delete removes key from the cache.
func (c *Cache[V]) Delete(key string) {
	c.items.Delete(key)
}

// Clear removes every entry.
func (c *Cache[V]) Clear() {
	c.items.DeleteAll()
	metrics.CacheEntries.WithLabelValues(c.name).Set(0)
}

// Len returns the number of unexpired entries.
func (c *Cache[V]) Len() int {
	return c.items.Len()
}

// TTL returns the default entry lifetime.
func (c *Cache[V]) TTL() time.Duration {
	return c.ttl
}

// Stop ends the background cleanup and waits for it to exit. Entries stay
// readable. Calling Stop more than once is safe.
func (c *Cache[V]) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
	<-c.done
}

// GetStats returns a snapshot of the cache counters.
func (c *Cache[V]) GetStats() Stats {
	m := c.items.Metrics()
	return Stats{
		Hits:       m.Hits,
		Misses:     m.Misses,
		Insertions: m.Insertions,
		Evictions:  m.Evictions,
		Entries:    c.items.Len(),
	}
}

// HitRate returns hits / (hits + misses) as a percentage, 0 before any lookup.
func (c *Cache[V]) HitRate() float64 {
	s := c.GetStats()
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// GenerateKey creates a cache key from a namespace and parameters. Equal
// parameters (after JSON encoding) produce equal keys.
func GenerateKey(namespace string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", namespace, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", namespace, hash[:16])
}
