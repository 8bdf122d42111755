/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package provider provides the cache provider, the facade combining an object store,
// a reaper and live statistics behind a uniform API.
package provider

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/asgardeo/cacheengine/internal/cache/cacheerror"
	"github.com/asgardeo/cacheengine/internal/cache/constants"
	"github.com/asgardeo/cacheengine/internal/cache/events"
	"github.com/asgardeo/cacheengine/internal/cache/filter"
	"github.com/asgardeo/cacheengine/internal/cache/model"
	"github.com/asgardeo/cacheengine/internal/cache/reaper"
	"github.com/asgardeo/cacheengine/internal/cache/stats"
	"github.com/asgardeo/cacheengine/internal/cache/store"
	"github.com/asgardeo/cacheengine/internal/system/log"
)

// Supplier computes the value stored by GetOrSet when the key is absent.
type Supplier func(ctx context.Context) (any, error)

// CacheProviderInterface defines the operations of a cache provider.
type CacheProviderInterface interface {
	Name() string
	Type() string
	Properties() model.CacheProperties
	Start()
	Get(key string) (any, bool, error)
	GetQuiet(key string) (any, bool, error)
	GetMany(keys ...string) (map[string]any, error)
	GetFilter(f filter.KeyFilter) (map[string]any, error)
	Set(key string, value any, timeout, lastAccessTimeout time.Duration, metadata map[string]any) error
	SetMany(entries map[string]any, timeout, lastAccessTimeout time.Duration) error
	GetOrSet(ctx context.Context, key string, supplier Supplier, timeout, lastAccessTimeout time.Duration,
		metadata map[string]any) (any, error)
	Clear(key string) (bool, error)
	ClearQuiet(key string) (bool, error)
	ClearMany(keys ...string) (map[string]bool, error)
	ClearAll(f filter.KeyFilter) (bool, error)
	Lookup(key string) (bool, error)
	LookupMany(keys ...string) (map[string]bool, error)
	LookupFilter(f filter.KeyFilter) (map[string]bool, error)
	GetKeys(f filter.KeyFilter) ([]string, error)
	GetKeysSeq(f filter.KeyFilter) iter.Seq[string]
	GetSize(f filter.KeyFilter) (int, error)
	GetCachedObjectMetadata(key string) (*model.EntrySummary, error)
	GetStoreMetadataReport(limit int) (map[string]model.EntrySummary, error)
	Expire(key string) (bool, error)
	ExpireAll(f filter.KeyFilter) error
	IsExpired(key string) (bool, error)
	Reap(ctx context.Context) error
	GetStats() *stats.Statistics
	Shutdown() error
}

// CacheProvider is the standard implementation of CacheProviderInterface.
type CacheProvider struct {
	name         string
	nameKey      model.CacheKey
	props        model.CacheProperties
	store        store.ObjectStoreInterface
	stats        *stats.Statistics
	reaper       *reaper.Reaper
	bus          *events.Bus
	group        singleflight.Group
	capacityMu   sync.Mutex
	shutdown     atomic.Bool
	shutdownOnce sync.Once
	shutdownErr  error
	logger       *zap.Logger
}

var _ CacheProviderInterface = (*CacheProvider)(nil)

// NewCacheProvider creates a provider over the given store. The reaper is not started until
// Start is called. bus may be nil.
func NewCacheProvider(name string, props model.CacheProperties, objectStore store.ObjectStoreInterface,
	bus *events.Bus) *CacheProvider {
	props = props.WithDefaults()
	p := &CacheProvider{
		name:    name,
		nameKey: model.NewCacheKey(name),
		props:   props,
		store:   objectStore,
		stats:   stats.NewStatistics(),
		bus:     bus,
		logger: log.GetLogger().With(log.String(log.LoggerKeyComponentName, "CacheProvider"),
			log.String(log.LoggerKeyCacheName, name)),
	}
	p.reaper = reaper.NewReaper(name, p, props.ReapFrequency)
	return p
}

// Name returns the cache name.
func (p *CacheProvider) Name() string {
	return p.name
}

// Type returns the provider type.
func (p *CacheProvider) Type() string {
	return constants.ProviderTypeStandard
}

// Properties returns the effective provider configuration.
func (p *CacheProvider) Properties() model.CacheProperties {
	return p.props
}

// Store returns the underlying object store.
func (p *CacheProvider) Store() store.ObjectStoreInterface {
	return p.store
}

// GetStats returns the live statistics.
func (p *CacheProvider) GetStats() *stats.Statistics {
	return p.stats
}

// Start launches the reaper.
func (p *CacheProvider) Start() {
	if p.shutdown.Load() {
		return
	}
	p.reaper.Start()
}

// Get returns the value stored under key, recording a hit or a miss. Expired entries are
// removed and reported as a miss. Removal and renewal only apply to the entry that was read,
// so a value stored concurrently is kept.
func (p *CacheProvider) Get(key string) (any, bool, error) {
	if err := p.checkActive(); err != nil {
		return nil, false, err
	}
	cacheKey := model.NewCacheKey(key)

	entry, err := p.store.GetQuiet(cacheKey)
	if err != nil {
		return nil, false, err
	}
	if entry == nil {
		p.stats.RecordMiss()
		return nil, false, nil
	}
	if p.isExpired(entry, time.Now()) {
		p.stats.RecordMiss()
		if _, err := p.store.RemoveIf(cacheKey, entry); err != nil {
			p.logger.Warn("Failed to remove expired entry", log.String(log.LoggerKeyCacheKey, key), log.Error(err))
		}
		return nil, false, nil
	}

	entry, err = p.store.Get(cacheKey)
	if err != nil {
		return nil, false, err
	}
	if entry == nil {
		p.stats.RecordMiss()
		return nil, false, nil
	}
	p.stats.RecordHit()

	if p.props.ResetTimeoutOnAccess && !entry.IsEternal() {
		if _, err := p.store.Replace(cacheKey, entry, entry.Renewed()); err != nil {
			return nil, false, err
		}
	}
	return entry.RawValue(), true, nil
}

// GetQuiet returns the value stored under key without recording statistics or access.
func (p *CacheProvider) GetQuiet(key string) (any, bool, error) {
	if err := p.checkActive(); err != nil {
		return nil, false, err
	}
	entry, err := p.liveEntry(model.NewCacheKey(key))
	if err != nil || entry == nil {
		return nil, false, err
	}
	return entry.RawValue(), true, nil
}

// GetMany returns the values of the keys that were found.
func (p *CacheProvider) GetMany(keys ...string) (map[string]any, error) {
	results := make(map[string]any, len(keys))
	for _, key := range keys {
		value, found, err := p.Get(key)
		if err != nil {
			return nil, err
		}
		if found {
			results[key] = value
		}
	}
	return results, nil
}

// GetFilter returns the values of every key matching the filter.
func (p *CacheProvider) GetFilter(f filter.KeyFilter) (map[string]any, error) {
	keys, err := p.GetKeys(f)
	if err != nil {
		return nil, err
	}
	return p.GetMany(keys...)
}

// Set stores a value, replacing any existing entry. A negative timeout selects the provider default.
func (p *CacheProvider) Set(key string, value any, timeout, lastAccessTimeout time.Duration,
	metadata map[string]any) error {
	if err := p.checkActive(); err != nil {
		return err
	}
	cacheKey := model.NewCacheKey(key)
	entry := model.NewCacheEntry(p.nameKey, cacheKey, value, p.resolveTimeout(timeout),
		p.resolveLastAccessTimeout(lastAccessTimeout), metadata)

	existing, err := p.setEntry(cacheKey, entry)
	if err != nil {
		return err
	}

	eventType := events.AfterCacheElementInsert
	if existing {
		eventType = events.AfterCacheElementUpdated
	}
	p.bus.Publish(events.Event{Type: eventType, CacheName: p.name, Key: key})
	return nil
}

// SetMany stores every entry of the map with the same timeouts.
func (p *CacheProvider) SetMany(entries map[string]any, timeout, lastAccessTimeout time.Duration) error {
	for key, value := range entries {
		if err := p.Set(key, value, timeout, lastAccessTimeout, nil); err != nil {
			return err
		}
	}
	return nil
}

// GetOrSet returns the value stored under key, computing and storing it with the supplier when
// absent. Concurrent callers for the same key share a single supplier invocation; a supplier
// error or panic is returned to all of them and nothing is stored.
func (p *CacheProvider) GetOrSet(ctx context.Context, key string, supplier Supplier, timeout,
	lastAccessTimeout time.Duration, metadata map[string]any) (any, error) {
	value, found, err := p.Get(key)
	if err != nil || found {
		return value, err
	}

	flightCtx := context.WithoutCancel(ctx)
	resultCh := p.group.DoChan(model.NewCacheKey(key).Normalized(), func() (any, error) {
		if value, found, err := p.GetQuiet(key); err != nil || found {
			return value, err
		}
		value, err := p.callSupplier(flightCtx, key, supplier)
		if err != nil {
			return nil, err
		}
		if err := p.Set(key, value, timeout, lastAccessTimeout, metadata); err != nil {
			return nil, err
		}
		return value, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-resultCh:
		return result.Val, result.Err
	}
}

// callSupplier runs the supplier and turns a panic into an ErrSupplierPanic error.
func (p *CacheProvider) callSupplier(ctx context.Context, key string, supplier Supplier) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Cache supplier panicked", log.String(log.LoggerKeyCacheKey, key), log.Any("panic", r))
			value, err = nil, fmt.Errorf("%w: %v", cacheerror.ErrSupplierPanic, r)
		}
	}()
	return supplier(ctx)
}

// Clear removes the entry stored under key and announces the removal.
func (p *CacheProvider) Clear(key string) (bool, error) {
	cleared, err := p.ClearQuiet(key)
	if err != nil {
		return false, err
	}
	p.bus.Publish(events.Event{Type: events.AfterCacheElementRemoved, CacheName: p.name, Key: key,
		Data: map[string]any{"cleared": cleared}})
	return cleared, nil
}

// ClearQuiet removes the entry stored under key without announcing it.
func (p *CacheProvider) ClearQuiet(key string) (bool, error) {
	return p.store.Remove(model.NewCacheKey(key))
}

// ClearMany removes several entries and reports, per key, whether it existed.
func (p *CacheProvider) ClearMany(keys ...string) (map[string]bool, error) {
	results := make(map[string]bool, len(keys))
	for _, key := range keys {
		cleared, err := p.Clear(key)
		if err != nil {
			return nil, err
		}
		results[key] = cleared
	}
	return results, nil
}

// ClearAll removes every entry matching the filter, or every entry when the filter is nil.
// Each removal counts as an eviction. It reports whether anything was removed.
func (p *CacheProvider) ClearAll(f filter.KeyFilter) (bool, error) {
	var removed int
	if f == nil {
		size, err := p.store.Size()
		if err != nil {
			return false, err
		}
		if err := p.store.Clear(); err != nil {
			return false, err
		}
		removed = size
		for range removed {
			p.stats.RecordEviction()
		}
	} else {
		keys, err := p.store.Keys()
		if err != nil {
			return false, err
		}
		for _, key := range keys {
			if !f.Matches(key.Name()) {
				continue
			}
			cleared, err := p.store.Remove(key)
			if err != nil {
				return removed > 0, err
			}
			if cleared {
				removed++
				p.stats.RecordEviction()
			}
		}
	}

	p.bus.Publish(events.Event{Type: events.AfterCacheClearAll, CacheName: p.name,
		Data: map[string]any{"removed": removed}})
	return removed > 0, nil
}

// Lookup reports whether a live entry exists for key.
func (p *CacheProvider) Lookup(key string) (bool, error) {
	entry, err := p.liveEntry(model.NewCacheKey(key))
	return entry != nil, err
}

// LookupMany reports, per key, whether a live entry exists.
func (p *CacheProvider) LookupMany(keys ...string) (map[string]bool, error) {
	results := make(map[string]bool, len(keys))
	for _, key := range keys {
		found, err := p.Lookup(key)
		if err != nil {
			return nil, err
		}
		results[key] = found
	}
	return results, nil
}

// LookupFilter reports, for every key matching the filter, whether a live entry exists.
func (p *CacheProvider) LookupFilter(f filter.KeyFilter) (map[string]bool, error) {
	keys, err := p.GetKeys(f)
	if err != nil {
		return nil, err
	}
	return p.LookupMany(keys...)
}

// GetKeys returns the names of the keys matching the filter. A nil filter matches every key.
func (p *CacheProvider) GetKeys(f filter.KeyFilter) ([]string, error) {
	keys, err := p.store.Keys()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		if filter.MatchAll(f, key.Name()) {
			names = append(names, key.Name())
		}
	}
	return names, nil
}

// GetKeysSeq returns a sequence over the names of the keys matching the filter. Store errors
// end the sequence early and are logged.
func (p *CacheProvider) GetKeysSeq(f filter.KeyFilter) iter.Seq[string] {
	return func(yield func(string) bool) {
		keys, err := p.store.Keys()
		if err != nil {
			p.logger.Warn("Failed to list cache keys", log.Error(err))
			return
		}
		for _, key := range keys {
			if !filter.MatchAll(f, key.Name()) {
				continue
			}
			if !yield(key.Name()) {
				return
			}
		}
	}
}

// GetSize returns the number of keys matching the filter.
func (p *CacheProvider) GetSize(f filter.KeyFilter) (int, error) {
	if f == nil {
		return p.store.Size()
	}
	keys, err := p.GetKeys(f)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// GetCachedObjectMetadata returns the summary of the entry stored under key, or nil.
func (p *CacheProvider) GetCachedObjectMetadata(key string) (*model.EntrySummary, error) {
	entry, err := p.store.GetQuiet(model.NewCacheKey(key))
	if err != nil || entry == nil {
		return nil, err
	}
	summary := entry.Summary()
	return &summary, nil
}

// GetStoreMetadataReport returns the summaries of at most limit entries, keyed by key name.
// A non-positive limit returns every entry.
func (p *CacheProvider) GetStoreMetadataReport(limit int) (map[string]model.EntrySummary, error) {
	keys, err := p.store.Keys()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}

	report := make(map[string]model.EntrySummary, len(keys))
	for _, key := range keys {
		entry, err := p.store.GetQuiet(key)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			report[key.Name()] = entry.Summary()
		}
	}
	return report, nil
}

// Expire marks the entry stored under key as expired. It is removed by the next sweep or read.
// It reports false when the key is absent or was overwritten while being expired.
func (p *CacheProvider) Expire(key string) (bool, error) {
	cacheKey := model.NewCacheKey(key)
	entry, err := p.store.GetQuiet(cacheKey)
	if err != nil || entry == nil {
		return false, err
	}
	entry.Expire()
	return p.store.Replace(cacheKey, entry, entry)
}

// ExpireAll marks every entry matching the filter as expired.
func (p *CacheProvider) ExpireAll(f filter.KeyFilter) error {
	keys, err := p.GetKeys(f)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if _, err := p.Expire(key); err != nil {
			return err
		}
	}
	return nil
}

// IsExpired reports whether the entry stored under key has expired. Absent keys are not expired.
func (p *CacheProvider) IsExpired(key string) (bool, error) {
	entry, err := p.store.GetQuiet(model.NewCacheKey(key))
	if err != nil || entry == nil {
		return false, err
	}
	return p.isExpired(entry, time.Now()), nil
}

// Reap enforces the capacity bound and removes every expired entry. Failures on individual
// entries are logged and skipped. The sweep time is always recorded.
func (p *CacheProvider) Reap(ctx context.Context) error {
	if err := p.checkActive(); err != nil {
		return err
	}
	start := time.Now()
	defer func() {
		p.stats.RecordReap(time.Now())
	}()

	if err := p.enforceCapacity(0); err != nil {
		p.logger.Warn("Capacity eviction failed during sweep", log.Error(err))
	}

	keys, err := p.store.Keys()
	if err != nil {
		return err
	}

	removed := 0
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}

		entry, err := p.store.GetQuiet(key)
		if err != nil {
			p.logger.Warn("Skipping unreadable entry during sweep", log.String(log.LoggerKeyCacheKey, key.Name()),
				log.Error(err))
			continue
		}
		if entry == nil || !p.isExpired(entry, time.Now()) {
			continue
		}

		cleared, err := p.store.RemoveIf(key, entry)
		if err != nil {
			p.logger.Warn("Failed to remove expired entry during sweep",
				log.String(log.LoggerKeyCacheKey, key.Name()), log.Error(err))
			continue
		}
		if cleared {
			removed++
			p.stats.RecordReapEviction()
			p.bus.Publish(events.Event{Type: events.AfterCacheElementRemoved, CacheName: p.name,
				Key: key.Name(), Data: map[string]any{"cleared": true, "expired": true}})
		}
	}

	p.logger.Debug("Finished reaping cache", log.Int("removed", removed),
		log.Duration("elapsed", time.Since(start)))
	return nil
}

// Shutdown stops the reaper and releases the store. Repeated calls return the first result.
func (p *CacheProvider) Shutdown() error {
	p.shutdownOnce.Do(func() {
		p.bus.Publish(events.Event{Type: events.BeforeCacheShutdown, CacheName: p.name})
		p.shutdown.Store(true)
		p.reaper.Stop()

		if err := p.store.Shutdown(); err != nil {
			p.shutdownErr = multierr.Append(p.shutdownErr, err)
			p.logger.Error("Failed to shut down object store", log.Error(err))
		}
		p.bus.Publish(events.Event{Type: events.AfterCacheShutdown, CacheName: p.name})
		p.logger.Debug("Cache provider shut down")
	})
	return p.shutdownErr
}

// IsRunning reports whether the reaper of the provider is active.
func (p *CacheProvider) IsRunning() bool {
	return p.reaper.IsRunning()
}

func (p *CacheProvider) checkActive() error {
	if p.shutdown.Load() {
		return cacheerror.ErrProviderShutdown
	}
	return nil
}

// liveEntry returns the entry stored under key unless it is absent or expired.
func (p *CacheProvider) liveEntry(key model.CacheKey) (*model.CacheEntry, error) {
	entry, err := p.store.GetQuiet(key)
	if err != nil || entry == nil {
		return nil, err
	}
	if p.isExpired(entry, time.Now()) {
		return nil, nil
	}
	return entry, nil
}

func (p *CacheProvider) isExpired(entry *model.CacheEntry, now time.Time) bool {
	return entry.IsExpiredWith(now, p.props.UseLastAccessTimeouts)
}

func (p *CacheProvider) resolveTimeout(timeout time.Duration) time.Duration {
	if timeout < 0 {
		return p.props.DefaultTimeout
	}
	return timeout
}

func (p *CacheProvider) resolveLastAccessTimeout(timeout time.Duration) time.Duration {
	if timeout < 0 {
		return p.props.DefaultLastAccessTimeout
	}
	return timeout
}

// setEntry stores the entry, evicting first when a new key would exceed the capacity bound.
// It reports whether the key already existed.
func (p *CacheProvider) setEntry(key model.CacheKey, entry *model.CacheEntry) (bool, error) {
	if p.props.MaxObjects > 0 {
		p.capacityMu.Lock()
		defer p.capacityMu.Unlock()
	}

	// An unreadable stored entry is overwritten.
	existing, err := p.store.GetQuiet(key)
	if err != nil && !errors.Is(err, cacheerror.ErrStorageIO) {
		return false, err
	}
	if existing == nil && p.props.MaxObjects > 0 {
		if err := p.enforceCapacityLocked(1); err != nil {
			return false, err
		}
	}
	if err := p.store.Set(key, entry); err != nil {
		return false, err
	}
	return existing != nil, nil
}

// enforceCapacity evicts entries until incoming more entries fit within the capacity bound.
func (p *CacheProvider) enforceCapacity(incoming int) error {
	if p.props.MaxObjects <= 0 {
		return nil
	}
	p.capacityMu.Lock()
	defer p.capacityMu.Unlock()
	return p.enforceCapacityLocked(incoming)
}

func (p *CacheProvider) enforceCapacityLocked(incoming int) error {
	size, err := p.store.Size()
	if err != nil {
		return err
	}
	overflow := size + incoming - p.props.MaxObjects
	if overflow <= 0 {
		return nil
	}

	keys, err := p.store.Keys()
	if err != nil {
		return err
	}
	entries := make([]*model.CacheEntry, 0, len(keys))
	for _, key := range keys {
		entry, err := p.store.GetQuiet(key)
		if err != nil {
			p.logger.Warn("Skipping unreadable entry during eviction", log.String(log.LoggerKeyCacheKey, key.Name()),
				log.Error(err))
			continue
		}
		if entry != nil {
			entries = append(entries, entry)
		}
	}

	for _, victim := range selectVictims(entries, p.props.EvictionPolicy, max(p.props.EvictCount, overflow)) {
		cleared, err := p.store.Remove(victim.Key())
		if err != nil {
			return err
		}
		if cleared {
			p.stats.RecordEviction()
			p.logger.Debug("Evicted entry", log.String(log.LoggerKeyCacheKey, victim.Key().Name()))
		}
	}
	return nil
}
