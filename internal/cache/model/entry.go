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

package model

import (
	"maps"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// CacheEntry is the unit stored in an object store. The creation time and both timeouts
// are fixed at construction; hits and the last access time are updated atomically.
// Every constructed entry carries a fresh revision that stores compare before conditional writes.
type CacheEntry struct {
	revision          string
	cacheName         CacheKey
	key               CacheKey
	value             any
	timeout           time.Duration
	lastAccessTimeout time.Duration
	created           time.Time
	lastAccessed      atomic.Int64
	hits              atomic.Int64
	expired           atomic.Bool
	metadata          map[string]any
}

// EntryIdentity is the comparable identity of a cache entry. The value is not part of it.
type EntryIdentity struct {
	CacheName         string
	Key               string
	Timeout           time.Duration
	LastAccessTimeout time.Duration
}

// EntrySummary describes a cache entry without its payload.
type EntrySummary struct {
	CacheName         string         `json:"cacheName"`
	Key               string         `json:"key"`
	Hits              int64          `json:"hits"`
	Timeout           int64          `json:"timeout"`
	LastAccessTimeout int64          `json:"lastAccessTimeout"`
	Created           time.Time      `json:"created"`
	LastAccessed      time.Time      `json:"lastAccessed"`
	IsEternal         bool           `json:"isEternal"`
	IsExpired         bool           `json:"isExpired"`
	Metadata          map[string]any `json:"metadata,omitempty"`
}

// EntryRecord is the serialisable form of a cache entry used by durable stores.
type EntryRecord struct {
	Revision          string         `json:"revision,omitempty"`
	CacheName         string         `json:"cacheName"`
	Key               string         `json:"key"`
	Value             any            `json:"value"`
	Timeout           time.Duration  `json:"timeout"`
	LastAccessTimeout time.Duration  `json:"lastAccessTimeout"`
	Created           time.Time      `json:"created"`
	LastAccessed      time.Time      `json:"lastAccessed"`
	Hits              int64          `json:"hits"`
	Expired           bool           `json:"expired,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
}

// NewCacheEntry creates a cache entry created now. Negative timeouts are treated as zero.
func NewCacheEntry(cacheName, key CacheKey, value any, timeout, lastAccessTimeout time.Duration,
	metadata map[string]any) *CacheEntry {
	now := time.Now()
	entry := &CacheEntry{
		revision:          uuid.NewString(),
		cacheName:         cacheName,
		key:               key,
		value:             value,
		timeout:           max(timeout, 0),
		lastAccessTimeout: max(lastAccessTimeout, 0),
		created:           now,
		metadata:          maps.Clone(metadata),
	}
	entry.lastAccessed.Store(now.UnixNano())
	return entry
}

// NewCacheEntryFromRecord restores a cache entry from its serialisable form.
func NewCacheEntryFromRecord(record EntryRecord) *CacheEntry {
	entry := &CacheEntry{
		revision:          record.Revision,
		cacheName:         NewCacheKey(record.CacheName),
		key:               NewCacheKey(record.Key),
		value:             record.Value,
		timeout:           max(record.Timeout, 0),
		lastAccessTimeout: max(record.LastAccessTimeout, 0),
		created:           record.Created,
		metadata:          record.Metadata,
	}
	entry.lastAccessed.Store(record.LastAccessed.UnixNano())
	entry.hits.Store(record.Hits)
	entry.expired.Store(record.Expired)
	return entry
}

// Revision returns the token identifying this version of the entry. Touching or expiring the
// entry keeps the revision; storing a new value or a renewed copy changes it.
func (e *CacheEntry) Revision() string {
	return e.revision
}

// SameRevision reports whether both entries are the same stored version.
func (e *CacheEntry) SameRevision(other *CacheEntry) bool {
	return e != nil && other != nil && e.revision == other.revision
}

// CacheName returns the name of the cache owning the entry.
func (e *CacheEntry) CacheName() CacheKey {
	return e.cacheName
}

// Key returns the entry key.
func (e *CacheEntry) Key() CacheKey {
	return e.key
}

// Value returns the payload and whether it is non-nil.
func (e *CacheEntry) Value() (any, bool) {
	return e.value, e.value != nil
}

// RawValue returns the payload as stored.
func (e *CacheEntry) RawValue() any {
	return e.value
}

// Timeout returns the absolute timeout. Zero means the entry never ages out.
func (e *CacheEntry) Timeout() time.Duration {
	return e.timeout
}

// LastAccessTimeout returns the idle timeout. Zero disables idle expiry.
func (e *CacheEntry) LastAccessTimeout() time.Duration {
	return e.lastAccessTimeout
}

// Created returns the creation time.
func (e *CacheEntry) Created() time.Time {
	return e.created
}

// LastAccessed returns the time of the last successful read.
func (e *CacheEntry) LastAccessed() time.Time {
	return time.Unix(0, e.lastAccessed.Load())
}

// Hits returns the number of successful reads.
func (e *CacheEntry) Hits() int64 {
	return e.hits.Load()
}

// Metadata returns a copy of the caller supplied metadata.
func (e *CacheEntry) Metadata() map[string]any {
	return maps.Clone(e.metadata)
}

// TouchLastAccessed sets the last access time to now.
func (e *CacheEntry) TouchLastAccessed() {
	e.lastAccessed.Store(time.Now().UnixNano())
}

// IncrementHits increments the hit counter and returns the new value.
func (e *CacheEntry) IncrementHits() int64 {
	return e.hits.Add(1)
}

// Expire marks the entry as expired regardless of its timeouts.
func (e *CacheEntry) Expire() {
	e.expired.Store(true)
}

// IsEternal reports whether the entry has no absolute timeout.
func (e *CacheEntry) IsEternal() bool {
	return e.timeout == 0
}

// IsExpired reports whether the entry has expired at the given time on either clock.
func (e *CacheEntry) IsExpired(now time.Time) bool {
	return e.IsExpiredWith(now, true)
}

// IsExpiredWith reports whether the entry has expired at the given time. The idle clock is
// only consulted when checkIdle is set.
func (e *CacheEntry) IsExpiredWith(now time.Time, checkIdle bool) bool {
	if e.expired.Load() || e.IsExpiredByAge(now) {
		return true
	}
	return checkIdle && e.IsIdleExpired(now)
}

// IsExpiredByAge reports whether the absolute timeout has elapsed at the given time.
func (e *CacheEntry) IsExpiredByAge(now time.Time) bool {
	return e.timeout > 0 && now.Sub(e.created) >= e.timeout
}

// IsIdleExpired reports whether the idle timeout has elapsed at the given time.
func (e *CacheEntry) IsIdleExpired(now time.Time) bool {
	return e.lastAccessTimeout > 0 && now.Sub(e.LastAccessed()) >= e.lastAccessTimeout
}

// Identity returns the comparable identity of the entry.
func (e *CacheEntry) Identity() EntryIdentity {
	return EntryIdentity{
		CacheName:         e.cacheName.Normalized(),
		Key:               e.key.Normalized(),
		Timeout:           e.timeout,
		LastAccessTimeout: e.lastAccessTimeout,
	}
}

// Equals reports whether both entries share the same identity.
func (e *CacheEntry) Equals(other *CacheEntry) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.Identity() == other.Identity()
}

// Renewed returns a copy of the entry created now, keeping its hits and metadata.
func (e *CacheEntry) Renewed() *CacheEntry {
	renewed := NewCacheEntry(e.cacheName, e.key, e.value, e.timeout, e.lastAccessTimeout, e.metadata)
	renewed.hits.Store(e.hits.Load())
	return renewed
}

// Summary returns the entry description without its payload.
func (e *CacheEntry) Summary() EntrySummary {
	return EntrySummary{
		CacheName:         e.cacheName.Name(),
		Key:               e.key.Name(),
		Hits:              e.Hits(),
		Timeout:           int64(e.timeout / time.Second),
		LastAccessTimeout: int64(e.lastAccessTimeout / time.Second),
		Created:           e.created,
		LastAccessed:      e.LastAccessed(),
		IsEternal:         e.IsEternal(),
		IsExpired:         e.IsExpired(time.Now()),
		Metadata:          e.Metadata(),
	}
}

// ToRecord returns the serialisable form of the entry.
func (e *CacheEntry) ToRecord() EntryRecord {
	return EntryRecord{
		Revision:          e.revision,
		CacheName:         e.cacheName.Name(),
		Key:               e.key.Name(),
		Value:             e.value,
		Timeout:           e.timeout,
		LastAccessTimeout: e.lastAccessTimeout,
		Created:           e.created,
		LastAccessed:      e.LastAccessed(),
		Hits:              e.Hits(),
		Expired:           e.expired.Load(),
		Metadata:          e.metadata,
	}
}
