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

// Package stats provides the live statistics kept by every cache provider.
package stats

import (
	"sync"
	"sync/atomic"
	"time"
)

// Statistics holds the counters of a cache provider. Counters are independent atomics;
// Reset takes the exclusive side of a lock whose shared side is held by every writer and
// snapshot reader, so a reset is never observed half applied.
type Statistics struct {
	mu                 sync.RWMutex
	hits               atomic.Int64
	misses             atomic.Int64
	evictionCount      atomic.Int64
	garbageCollections atomic.Int64
	reapCount          atomic.Int64
	lastReap           atomic.Int64
	started            atomic.Int64
}

// Snapshot is a point in time copy of the statistics.
type Snapshot struct {
	Hits               int64     `json:"hits"`
	Misses             int64     `json:"misses"`
	HitRate            float64   `json:"hitRate"`
	EvictionCount      int64     `json:"evictionCount"`
	GarbageCollections int64     `json:"garbageCollections"`
	ReapCount          int64     `json:"reapCount"`
	LastReapDatetime   time.Time `json:"lastReapDatetime"`
	Started            time.Time `json:"started"`
}

// NewStatistics creates a Statistics instance started now.
func NewStatistics() *Statistics {
	s := &Statistics{}
	s.started.Store(time.Now().UnixNano())
	return s
}

// RecordHit increments the hit counter.
func (s *Statistics) RecordHit() {
	s.add(&s.hits, 1)
}

// RecordMiss increments the miss counter.
func (s *Statistics) RecordMiss() {
	s.add(&s.misses, 1)
}

// RecordEviction increments the eviction counter.
func (s *Statistics) RecordEviction() {
	s.add(&s.evictionCount, 1)
}

// RecordGarbageCollection increments the garbage collection counter.
func (s *Statistics) RecordGarbageCollection() {
	s.add(&s.garbageCollections, 1)
}

// RecordReapEviction records an entry removed by the reaper. It counts as an eviction too.
func (s *Statistics) RecordReapEviction() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.reapCount.Add(1)
	s.evictionCount.Add(1)
}

// RecordReap records the completion time of a reaper sweep.
func (s *Statistics) RecordReap(at time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.lastReap.Store(at.UnixNano())
}

// Hits returns the number of cache hits.
func (s *Statistics) Hits() int64 {
	return s.hits.Load()
}

// Misses returns the number of cache misses.
func (s *Statistics) Misses() int64 {
	return s.misses.Load()
}

// EvictionCount returns the number of evicted entries.
func (s *Statistics) EvictionCount() int64 {
	return s.evictionCount.Load()
}

// ReapCount returns the number of entries removed by the reaper.
func (s *Statistics) ReapCount() int64 {
	return s.reapCount.Load()
}

// LastReapDatetime returns the completion time of the last sweep, or the zero time.
func (s *Statistics) LastReapDatetime() time.Time {
	return unixTime(s.lastReap.Load())
}

// HitRate returns hits / (hits + misses), or 0 when there has been no traffic.
func (s *Statistics) HitRate() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return hitRate(s.hits.Load(), s.misses.Load())
}

// Snapshot returns a copy of every counter.
func (s *Statistics) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := s.hits.Load()
	misses := s.misses.Load()
	return Snapshot{
		Hits:               hits,
		Misses:             misses,
		HitRate:            hitRate(hits, misses),
		EvictionCount:      s.evictionCount.Load(),
		GarbageCollections: s.garbageCollections.Load(),
		ReapCount:          s.reapCount.Load(),
		LastReapDatetime:   unixTime(s.lastReap.Load()),
		Started:            unixTime(s.started.Load()),
	}
}

// Reset zeroes every counter and restarts the statistics clock.
func (s *Statistics) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hits.Store(0)
	s.misses.Store(0)
	s.evictionCount.Store(0)
	s.garbageCollections.Store(0)
	s.reapCount.Store(0)
	s.lastReap.Store(0)
	s.started.Store(time.Now().UnixNano())
}

func (s *Statistics) add(counter *atomic.Int64, delta int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counter.Add(delta)
}

func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

func unixTime(nanos int64) time.Time {
	if nanos == 0 {
		return time.Time{}
	}
	return time.Unix(0, nanos)
}
