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

package store

import (
	"sync"

	"github.com/asgardeo/cacheengine/internal/cache/model"
)

// ConcurrentStore is an in-memory object store guarded by its own lock.
type ConcurrentStore struct {
	entries map[string]*model.CacheEntry
	mu      sync.RWMutex
}

var _ ObjectStoreInterface = (*ConcurrentStore)(nil)

// NewConcurrentStore creates an empty in-memory store.
func NewConcurrentStore() *ConcurrentStore {
	return &ConcurrentStore{
		entries: make(map[string]*model.CacheEntry),
	}
}

// NewConcurrentStoreFactory returns a Factory producing in-memory stores.
func NewConcurrentStoreFactory() Factory {
	return func(string, model.CacheProperties) (ObjectStoreInterface, error) {
		return NewConcurrentStore(), nil
	}
}

// Get returns the entry, touching it and incrementing its hits.
func (s *ConcurrentStore) Get(key model.CacheKey) (*model.CacheEntry, error) {
	entry, _ := s.GetQuiet(key)
	if entry == nil {
		return nil, nil
	}
	entry.TouchLastAccessed()
	entry.IncrementHits()
	return entry, nil
}

// GetQuiet returns the entry without touching it.
func (s *ConcurrentStore) GetQuiet(key model.CacheKey) (*model.CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[key.Normalized()], nil
}

// Set stores the entry.
func (s *ConcurrentStore) Set(key model.CacheKey, entry *model.CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key.Normalized()] = entry
	return nil
}

// Remove deletes the entry.
func (s *ConcurrentStore) Remove(key model.CacheKey) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key.Normalized()]; !ok {
		return false, nil
	}
	delete(s.entries, key.Normalized())
	return true, nil
}

// RemoveIf deletes the entry while it is still the expected revision.
func (s *ConcurrentStore) RemoveIf(key model.CacheKey, expected *model.CacheEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.entries[key.Normalized()].SameRevision(expected) {
		return false, nil
	}
	delete(s.entries, key.Normalized())
	return true, nil
}

// Replace swaps in the entry while the stored one is still the expected revision.
func (s *ConcurrentStore) Replace(key model.CacheKey, expected, entry *model.CacheEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.entries[key.Normalized()].SameRevision(expected) {
		return false, nil
	}
	s.entries[key.Normalized()] = entry
	return true, nil
}

// Keys returns a snapshot of the stored keys.
func (s *ConcurrentStore) Keys() ([]model.CacheKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]model.CacheKey, 0, len(s.entries))
	for _, entry := range s.entries {
		keys = append(keys, entry.Key())
	}
	return keys, nil
}

// Size returns the number of stored entries.
func (s *ConcurrentStore) Size() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Clear removes every entry.
func (s *ConcurrentStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.entries)
	return nil
}

// Shutdown drops every entry.
func (s *ConcurrentStore) Shutdown() error {
	return s.Clear()
}
