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

// Package store provides the object stores that hold cache entries for a provider.
package store

import (
	"github.com/asgardeo/cacheengine/internal/cache/model"
)

// ObjectStoreInterface defines the storage strategy of a cache provider. Implementations
// must be safe for concurrent use. Lookups of absent keys return a nil entry and no error.
type ObjectStoreInterface interface {
	// Get returns the entry and records the access on it.
	Get(key model.CacheKey) (*model.CacheEntry, error)
	// GetQuiet returns the entry without recording any access.
	GetQuiet(key model.CacheKey) (*model.CacheEntry, error)
	// Set stores the entry, replacing any existing one.
	Set(key model.CacheKey, entry *model.CacheEntry) error
	// Remove deletes the entry and reports whether it existed.
	Remove(key model.CacheKey) (bool, error)
	// RemoveIf deletes the entry only while the stored entry has the revision of expected.
	// It reports whether an entry was deleted.
	RemoveIf(key model.CacheKey, expected *model.CacheEntry) (bool, error)
	// Replace stores entry only while the stored entry has the revision of expected.
	// It reports whether the entry was stored.
	Replace(key model.CacheKey, expected, entry *model.CacheEntry) (bool, error)
	// Keys returns a snapshot of the stored keys.
	Keys() ([]model.CacheKey, error)
	// Size returns the number of stored entries.
	Size() (int, error)
	// Clear removes every entry.
	Clear() error
	// Shutdown releases the resources held by the store.
	Shutdown() error
}

// Factory creates an object store for the named cache.
type Factory func(cacheName string, props model.CacheProperties) (ObjectStoreInterface, error)
