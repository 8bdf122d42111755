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

// Package constants provides common constants used across caching.
package constants

import "time"

// EvictionPolicy defines the eviction policy for cache entries.
type EvictionPolicy string

const (
	// EvictionPolicyLRU represents the Least Recently Used eviction policy.
	EvictionPolicyLRU EvictionPolicy = "LRU"
	// EvictionPolicyLFU represents the Least Frequently Used eviction policy.
	EvictionPolicyLFU EvictionPolicy = "LFU"
	// EvictionPolicyFIFO evicts the oldest created entries first.
	EvictionPolicyFIFO EvictionPolicy = "FIFO"
	// EvictionPolicyLIFO evicts the newest created entries first.
	EvictionPolicyLIFO EvictionPolicy = "LIFO"
)

// ObjectStoreType identifies an object store implementation.
type ObjectStoreType string

const (
	// ObjectStoreTypeConcurrent represents the in-memory concurrent store.
	ObjectStoreTypeConcurrent ObjectStoreType = "concurrent"
	// ObjectStoreTypeFileSystem represents the directory backed store.
	ObjectStoreTypeFileSystem ObjectStoreType = "filesystem"
	// ObjectStoreTypeDatabase represents the database backed store.
	ObjectStoreTypeDatabase ObjectStoreType = "database"
)

const (
	// ProviderTypeStandard is the provider type of the built in cache provider.
	ProviderTypeStandard = "standard"
	// DefaultCacheName is the name of the cache created at startup.
	DefaultCacheName = "default"
	// DirectoryCachePrefix prefixes the registry name of caches created for a directory.
	DirectoryCachePrefix = "directory:"
	// ApplicationCacheSeparator separates the application name from the cache name.
	ApplicationCacheSeparator = ":"
)

const (
	// DefaultMaxObjects represents the default capacity of a cache.
	DefaultMaxObjects = 1000
	// DefaultEvictCount represents the default number of entries removed per capacity eviction.
	DefaultEvictCount = 1
	// DefaultReapFrequency represents the default interval between reaper sweeps.
	DefaultReapFrequency = 120 * time.Second
	// DefaultTimeout represents the default absolute timeout of a cache entry.
	DefaultTimeout = 3600 * time.Second
	// DefaultLastAccessTimeout represents the default idle timeout of a cache entry.
	DefaultLastAccessTimeout = 1800 * time.Second
	// DefaultReportLimit bounds the number of entries returned by a metadata report.
	DefaultReportLimit = 100
)

// UseDefaultTimeout asks a provider to use its configured default timeout.
const UseDefaultTimeout time.Duration = -1
