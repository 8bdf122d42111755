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

// Package functions provides the named cache operations exposed to callers of the engine.
// Every cache name is resolved through the registry, preferring application scoped caches.
package functions

import (
	"context"
	"time"

	"github.com/asgardeo/cacheengine/internal/cache/cacheerror"
	"github.com/asgardeo/cacheengine/internal/cache/filter"
	"github.com/asgardeo/cacheengine/internal/cache/provider"
	"github.com/asgardeo/cacheengine/internal/cache/registry"
)

// CacheFunctions exposes the named cache operations over a registry.
type CacheFunctions struct {
	registry registry.CacheRegistryInterface
}

// NewCacheFunctions creates the named cache operations for a registry.
func NewCacheFunctions(cacheRegistry registry.CacheRegistryInterface) *CacheFunctions {
	return &CacheFunctions{registry: cacheRegistry}
}

// CacheGet returns the value stored under id, or defaultValue when it is absent or expired.
// An empty cache name selects the default cache.
func (f *CacheFunctions) CacheGet(ctx context.Context, id, cacheName string, defaultValue any) (any, error) {
	cache, err := f.GetCache(ctx, cacheName)
	if err != nil {
		return nil, err
	}
	value, found, err := cache.Get(id)
	if err != nil {
		return nil, err
	}
	if !found {
		return defaultValue, nil
	}
	return value, nil
}

// CacheClearAll removes the entries whose keys match the pattern, or every entry when the
// pattern is empty. It reports whether anything was removed.
func (f *CacheFunctions) CacheClearAll(ctx context.Context, pattern, cacheName string, useRegex bool) (bool, error) {
	cache, err := f.GetCache(ctx, cacheName)
	if err != nil {
		return false, err
	}
	if pattern == "" {
		return cache.ClearAll(nil)
	}
	keyFilter, err := GetCacheFilter(pattern, useRegex)
	if err != nil {
		return false, err
	}
	return cache.ClearAll(keyFilter)
}

// CachePut stores a value. Negative timeouts select the cache defaults and zero disables the
// corresponding expiry.
func (f *CacheFunctions) CachePut(ctx context.Context, cacheName, key string, value any, timeout,
	idleTime time.Duration) error {
	cache, err := f.GetCache(ctx, cacheName)
	if err != nil {
		return err
	}
	return cache.Set(key, value, timeout, idleTime, nil)
}

// GetCache returns the provider a cache name resolves to.
func (f *CacheFunctions) GetCache(ctx context.Context, cacheName string) (provider.CacheProviderInterface, error) {
	return f.registry.ResolveCache(ctx, cacheName)
}

// GetCacheFilter builds a key filter from a wildcard pattern or, when useRegex is set, a
// regular expression.
func GetCacheFilter(pattern string, useRegex bool) (filter.KeyFilter, error) {
	keyFilter, err := filter.New(pattern, useRegex)
	if err != nil {
		return nil, cacheerror.NewValidationError("%v", err)
	}
	return keyFilter, nil
}
