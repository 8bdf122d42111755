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

// Package registry provides the cache registry that owns every cache provider of the engine.
package registry

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/asgardeo/cacheengine/internal/cache/cacheerror"
	"github.com/asgardeo/cacheengine/internal/cache/constants"
	"github.com/asgardeo/cacheengine/internal/cache/events"
	"github.com/asgardeo/cacheengine/internal/cache/model"
	"github.com/asgardeo/cacheengine/internal/cache/provider"
	"github.com/asgardeo/cacheengine/internal/cache/store"
	"github.com/asgardeo/cacheengine/internal/system/config"
	"github.com/asgardeo/cacheengine/internal/system/log"
)

// ProviderFactory creates a cache provider of a registered type over the given store.
type ProviderFactory func(name string, props model.CacheProperties, objectStore store.ObjectStoreInterface,
	bus *events.Bus) (provider.CacheProviderInterface, error)

// CacheRegistryInterface defines the operations of the cache registry.
type CacheRegistryInterface interface {
	GetDefaultCache() (provider.CacheProviderInterface, error)
	GetCache(name string) (provider.CacheProviderInterface, error)
	HasCache(name string) bool
	CreateCache(name, providerType string, props model.CacheProperties) (provider.CacheProviderInterface, error)
	GetRegisteredCaches() []string
	GetRegisteredProviders() []string
	GetDirectoryCache(directory string) (provider.CacheProviderInterface, error)
	ResolveName(ctx context.Context, name string) (string, error)
	ResolveCache(ctx context.Context, name string) (provider.CacheProviderInterface, error)
	ReplaceCache(name string, cache provider.CacheProviderInterface) error
	ShutdownCache(name string) error
	ClearAllCaches() error
	ReapAllCaches(ctx context.Context) error
	Shutdown() error
}

// CacheRegistry is the implementation of CacheRegistryInterface. Cache names are case insensitive.
type CacheRegistry struct {
	home              string
	defaults          model.CacheProperties
	caches            map[string]provider.CacheProviderInterface
	providerFactories map[string]ProviderFactory
	storeFactories    map[constants.ObjectStoreType]store.Factory
	bus               *events.Bus
	mu                sync.RWMutex
	logger            *zap.Logger
}

var _ CacheRegistryInterface = (*CacheRegistry)(nil)

// NewCacheRegistry creates a registry with the standard provider type and the given store types.
// Relative cache directories are resolved against home. bus may be nil.
func NewCacheRegistry(home string, storeFactories map[constants.ObjectStoreType]store.Factory,
	bus *events.Bus) *CacheRegistry {
	r := &CacheRegistry{
		home:              home,
		defaults:          model.DefaultCacheProperties(),
		caches:            make(map[string]provider.CacheProviderInterface),
		providerFactories: make(map[string]ProviderFactory),
		storeFactories:    make(map[constants.ObjectStoreType]store.Factory, len(storeFactories)),
		bus:               bus,
		logger:            log.GetLogger().With(log.String(log.LoggerKeyComponentName, "CacheRegistry")),
	}
	for storeType, factory := range storeFactories {
		r.storeFactories[storeType] = factory
	}
	r.providerFactories[constants.ProviderTypeStandard] = newStandardProvider
	return r
}

func newStandardProvider(name string, props model.CacheProperties, objectStore store.ObjectStoreInterface,
	bus *events.Bus) (provider.CacheProviderInterface, error) {
	return provider.NewCacheProvider(name, props, objectStore, bus), nil
}

// Startup applies the configured defaults, creates the default cache and every configured cache.
func (r *CacheRegistry) Startup(cfg config.CacheConfig) error {
	r.mu.Lock()
	r.defaults = r.propertiesFromConfig(model.DefaultCacheProperties(), cfg.Default)
	defaults := r.defaults
	r.mu.Unlock()

	if _, err := r.CreateCache(constants.DefaultCacheName, constants.ProviderTypeStandard, defaults); err != nil {
		return fmt.Errorf("failed to create the default cache: %w", err)
	}
	for _, named := range cfg.Caches {
		providerType := named.Provider
		if providerType == "" {
			providerType = constants.ProviderTypeStandard
		}
		props := r.propertiesFromConfig(defaults, named.Properties)
		if _, err := r.CreateCache(named.Name, providerType, props); err != nil {
			return fmt.Errorf("failed to create cache %s: %w", named.Name, err)
		}
	}
	r.logger.Info("Cache registry started", log.Int("caches", len(cfg.Caches)+1))
	return nil
}

// DefaultProperties returns the properties applied to caches created without explicit configuration.
func (r *CacheRegistry) DefaultProperties() model.CacheProperties {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaults
}

// RegisterProvider registers or replaces a provider type.
func (r *CacheRegistry) RegisterProvider(providerType string, factory ProviderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providerFactories[providerType] = factory
}

// RemoveProvider removes a provider type and reports whether it was registered.
func (r *CacheRegistry) RemoveProvider(providerType string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providerFactories[providerType]; !ok {
		return false
	}
	delete(r.providerFactories, providerType)
	return true
}

// RegisterStoreType registers or replaces an object store type.
func (r *CacheRegistry) RegisterStoreType(storeType constants.ObjectStoreType, factory store.Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storeFactories[storeType] = factory
}

// GetDefaultCache returns the default cache.
func (r *CacheRegistry) GetDefaultCache() (provider.CacheProviderInterface, error) {
	return r.GetCache(constants.DefaultCacheName)
}

// GetCache returns the named cache or a CacheNotFoundError listing the registered names.
func (r *CacheRegistry) GetCache(name string) (provider.CacheProviderInterface, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cache, ok := r.caches[model.NewCacheKey(name).Normalized()]; ok {
		return cache, nil
	}
	return nil, &cacheerror.CacheNotFoundError{Name: name, Registered: r.registeredNamesLocked()}
}

// HasCache reports whether the named cache is registered.
func (r *CacheRegistry) HasCache(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.caches[model.NewCacheKey(name).Normalized()]
	return ok
}

// CreateCache creates, registers and starts a cache.
func (r *CacheRegistry) CreateCache(name, providerType string, props model.CacheProperties) (
	provider.CacheProviderInterface, error) {
	r.mu.Lock()
	cache, err := r.createCacheLocked(name, providerType, props)
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	r.bus.Publish(events.Event{Type: events.AfterCacheRegistration, CacheName: name})
	return cache, nil
}

// GetRegisteredCaches returns the sorted names of every registered cache.
func (r *CacheRegistry) GetRegisteredCaches() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.registeredNamesLocked()
}

// GetRegisteredProviders returns the sorted provider types.
func (r *CacheRegistry) GetRegisteredProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.providerFactories))
	for providerType := range r.providerFactories {
		types = append(types, providerType)
	}
	slices.Sort(types)
	return types
}

// GetDirectoryCache returns the file system cache bound to a directory, creating it on first
// use. Each directory maps to exactly one cache even under concurrent callers.
func (r *CacheRegistry) GetDirectoryCache(directory string) (provider.CacheProviderInterface, error) {
	if directory == "" {
		return nil, cacheerror.NewValidationError("a directory is required for a directory cache")
	}
	absolute, err := filepath.Abs(r.resolvePath(directory))
	if err != nil {
		return nil, cacheerror.NewValidationError("invalid cache directory [%s]: %v", directory, err)
	}
	name := constants.DirectoryCachePrefix + absolute

	r.mu.Lock()
	if cache, ok := r.caches[model.NewCacheKey(name).Normalized()]; ok {
		r.mu.Unlock()
		return cache, nil
	}
	props := r.defaults
	props.ObjectStore = constants.ObjectStoreTypeFileSystem
	props.Directory = absolute
	props.UseLastAccessTimeouts = true
	cache, err := r.createCacheLocked(name, constants.ProviderTypeStandard, props)
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	r.bus.Publish(events.Event{Type: events.AfterCacheRegistration, CacheName: name})
	return cache, nil
}

// ResolveName maps a user supplied cache name to a registered name. An application scoped
// name is preferred when the context carries an application name.
func (r *CacheRegistry) ResolveName(ctx context.Context, name string) (string, error) {
	if name == "" {
		name = constants.DefaultCacheName
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if appName, ok := ApplicationNameFromContext(ctx); ok {
		scoped := appName + constants.ApplicationCacheSeparator + name
		if cache, found := r.caches[model.NewCacheKey(scoped).Normalized()]; found {
			return cache.Name(), nil
		}
	}
	if cache, found := r.caches[model.NewCacheKey(name).Normalized()]; found {
		return cache.Name(), nil
	}
	return "", &cacheerror.CacheNotFoundError{Name: name, Registered: r.registeredNamesLocked()}
}

// ResolveCache resolves the name and returns the cache it maps to.
func (r *CacheRegistry) ResolveCache(ctx context.Context, name string) (provider.CacheProviderInterface, error) {
	resolved, err := r.ResolveName(ctx, name)
	if err != nil {
		return nil, err
	}
	return r.GetCache(resolved)
}

// ReplaceCache registers cache under name, shutting down the cache it replaces.
func (r *CacheRegistry) ReplaceCache(name string, cache provider.CacheProviderInterface) error {
	if cache == nil {
		return cacheerror.NewValidationError("a cache provider is required to replace cache [%s]", name)
	}
	key := model.NewCacheKey(name).Normalized()

	r.mu.Lock()
	previous, existed := r.caches[key]
	r.caches[key] = cache
	r.mu.Unlock()

	cache.Start()
	var err error
	if existed && previous != cache {
		r.bus.Publish(events.Event{Type: events.BeforeCacheRemoval, CacheName: previous.Name()})
		err = previous.Shutdown()
	}
	r.bus.Publish(events.Event{Type: events.AfterCacheRegistration, CacheName: name})
	return err
}

// ShutdownCache shuts down and removes a cache. The default cache cannot be removed.
func (r *CacheRegistry) ShutdownCache(name string) error {
	key := model.NewCacheKey(name).Normalized()
	if key == model.NewCacheKey(constants.DefaultCacheName).Normalized() {
		return cacheerror.ErrDefaultCacheShutdown
	}

	r.mu.Lock()
	cache, ok := r.caches[key]
	if !ok {
		registered := r.registeredNamesLocked()
		r.mu.Unlock()
		return &cacheerror.CacheNotFoundError{Name: name, Registered: registered}
	}
	delete(r.caches, key)
	r.mu.Unlock()

	r.bus.Publish(events.Event{Type: events.BeforeCacheRemoval, CacheName: cache.Name()})
	return cache.Shutdown()
}

// ClearAllCaches removes every entry of every cache.
func (r *CacheRegistry) ClearAllCaches() error {
	var err error
	for _, cache := range r.snapshot() {
		if _, clearErr := cache.ClearAll(nil); clearErr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to clear cache %s: %w", cache.Name(), clearErr))
		}
	}
	return err
}

// ReapAllCaches runs a sweep on every cache.
func (r *CacheRegistry) ReapAllCaches(ctx context.Context) error {
	var err error
	for _, cache := range r.snapshot() {
		if reapErr := cache.Reap(ctx); reapErr != nil {
			if errors.Is(reapErr, context.Canceled) || errors.Is(reapErr, context.DeadlineExceeded) {
				return multierr.Append(err, reapErr)
			}
			err = multierr.Append(err, fmt.Errorf("failed to reap cache %s: %w", cache.Name(), reapErr))
		}
	}
	return err
}

// Shutdown shuts down and removes every cache, the default cache included.
func (r *CacheRegistry) Shutdown() error {
	r.mu.Lock()
	caches := r.caches
	r.caches = make(map[string]provider.CacheProviderInterface)
	r.mu.Unlock()

	var err error
	for _, cache := range caches {
		r.bus.Publish(events.Event{Type: events.BeforeCacheRemoval, CacheName: cache.Name()})
		if shutdownErr := cache.Shutdown(); shutdownErr != nil {
			r.logger.Error("Failed to shut down cache", log.String(log.LoggerKeyCacheName, cache.Name()),
				log.Error(shutdownErr))
			err = multierr.Append(err, fmt.Errorf("failed to shut down cache %s: %w", cache.Name(), shutdownErr))
		}
	}
	r.logger.Info("Cache registry shut down", log.Int("caches", len(caches)))
	return err
}

// Caches returns the registered caches sorted by name.
func (r *CacheRegistry) Caches() []provider.CacheProviderInterface {
	return r.snapshot()
}

func (r *CacheRegistry) snapshot() []provider.CacheProviderInterface {
	r.mu.RLock()
	defer r.mu.RUnlock()
	caches := make([]provider.CacheProviderInterface, 0, len(r.caches))
	for _, cache := range r.caches {
		caches = append(caches, cache)
	}
	slices.SortFunc(caches, func(a, b provider.CacheProviderInterface) int {
		return compareNames(a.Name(), b.Name())
	})
	return caches
}

func (r *CacheRegistry) createCacheLocked(name, providerType string, props model.CacheProperties) (
	provider.CacheProviderInterface, error) {
	if name == "" {
		return nil, cacheerror.NewValidationError("a cache name is required")
	}
	key := model.NewCacheKey(name).Normalized()
	if _, exists := r.caches[key]; exists {
		return nil, fmt.Errorf("%w: %s", cacheerror.ErrCacheExists, name)
	}

	providerFactory, ok := r.providerFactories[providerType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", cacheerror.ErrProviderTypeNotFound, providerType)
	}
	props = props.WithDefaults()
	if props.Directory != "" {
		props.Directory = r.resolvePath(props.Directory)
	}
	storeFactory, ok := r.storeFactories[props.ObjectStore]
	if !ok {
		return nil, fmt.Errorf("%w: %s", cacheerror.ErrStoreTypeNotFound, props.ObjectStore)
	}

	objectStore, err := storeFactory(name, props)
	if err != nil {
		return nil, err
	}
	cache, err := providerFactory(name, props, objectStore, r.bus)
	if err != nil {
		return nil, multierr.Append(err, objectStore.Shutdown())
	}

	r.caches[key] = cache
	cache.Start()
	r.logger.Debug("Cache created", log.String(log.LoggerKeyCacheName, name),
		log.String("providerType", providerType), log.String("objectStore", string(props.ObjectStore)))
	return cache, nil
}

func (r *CacheRegistry) registeredNamesLocked() []string {
	names := make([]string, 0, len(r.caches))
	for _, cache := range r.caches {
		names = append(names, cache.Name())
	}
	slices.SortFunc(names, compareNames)
	return names
}

func (r *CacheRegistry) resolvePath(path string) string {
	if filepath.IsAbs(path) || r.home == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(r.home, path)
}

func compareNames(a, b string) int {
	return strings.Compare(model.NewCacheKey(a).Normalized(), model.NewCacheKey(b).Normalized())
}
