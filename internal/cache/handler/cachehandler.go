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

// Package handler exposes the cache registry over HTTP.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/asgardeo/cacheengine/internal/cache/cacheerror"
	"github.com/asgardeo/cacheengine/internal/cache/filter"
	"github.com/asgardeo/cacheengine/internal/cache/model"
	"github.com/asgardeo/cacheengine/internal/cache/provider"
	"github.com/asgardeo/cacheengine/internal/cache/registry"
	"github.com/asgardeo/cacheengine/internal/cache/stats"
	"github.com/asgardeo/cacheengine/internal/system/error/serviceerror"
	"github.com/asgardeo/cacheengine/internal/system/log"
	"github.com/asgardeo/cacheengine/internal/utils"
)

// ApplicationNameHeader selects the application scope used to resolve cache names.
const ApplicationNameHeader = "X-Application-Name"

// CacheListResponse is the body of the cache list response.
type CacheListResponse struct {
	Caches    []string `json:"caches"`
	Providers []string `json:"providers"`
}

// CachePropertiesResponse is the wire form of the cache properties. Durations are in seconds.
type CachePropertiesResponse struct {
	ObjectStore              string `json:"objectStore"`
	Directory                string `json:"directory,omitempty"`
	MaxObjects               int    `json:"maxObjects"`
	UseLastAccessTimeouts    bool   `json:"useLastAccessTimeouts"`
	ReapFrequency            int64  `json:"reapFrequency"`
	DefaultTimeout           int64  `json:"defaultTimeout"`
	DefaultLastAccessTimeout int64  `json:"defaultLastAccessTimeout"`
	EvictionPolicy           string `json:"evictionPolicy"`
	EvictCount               int    `json:"evictCount"`
	ResetTimeoutOnAccess     bool   `json:"resetTimeoutOnAccess"`
}

// CacheResponse is the body of the cache detail response.
type CacheResponse struct {
	Name          string                  `json:"name"`
	Type          string                  `json:"type"`
	ReaperRunning bool                    `json:"reaperRunning"`
	Size          int                     `json:"size"`
	Statistics    stats.Snapshot          `json:"statistics"`
	Properties    CachePropertiesResponse `json:"properties"`
}

// ClearResponse is the body of the clear entries response.
type ClearResponse struct {
	Cleared bool `json:"cleared"`
}

// CacheHandler handles the cache management requests.
type CacheHandler struct {
	registry registry.CacheRegistryInterface
	logger   *zap.Logger
}

type runningReporter interface {
	IsRunning() bool
}

// NewCacheHandler creates a handler over the given registry.
func NewCacheHandler(cacheRegistry registry.CacheRegistryInterface) *CacheHandler {

	return &CacheHandler{
		registry: cacheRegistry,
		logger:   log.GetLogger().With(log.String(log.LoggerKeyComponentName, "CacheHandler")),
	}
}

// HandleCacheListRequest lists the registered caches and provider types.
func (h *CacheHandler) HandleCacheListRequest(w http.ResponseWriter, r *http.Request) {

	utils.WriteJSON(w, h.logger, http.StatusOK, CacheListResponse{
		Caches:    h.registry.GetRegisteredCaches(),
		Providers: h.registry.GetRegisteredProviders(),
	})
}

// HandleCacheGetRequest returns the statistics and properties of a cache.
func (h *CacheHandler) HandleCacheGetRequest(w http.ResponseWriter, r *http.Request) {

	cache, ok := h.resolveCache(w, r)
	if !ok {
		return
	}

	size, err := cache.GetSize(nil)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var running bool
	if reporter, ok := cache.(runningReporter); ok {
		running = reporter.IsRunning()
	}
	utils.WriteJSON(w, h.logger, http.StatusOK, CacheResponse{
		Name:          cache.Name(),
		Type:          cache.Type(),
		ReaperRunning: running,
		Size:          size,
		Statistics:    cache.GetStats().Snapshot(),
		Properties:    toPropertiesResponse(cache.Properties()),
	})
}

// HandleCacheReportRequest returns the entry metadata report of a cache.
func (h *CacheHandler) HandleCacheReportRequest(w http.ResponseWriter, r *http.Request) {

	limit, err := utils.ParseIntQueryParam(r, "limit", 0)
	if err != nil || limit < 0 {
		utils.WriteServiceError(w, h.logger,
			ErrorInvalidQueryParam.WithDescription("The limit must be a non negative integer"), http.StatusBadRequest)
		return
	}

	cache, ok := h.resolveCache(w, r)
	if !ok {
		return
	}

	report, err := cache.GetStoreMetadataReport(limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	utils.WriteJSON(w, h.logger, http.StatusOK, report)
}

// HandleClearEntriesRequest removes the entries matching the optional filter.
func (h *CacheHandler) HandleClearEntriesRequest(w http.ResponseWriter, r *http.Request) {

	useRegex, err := utils.ParseBoolQueryParam(r, "regex", false)
	if err != nil {
		utils.WriteServiceError(w, h.logger,
			ErrorInvalidQueryParam.WithDescription("The regex parameter must be a boolean"), http.StatusBadRequest)
		return
	}

	var keyFilter filter.KeyFilter
	if pattern := r.URL.Query().Get("filter"); pattern != "" {
		keyFilter, err = filter.New(pattern, useRegex)
		if err != nil {
			utils.WriteServiceError(w, h.logger, ErrorInvalidFilter.WithDescription(err.Error()),
				http.StatusBadRequest)
			return
		}
	}

	cache, ok := h.resolveCache(w, r)
	if !ok {
		return
	}

	cleared, err := cache.ClearAll(keyFilter)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.logger.Debug("Cleared cache entries", log.String(log.LoggerKeyCacheName, cache.Name()),
		log.Bool("cleared", cleared))
	utils.WriteJSON(w, h.logger, http.StatusOK, ClearResponse{Cleared: cleared})
}

// HandleReapRequest runs a reaper sweep on a cache.
func (h *CacheHandler) HandleReapRequest(w http.ResponseWriter, r *http.Request) {

	cache, ok := h.resolveCache(w, r)
	if !ok {
		return
	}

	if err := cache.Reap(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CacheHandler) resolveCache(w http.ResponseWriter, r *http.Request) (provider.CacheProviderInterface, bool) {

	ctx := r.Context()
	if appName := r.Header.Get(ApplicationNameHeader); appName != "" {
		ctx = registry.WithApplicationName(ctx, appName)
	}

	cache, err := h.registry.ResolveCache(ctx, r.PathValue("name"))
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	return cache, true
}

func (h *CacheHandler) writeError(w http.ResponseWriter, err error) {

	var svcErr *serviceerror.ServiceError
	status := http.StatusInternalServerError

	var notFound *cacheerror.CacheNotFoundError
	switch {
	case errors.As(err, &notFound):
		svcErr = ErrorCacheNotFound.WithDescription(notFound.Error())
		status = http.StatusNotFound
	case errors.Is(err, cacheerror.ErrValidation):
		svcErr = ErrorInvalidFilter.WithDescription(err.Error())
		status = http.StatusBadRequest
	case errors.Is(err, cacheerror.ErrProviderShutdown):
		svcErr = ErrorCacheShutdown.WithDescription(err.Error())
		status = http.StatusConflict
	case errors.Is(err, cacheerror.ErrStorageIO):
		h.logger.Error("Cache store failed", log.Error(err))
		svcErr = &ErrorStorageFailure
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.logger.Debug("Request cancelled", log.Error(err))
		svcErr = &ErrorInternalServerError
		status = http.StatusServiceUnavailable
	default:
		h.logger.Error("Unexpected cache failure", log.Error(err))
		svcErr = &ErrorInternalServerError
	}
	utils.WriteServiceError(w, h.logger, svcErr, status)
}

func toPropertiesResponse(props model.CacheProperties) CachePropertiesResponse {

	return CachePropertiesResponse{
		ObjectStore:              string(props.ObjectStore),
		Directory:                props.Directory,
		MaxObjects:               props.MaxObjects,
		UseLastAccessTimeouts:    props.UseLastAccessTimeouts,
		ReapFrequency:            int64(props.ReapFrequency / time.Second),
		DefaultTimeout:           int64(props.DefaultTimeout / time.Second),
		DefaultLastAccessTimeout: int64(props.DefaultLastAccessTimeout / time.Second),
		EvictionPolicy:           string(props.EvictionPolicy),
		EvictCount:               props.EvictCount,
		ResetTimeoutOnAccess:     props.ResetTimeoutOnAccess,
	}
}
