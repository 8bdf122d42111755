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

package services

import (
	"net/http"

	"github.com/asgardeo/cacheengine/internal/cache/handler"
	"github.com/asgardeo/cacheengine/internal/cache/registry"
)

// CacheService exposes the cache management API.
type CacheService struct {
	cacheHandler *handler.CacheHandler
}

func NewCacheService(mux *http.ServeMux, cacheRegistry registry.CacheRegistryInterface) *CacheService {

	instance := &CacheService{
		cacheHandler: handler.NewCacheHandler(cacheRegistry),
	}
	instance.RegisterRoutes(mux)

	return instance
}

func (s *CacheService) RegisterRoutes(mux *http.ServeMux) {

	mux.HandleFunc("GET /caches", s.cacheHandler.HandleCacheListRequest)
	mux.HandleFunc("GET /caches/{name}", s.cacheHandler.HandleCacheGetRequest)
	mux.HandleFunc("GET /caches/{name}/report", s.cacheHandler.HandleCacheReportRequest)
	mux.HandleFunc("DELETE /caches/{name}/entries", s.cacheHandler.HandleClearEntriesRequest)
	mux.HandleFunc("POST /caches/{name}/reap", s.cacheHandler.HandleReapRequest)
}
