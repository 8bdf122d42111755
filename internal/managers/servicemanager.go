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

package managers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/asgardeo/cacheengine/internal/cache/registry"
	"github.com/asgardeo/cacheengine/internal/services"
)

type ServiceManagerInterface interface {
	RegisterServices() error
}

type ServiceManager struct {
	mux      *http.ServeMux
	registry registry.CacheRegistryInterface
	gatherer prometheus.Gatherer
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux, cacheRegistry registry.CacheRegistryInterface,
	gatherer prometheus.Gatherer) ServiceManagerInterface {

	return &ServiceManager{
		mux:      mux,
		registry: cacheRegistry,
		gatherer: gatherer,
	}
}

func (sm *ServiceManager) RegisterServices() error {

	// Register the cache management service.
	services.NewCacheService(sm.mux, sm.registry)

	// Register the health and metrics service.
	services.NewHealthService(sm.mux, sm.registry, sm.gatherer)

	return nil
}
