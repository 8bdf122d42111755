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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/asgardeo/cacheengine/internal/cache/registry"
)

// HealthService serves the liveness endpoint and the Prometheus scrape endpoint.
type HealthService struct {
	registry registry.CacheRegistryInterface
	gatherer prometheus.Gatherer
}

func NewHealthService(mux *http.ServeMux, cacheRegistry registry.CacheRegistryInterface,
	gatherer prometheus.Gatherer) *HealthService {

	instance := &HealthService{
		registry: cacheRegistry,
		gatherer: gatherer,
	}
	instance.RegisterRoutes(mux)
	return instance
}

func (s *HealthService) RegisterRoutes(mux *http.ServeMux) {

	mux.HandleFunc("GET /health/liveness", s.HandleLivenessRequest)
	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
}

// HandleLivenessRequest reports the server as live while the default cache is registered.
func (s *HealthService) HandleLivenessRequest(w http.ResponseWriter, r *http.Request) {

	if _, err := s.registry.GetDefaultCache(); err != nil {
		http.Error(w, "Default cache is unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
