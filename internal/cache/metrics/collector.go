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

// Package metrics exports cache statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/asgardeo/cacheengine/internal/cache/provider"
	"github.com/asgardeo/cacheengine/internal/system/log"
)

const defaultNamespace = "cacheengine"

// CacheSource supplies the caches to collect. The registry satisfies it.
type CacheSource interface {
	Caches() []provider.CacheProviderInterface
}

// Collector reads the statistics of every registered cache at scrape time.
type Collector struct {
	source CacheSource
	logger *zap.Logger

	hits               *prometheus.Desc
	misses             *prometheus.Desc
	hitRate            *prometheus.Desc
	evictions          *prometheus.Desc
	garbageCollections *prometheus.Desc
	reaps              *prometheus.Desc
	lastReap           *prometheus.Desc
	size               *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector over the given source. An empty namespace uses the default.
func NewCollector(namespace string, source CacheSource) *Collector {
	if namespace == "" {
		namespace = defaultNamespace
	}
	labels := []string{"cache"}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "cache", name), help, labels, nil)
	}

	return &Collector{
		source:             source,
		logger:             log.GetLogger().With(log.String(log.LoggerKeyComponentName, "CacheMetrics")),
		hits:               desc("hits_total", "Total number of cache hits"),
		misses:             desc("misses_total", "Total number of cache misses"),
		hitRate:            desc("hit_rate", "Ratio of hits to lookups since the last reset"),
		evictions:          desc("evictions_total", "Total number of evicted entries"),
		garbageCollections: desc("garbage_collections_total", "Total number of store garbage collections"),
		reaps:              desc("reap_evictions_total", "Total number of entries removed by the reaper"),
		lastReap:           desc("last_reap_timestamp_seconds", "Unix time of the last reaper sweep"),
		size:               desc("entries", "Number of entries held by the cache"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.hitRate
	ch <- c.evictions
	ch <- c.garbageCollections
	ch <- c.reaps
	ch <- c.lastReap
	ch <- c.size
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, cache := range c.source.Caches() {
		name := cache.Name()
		snapshot := cache.GetStats().Snapshot()

		ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(snapshot.Hits), name)
		ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(snapshot.Misses), name)
		ch <- prometheus.MustNewConstMetric(c.hitRate, prometheus.GaugeValue, snapshot.HitRate, name)
		ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue,
			float64(snapshot.EvictionCount), name)
		ch <- prometheus.MustNewConstMetric(c.garbageCollections, prometheus.CounterValue,
			float64(snapshot.GarbageCollections), name)
		ch <- prometheus.MustNewConstMetric(c.reaps, prometheus.CounterValue, float64(snapshot.ReapCount), name)

		var lastReap float64
		if !snapshot.LastReapDatetime.IsZero() {
			lastReap = float64(snapshot.LastReapDatetime.Unix())
		}
		ch <- prometheus.MustNewConstMetric(c.lastReap, prometheus.GaugeValue, lastReap, name)

		size, err := cache.GetSize(nil)
		if err != nil {
			c.logger.Warn("Failed to read the cache size", log.String(log.LoggerKeyCacheName, name),
				log.Error(err))
			continue
		}
		ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(size), name)
	}
}

// NewRegistry returns a Prometheus registry holding the Go and process collectors plus
// the cache collector.
func NewRegistry(collector *Collector) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	registry.MustRegister(collector)
	return registry
}
