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

// Package reaper provides the background sweeper that removes expired cache entries.
package reaper

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/asgardeo/cacheengine/internal/system/log"
)

// Target is swept by a Reaper.
type Target interface {
	Reap(ctx context.Context) error
}

// Reaper invokes a target sweep on a fixed frequency from its own goroutine.
type Reaper struct {
	name      string
	target    Target
	frequency time.Duration
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	logger    *zap.Logger
}

// NewReaper creates a stopped reaper for the named cache.
func NewReaper(name string, target Target, frequency time.Duration) *Reaper {
	return &Reaper{
		name:      name,
		target:    target,
		frequency: frequency,
		logger: log.GetLogger().With(log.String(log.LoggerKeyComponentName, "Reaper"),
			log.String(log.LoggerKeyCacheName, name)),
	}
}

// Frequency returns the interval between sweeps.
func (r *Reaper) Frequency() time.Duration {
	return r.frequency
}

// Start launches the sweep goroutine. Calling Start on a running reaper does nothing.
func (r *Reaper) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil || r.frequency <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.wg.Add(1)
	go r.loop(ctx)
	r.logger.Debug("Reaper started", log.Duration("frequency", r.frequency))
}

// Stop cancels the sweep goroutine and waits for it to exit. It is safe to call repeatedly.
func (r *Reaper) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	r.wg.Wait()
	r.logger.Debug("Reaper stopped")
}

// IsRunning reports whether the sweep goroutine is active.
func (r *Reaper) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

func (r *Reaper) loop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.frequency)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.target.Reap(ctx); err != nil && ctx.Err() == nil {
				r.logger.Warn("Cache sweep failed", log.Error(err))
			}
		}
	}
}
