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

// Package events provides the lifecycle event bus of the cache engine.
package events

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/asgardeo/cacheengine/internal/system/log"
)

// EventType identifies a cache lifecycle event.
type EventType string

const (
	// AfterCacheElementInsert is published after a new key is stored.
	AfterCacheElementInsert EventType = "afterCacheElementInsert"
	// AfterCacheElementUpdated is published after an existing key is overwritten.
	AfterCacheElementUpdated EventType = "afterCacheElementUpdated"
	// AfterCacheElementRemoved is published after a key is removed.
	AfterCacheElementRemoved EventType = "afterCacheElementRemoved"
	// AfterCacheClearAll is published after a clear all operation.
	AfterCacheClearAll EventType = "afterCacheClearAll"
	// AfterCacheRegistration is published after a cache is registered.
	AfterCacheRegistration EventType = "afterCacheRegistration"
	// BeforeCacheRemoval is published before a cache is removed from the registry.
	BeforeCacheRemoval EventType = "beforeCacheRemoval"
	// BeforeCacheShutdown is published before a cache provider shuts down.
	BeforeCacheShutdown EventType = "beforeCacheShutdown"
	// AfterCacheShutdown is published after a cache provider shut down.
	AfterCacheShutdown EventType = "afterCacheShutdown"
)

// Event carries the details of a published event.
type Event struct {
	Type      EventType
	CacheName string
	Key       string
	Data      map[string]any
}

// Listener receives published events.
type Listener func(event Event)

// Bus dispatches events to subscribed listeners synchronously, in subscription order.
// A nil *Bus discards every event.
type Bus struct {
	listeners map[EventType][]Listener
	mu        sync.RWMutex
	logger    *zap.Logger
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[EventType][]Listener),
		logger:    log.GetLogger().With(log.String(log.LoggerKeyComponentName, "EventBus")),
	}
}

// Subscribe registers a listener for the given event type.
func (b *Bus) Subscribe(eventType EventType, listener Listener) {
	if b == nil || listener == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventType] = append(b.listeners[eventType], listener)
}

// Publish delivers the event to every listener of its type. A panicking listener is
// logged and does not stop delivery to the others.
func (b *Bus) Publish(event Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	listeners := append([]Listener(nil), b.listeners[event.Type]...)
	b.mu.RUnlock()

	for _, listener := range listeners {
		b.deliver(listener, event)
	}
}

func (b *Bus) deliver(listener Listener, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Cache event listener panicked", log.String("event", string(event.Type)),
				log.String(log.LoggerKeyCacheName, event.CacheName), log.Error(fmt.Errorf("%v", r)))
		}
	}()
	listener(event)
}
