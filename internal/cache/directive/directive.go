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

// Package directive implements the structured cache directive used to cache values and
// rendered content around a body of work.
package directive

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/asgardeo/cacheengine/internal/cache/cacheerror"
	"github.com/asgardeo/cacheengine/internal/cache/provider"
	"github.com/asgardeo/cacheengine/internal/cache/registry"
	"github.com/asgardeo/cacheengine/internal/system/crypto/hash"
	"github.com/asgardeo/cacheengine/internal/system/log"
)

const (
	// TemplateKeyPrefix prefixes keys derived from the directive attributes and body.
	TemplateKeyPrefix = "TEMPLATE_"
	secondsInDay      = 86400
)

// Body is the work wrapped by a directive. Render produces the content cached when no
// explicit value is given.
type Body struct {
	ID     string
	Render func(ctx context.Context) (string, error)
}

// Attributes configures a directive invocation. Timespan and IdleTime are in days.
type Attributes struct {
	Action          Action         `json:"action"`
	Key             string         `json:"key,omitempty"`
	ID              string         `json:"id,omitempty"`
	Value           any            `json:"value,omitempty"`
	Name            string         `json:"name,omitempty"`
	CacheName       string         `json:"cacheName,omitempty"`
	Directory       string         `json:"directory,omitempty"`
	Timespan        *float64       `json:"timespan,omitempty"`
	IdleTime        *float64       `json:"idleTime,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	StripWhitespace bool           `json:"stripWhitespace,omitempty"`
	ThrowOnError    bool           `json:"throwOnError,omitempty"`
	UseCache        *bool          `json:"useCache,omitempty"`
}

// Result is the outcome of a directive. Variable names the destination requested by the caller.
type Result struct {
	Value    any
	Variable string
}

// ActionHandler serves a delegated action.
type ActionHandler func(ctx context.Context, attrs Attributes, body Body) (any, error)

// Executor runs cache directives against a registry.
type Executor struct {
	registry registry.CacheRegistryInterface
	handlers map[Action]ActionHandler
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewExecutor creates a directive executor.
func NewExecutor(cacheRegistry registry.CacheRegistryInterface) *Executor {
	return &Executor{
		registry: cacheRegistry,
		handlers: make(map[Action]ActionHandler),
		logger:   log.GetLogger().With(log.String(log.LoggerKeyComponentName, "CacheDirective")),
	}
}

// RegisterActionHandler registers the handler of a delegated action.
func (e *Executor) RegisterActionHandler(action Action, handler ActionHandler) error {
	if !action.isDelegated() {
		return cacheerror.NewValidationError("the cache action [%s] cannot be delegated", action)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[action] = handler
	return nil
}

// Execute runs the directive. Attribute errors are always returned. Cache failures are
// logged and yield an empty result unless ThrowOnError is set.
func (e *Executor) Execute(ctx context.Context, attrs Attributes, body Body) (*Result, error) {
	if attrs.Action == "" {
		attrs.Action = ActionCache
	}
	if !attrs.Action.IsValid() {
		return nil, cacheerror.NewValidationError("the cache action [%s] is not valid", attrs.Action)
	}

	key := attrs.Key
	if key == "" {
		key = attrs.ID
	}
	if key == "" && attrs.Action.requiresKey() {
		return nil, cacheerror.NewValidationError("an explicit key attribute is required for the cache action [%s]",
			attrs.Action)
	}
	if attrs.Action == ActionGet && attrs.Name == "" {
		return nil, cacheerror.NewValidationError("a variable name is required for the cache action [get]")
	}
	if attrs.Action == ActionDelete && key == "" {
		return nil, cacheerror.NewValidationError("the cache action [delete] requires a key")
	}

	result := &Result{Variable: attrs.Name}

	if attrs.UseCache != nil && !*attrs.UseCache {
		if attrs.Action.isDelegated() {
			return result, nil
		}
		value, err := e.valueOrBody(ctx, attrs, body)
		if err != nil {
			return nil, err
		}
		result.Value = finalize(value, attrs.StripWhitespace)
		return result, nil
	}

	if attrs.Action.isDelegated() {
		value, err := e.delegate(ctx, attrs, body)
		if err != nil {
			return nil, err
		}
		result.Value = finalize(value, attrs.StripWhitespace)
		return result, nil
	}

	value, err := e.run(ctx, attrs, body, key)
	if err != nil {
		if attrs.ThrowOnError {
			return nil, err
		}
		e.logger.Warn("Cache directive failed", log.String("action", string(attrs.Action)),
			log.String(log.LoggerKeyCacheKey, key), log.Error(err))
		return result, nil
	}
	result.Value = finalize(value, attrs.StripWhitespace)
	return result, nil
}

func (e *Executor) run(ctx context.Context, attrs Attributes, body Body, key string) (any, error) {
	cache, err := e.selectCache(ctx, attrs)
	if err != nil {
		return nil, err
	}
	timeout := daysToDuration(attrs.Timespan)
	if attrs.Timespan == nil && attrs.IdleTime != nil {
		timeout = daysToDuration(attrs.IdleTime)
	}
	idleTime := daysToDuration(attrs.IdleTime)

	switch attrs.Action {
	case ActionGet:
		var value any
		if attrs.ThrowOnError {
			value, _, err = cache.Get(key)
		} else {
			value, _, err = cache.GetQuiet(key)
		}
		return value, err
	case ActionPut:
		value, err := e.valueOrBody(ctx, attrs, body)
		if err != nil {
			return nil, err
		}
		return nil, cache.Set(key, value, timeout, idleTime, attrs.Metadata)
	case ActionCache, ActionOptimal, ActionContent:
		if key == "" {
			key = templateKey(attrs, body)
		}
		return cache.GetOrSet(ctx, key, func(ctx context.Context) (any, error) {
			return e.valueOrBody(ctx, attrs, body)
		}, timeout, idleTime, attrs.Metadata)
	case ActionFlush:
		if key == "" {
			_, err := cache.ClearAll(nil)
			return nil, err
		}
		return nil, e.clear(cache, key, attrs.ThrowOnError)
	case ActionDelete:
		return nil, e.clear(cache, key, attrs.ThrowOnError)
	case ActionClientCache, ActionServerCache:
		return nil, fmt.Errorf("%w: %s", cacheerror.ErrUnsupportedAction, attrs.Action)
	}
	return nil, fmt.Errorf("%w: %s", cacheerror.ErrUnsupportedAction, attrs.Action)
}

func (e *Executor) clear(cache provider.CacheProviderInterface, key string, announce bool) error {
	var err error
	if announce {
		_, err = cache.Clear(key)
	} else {
		_, err = cache.ClearQuiet(key)
	}
	return err
}

func (e *Executor) delegate(ctx context.Context, attrs Attributes, body Body) (any, error) {
	e.mu.RLock()
	handler, ok := e.handlers[attrs.Action]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: the cache action [%s] is not available in this runtime",
			cacheerror.ErrUnsupportedAction, attrs.Action)
	}
	return handler(ctx, attrs, body)
}

// selectCache picks the named cache, then a directory cache, then the default cache.
func (e *Executor) selectCache(ctx context.Context, attrs Attributes) (provider.CacheProviderInterface, error) {
	switch {
	case attrs.CacheName != "":
		return e.registry.ResolveCache(ctx, attrs.CacheName)
	case attrs.Directory != "":
		return e.registry.GetDirectoryCache(attrs.Directory)
	default:
		return e.registry.GetDefaultCache()
	}
}

func (e *Executor) valueOrBody(ctx context.Context, attrs Attributes, body Body) (any, error) {
	if attrs.Value != nil {
		return attrs.Value, nil
	}
	if body.Render == nil {
		return "", nil
	}
	content, err := body.Render(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to render the cache body: %w", err)
	}
	return content, nil
}

// templateKey derives a deterministic key from the attributes and the body identity.
// Values are compared by their formatted form and metadata does not take part.
func templateKey(attrs Attributes, body Body) string {
	if attrs.Value != nil {
		attrs.Value = fmt.Sprint(attrs.Value)
	}
	attrs.Metadata = nil

	identity := struct {
		Attributes Attributes `json:"attributes"`
		Body       string     `json:"body"`
	}{Attributes: attrs, Body: body.ID}
	canonical, err := json.Marshal(identity)
	if err != nil {
		canonical = []byte(fmt.Sprintf("%+v", identity))
	}
	return TemplateKeyPrefix + strings.ToUpper(hash.Hash(canonical))
}

func daysToDuration(days *float64) time.Duration {
	if days == nil {
		return 0
	}
	return time.Duration(int64(*days*secondsInDay)) * time.Second
}

func finalize(value any, stripWhitespace bool) any {
	if s, ok := value.(string); ok && stripWhitespace {
		return strings.TrimSpace(s)
	}
	return value
}
