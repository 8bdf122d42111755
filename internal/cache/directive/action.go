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

package directive

import (
	"strings"

	"github.com/asgardeo/cacheengine/internal/cache/cacheerror"
)

// Action is the operation requested by a cache directive.
type Action string

const (
	// ActionCache returns the cached value, computing it when absent.
	ActionCache Action = "cache"
	// ActionOptimal is an alias of ActionCache.
	ActionOptimal Action = "optimal"
	// ActionContent caches the rendered body.
	ActionContent Action = "content"
	// ActionClientCache is delegated to a registered handler.
	ActionClientCache Action = "clientcache"
	// ActionServerCache is delegated to a registered handler.
	ActionServerCache Action = "servercache"
	// ActionFlush clears a key or the whole cache.
	ActionFlush Action = "flush"
	// ActionDelete clears a key.
	ActionDelete Action = "delete"
	// ActionPut stores a value.
	ActionPut Action = "put"
	// ActionGet reads a value.
	ActionGet Action = "get"
)

// ParseAction parses an action name, ignoring case and surrounding spaces. An empty
// name selects ActionCache.
func ParseAction(name string) (Action, error) {
	action := Action(strings.ToLower(strings.TrimSpace(name)))
	if action == "" {
		return ActionCache, nil
	}
	if !action.IsValid() {
		return "", cacheerror.NewValidationError("the cache action [%s] is not valid", name)
	}
	return action, nil
}

// IsValid reports whether the action is one of the defined actions.
func (a Action) IsValid() bool {
	switch a {
	case ActionCache, ActionOptimal, ActionContent, ActionClientCache, ActionServerCache,
		ActionFlush, ActionDelete, ActionPut, ActionGet:
		return true
	}
	return false
}

// requiresKey reports whether the action needs an explicit key.
func (a Action) requiresKey() bool {
	return a == ActionGet || a == ActionPut
}

// isDelegated reports whether the action is served by a registered handler instead of a cache.
func (a Action) isDelegated() bool {
	return a == ActionClientCache || a == ActionServerCache
}
