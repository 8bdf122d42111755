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

// Package model defines the data structures shared by the cache engine.
package model

import "strings"

// CacheKey is a case insensitive cache key. The original casing is kept for display
// while the normalized form is used for equality and as the map key of every store.
type CacheKey struct {
	name       string
	normalized string
}

// NewCacheKey creates a CacheKey for the given name.
func NewCacheKey(name string) CacheKey {
	return CacheKey{
		name:       name,
		normalized: strings.ToUpper(name),
	}
}

// Name returns the key name in its original casing.
func (key CacheKey) Name() string {
	return key.name
}

// Normalized returns the case folded form of the key.
func (key CacheKey) Normalized() string {
	return key.normalized
}

// Equals reports whether both keys have the same normalized form.
func (key CacheKey) Equals(other CacheKey) bool {
	return key.normalized == other.normalized
}

// ToString returns the string representation of the CacheKey.
func (key CacheKey) ToString() string {
	return key.name
}

// String implements fmt.Stringer.
func (key CacheKey) String() string {
	return key.name
}
