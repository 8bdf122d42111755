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

package model

import (
	"time"

	"github.com/asgardeo/cacheengine/internal/cache/constants"
)

// CacheProperties holds the configuration of a cache provider.
type CacheProperties struct {
	ObjectStore              constants.ObjectStoreType `json:"objectStore"`
	Directory                string                    `json:"directory,omitempty"`
	MaxObjects               int                       `json:"maxObjects"`
	UseLastAccessTimeouts    bool                      `json:"useLastAccessTimeouts"`
	ReapFrequency            time.Duration             `json:"reapFrequency"`
	DefaultTimeout           time.Duration             `json:"defaultTimeout"`
	DefaultLastAccessTimeout time.Duration             `json:"defaultLastAccessTimeout"`
	EvictionPolicy           constants.EvictionPolicy  `json:"evictionPolicy"`
	EvictCount               int                       `json:"evictCount"`
	ResetTimeoutOnAccess     bool                      `json:"resetTimeoutOnAccess"`
	DataSource               string                    `json:"dataSource,omitempty"`
}

// DefaultCacheProperties returns the properties used when nothing is configured.
func DefaultCacheProperties() CacheProperties {
	return CacheProperties{
		ObjectStore:              constants.ObjectStoreTypeConcurrent,
		MaxObjects:               constants.DefaultMaxObjects,
		UseLastAccessTimeouts:    true,
		ReapFrequency:            constants.DefaultReapFrequency,
		DefaultTimeout:           constants.DefaultTimeout,
		DefaultLastAccessTimeout: constants.DefaultLastAccessTimeout,
		EvictionPolicy:           constants.EvictionPolicyLRU,
		EvictCount:               constants.DefaultEvictCount,
	}
}

// WithDefaults returns a copy of the properties with unusable values replaced by defaults.
func (p CacheProperties) WithDefaults() CacheProperties {
	if p.ObjectStore == "" {
		p.ObjectStore = constants.ObjectStoreTypeConcurrent
	}
	if p.MaxObjects < 0 {
		p.MaxObjects = 0
	}
	if p.ReapFrequency <= 0 {
		p.ReapFrequency = constants.DefaultReapFrequency
	}
	if p.DefaultTimeout < 0 {
		p.DefaultTimeout = 0
	}
	if p.DefaultLastAccessTimeout < 0 {
		p.DefaultLastAccessTimeout = 0
	}
	switch p.EvictionPolicy {
	case constants.EvictionPolicyLRU, constants.EvictionPolicyLFU,
		constants.EvictionPolicyFIFO, constants.EvictionPolicyLIFO:
	default:
		p.EvictionPolicy = constants.EvictionPolicyLRU
	}
	if p.EvictCount <= 0 {
		p.EvictCount = constants.DefaultEvictCount
	}
	return p
}
