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

package registry

import (
	"time"

	"github.com/asgardeo/cacheengine/internal/cache/constants"
	"github.com/asgardeo/cacheengine/internal/cache/model"
	"github.com/asgardeo/cacheengine/internal/system/config"
)

// propertiesFromConfig overlays the configured properties on base. Unset values keep the
// base value; durations are configured in seconds.
func (r *CacheRegistry) propertiesFromConfig(base model.CacheProperties, property config.CacheProperty) model.CacheProperties {
	props := base
	if property.ObjectStore != "" {
		props.ObjectStore = constants.ObjectStoreType(property.ObjectStore)
	}
	if property.Directory != "" {
		props.Directory = r.resolvePath(property.Directory)
	} else {
		props.Directory = ""
	}
	if property.MaxObjects != nil {
		props.MaxObjects = *property.MaxObjects
	}
	if property.UseLastAccessTimeouts != nil {
		props.UseLastAccessTimeouts = *property.UseLastAccessTimeouts
	}
	if property.ReapFrequency > 0 {
		props.ReapFrequency = seconds(property.ReapFrequency)
	}
	if property.DefaultTimeout != nil {
		props.DefaultTimeout = seconds(*property.DefaultTimeout)
	}
	if property.DefaultLastAccessTimeout != nil {
		props.DefaultLastAccessTimeout = seconds(*property.DefaultLastAccessTimeout)
	}
	if property.EvictionPolicy != "" {
		props.EvictionPolicy = constants.EvictionPolicy(property.EvictionPolicy)
	}
	if property.EvictCount > 0 {
		props.EvictCount = property.EvictCount
	}
	if property.ResetTimeoutOnAccess {
		props.ResetTimeoutOnAccess = true
	}
	if property.DataSource != "" {
		props.DataSource = property.DataSource
	}
	return props.WithDefaults()
}

func seconds(value int) time.Duration {
	return time.Duration(value) * time.Second
}
