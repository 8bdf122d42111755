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

package provider

import (
	"cmp"
	"slices"

	"github.com/asgardeo/cacheengine/internal/cache/constants"
	"github.com/asgardeo/cacheengine/internal/cache/model"
)

// selectVictims orders the entries by the eviction policy and returns the first count of them.
// Least recently accessed is the default ordering.
func selectVictims(entries []*model.CacheEntry, policy constants.EvictionPolicy, count int) []*model.CacheEntry {
	if count <= 0 || len(entries) == 0 {
		return nil
	}

	var compare func(a, b *model.CacheEntry) int
	switch policy {
	case constants.EvictionPolicyLFU:
		compare = func(a, b *model.CacheEntry) int {
			return cmp.Or(cmp.Compare(a.Hits(), b.Hits()), a.LastAccessed().Compare(b.LastAccessed()))
		}
	case constants.EvictionPolicyFIFO:
		compare = func(a, b *model.CacheEntry) int {
			return a.Created().Compare(b.Created())
		}
	case constants.EvictionPolicyLIFO:
		compare = func(a, b *model.CacheEntry) int {
			return b.Created().Compare(a.Created())
		}
	default:
		compare = func(a, b *model.CacheEntry) int {
			return a.LastAccessed().Compare(b.LastAccessed())
		}
	}

	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, compare)
	return sorted[:min(count, len(sorted))]
}
