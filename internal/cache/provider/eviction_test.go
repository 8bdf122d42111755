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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/asgardeo/cacheengine/internal/cache/constants"
	"github.com/asgardeo/cacheengine/internal/cache/model"
)

func TestSelectVictims(t *testing.T) {
	base := time.Now().Add(-time.Hour)
	entry := func(key string, createdOffset, accessedOffset time.Duration, hits int64) *model.CacheEntry {
		return model.NewCacheEntryFromRecord(model.EntryRecord{
			CacheName:    "test",
			Key:          key,
			Created:      base.Add(createdOffset),
			LastAccessed: base.Add(accessedOffset),
			Hits:         hits,
		})
	}
	entries := []*model.CacheEntry{
		entry("first", 0, 30*time.Minute, 5),
		entry("second", time.Minute, 10*time.Minute, 1),
		entry("third", 2*time.Minute, 20*time.Minute, 9),
	}

	testCases := []struct {
		name   string
		policy constants.EvictionPolicy
		want   string
	}{
		{name: "LRU", policy: constants.EvictionPolicyLRU, want: "second"},
		{name: "LFU", policy: constants.EvictionPolicyLFU, want: "second"},
		{name: "FIFO", policy: constants.EvictionPolicyFIFO, want: "first"},
		{name: "LIFO", policy: constants.EvictionPolicyLIFO, want: "third"},
		{name: "UnknownFallsBackToLRU", policy: "RANDOM", want: "second"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			victims := selectVictims(entries, tc.policy, 1)
			assert.Len(t, victims, 1)
			assert.Equal(t, tc.want, victims[0].Key().Name())
		})
	}

	assert.Len(t, selectVictims(entries, constants.EvictionPolicyLRU, 10), 3)
	assert.Empty(t, selectVictims(entries, constants.EvictionPolicyLRU, 0))
	assert.Equal(t, "first", entries[0].Key().Name(), "input order is preserved")
}
