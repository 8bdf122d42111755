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

package functions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/cacheengine/internal/cache/cacheerror"
	"github.com/asgardeo/cacheengine/internal/cache/constants"
	"github.com/asgardeo/cacheengine/internal/cache/registry"
	"github.com/asgardeo/cacheengine/internal/cache/store"
	"github.com/asgardeo/cacheengine/internal/system/config"
)

type CacheFunctionsTestSuite struct {
	suite.Suite
	registry  *registry.CacheRegistry
	functions *CacheFunctions
}

func TestCacheFunctionsSuite(t *testing.T) {
	suite.Run(t, new(CacheFunctionsTestSuite))
}

func (suite *CacheFunctionsTestSuite) SetupTest() {
	suite.registry = registry.NewCacheRegistry(suite.T().TempDir(), map[constants.ObjectStoreType]store.Factory{
		constants.ObjectStoreTypeConcurrent: store.NewConcurrentStoreFactory(),
	}, nil)
	require.NoError(suite.T(), suite.registry.Startup(config.CacheConfig{
		Caches: []config.NamedCache{{Name: "sessions"}, {Name: "shop:sessions"}},
	}))
	suite.functions = NewCacheFunctions(suite.registry)
}

func (suite *CacheFunctionsTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.registry.Shutdown())
}

func (suite *CacheFunctionsTestSuite) TestPutAndGet() {
	ctx := context.Background()
	require.NoError(suite.T(), suite.functions.CachePut(ctx, "", "foo", "bar", 0, 0))

	value, err := suite.functions.CacheGet(ctx, "foo", "", nil)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "bar", value)

	value, err = suite.functions.CacheGet(ctx, "missing", "default", "fallback")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "fallback", value)

	cache, err := suite.functions.GetCache(ctx, "")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), cache.GetStats().Hits())
	assert.Equal(suite.T(), int64(1), cache.GetStats().Misses())
}

func (suite *CacheFunctionsTestSuite) TestApplicationScopedNames() {
	appCtx := registry.WithApplicationName(context.Background(), "shop")
	require.NoError(suite.T(), suite.functions.CachePut(appCtx, "sessions", "k", "app", 0, 0))

	value, err := suite.functions.CacheGet(context.Background(), "k", "sessions", nil)
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), value)

	value, err = suite.functions.CacheGet(appCtx, "k", "sessions", nil)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "app", value)

	cache, err := suite.functions.GetCache(appCtx, "sessions")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "shop:sessions", cache.Name())
}

func (suite *CacheFunctionsTestSuite) TestUnknownCacheIsValidated() {
	ctx := context.Background()

	_, err := suite.functions.CacheGet(ctx, "k", "nope", nil)
	assert.ErrorIs(suite.T(), err, cacheerror.ErrCacheNotFound)
	assert.Contains(suite.T(), err.Error(), "default, sessions, shop:sessions")

	err = suite.functions.CachePut(ctx, "nope", "k", 1, 0, 0)
	assert.ErrorIs(suite.T(), err, cacheerror.ErrCacheNotFound)

	_, err = suite.functions.CacheClearAll(ctx, "", "nope", false)
	assert.ErrorIs(suite.T(), err, cacheerror.ErrCacheNotFound)
}

func (suite *CacheFunctionsTestSuite) TestClearAll() {
	ctx := context.Background()
	for _, key := range []string{"testKey", "testKey2", "key3", "user_1"} {
		require.NoError(suite.T(), suite.functions.CachePut(ctx, "", key, key, 0, 0))
	}

	cleared, err := suite.functions.CacheClearAll(ctx, "testKe*", "", false)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), cleared)

	cleared, err = suite.functions.CacheClearAll(ctx, `user_\d`, "", true)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), cleared)

	cache, _ := suite.functions.GetCache(ctx, "")
	keys, _ := cache.GetKeys(nil)
	assert.Equal(suite.T(), []string{"key3"}, keys)

	cleared, err = suite.functions.CacheClearAll(ctx, "", "", false)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), cleared)
	size, _ := cache.GetSize(nil)
	assert.Equal(suite.T(), 0, size)
}

func (suite *CacheFunctionsTestSuite) TestGetCacheFilter() {
	wildcard, err := GetCacheFilter("ab*", false)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), wildcard.Matches("ABC"))

	regex, err := GetCacheFilter("ab.", true)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), regex.Matches("abc"))
	assert.False(suite.T(), regex.Matches("abcd"))

	invalid, err := GetCacheFilter("(", true)
	assert.Nil(suite.T(), invalid)
	assert.ErrorIs(suite.T(), err, cacheerror.ErrValidation)
}
