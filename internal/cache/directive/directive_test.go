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
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/cacheengine/internal/cache/cacheerror"
	"github.com/asgardeo/cacheengine/internal/cache/constants"
	"github.com/asgardeo/cacheengine/internal/cache/registry"
	"github.com/asgardeo/cacheengine/internal/cache/store"
	"github.com/asgardeo/cacheengine/internal/system/config"
)

type DirectiveTestSuite struct {
	suite.Suite
	home     string
	registry *registry.CacheRegistry
	executor *Executor
	renders  atomic.Int32
	body     Body
}

func TestDirectiveSuite(t *testing.T) {
	suite.Run(t, new(DirectiveTestSuite))
}

func floatPtr(v float64) *float64 { return &v }

func boolPtr(v bool) *bool { return &v }

func (suite *DirectiveTestSuite) SetupTest() {
	suite.home = suite.T().TempDir()
	suite.registry = registry.NewCacheRegistry(suite.home, map[constants.ObjectStoreType]store.Factory{
		constants.ObjectStoreTypeConcurrent: store.NewConcurrentStoreFactory(),
		constants.ObjectStoreTypeFileSystem: store.NewFileSystemStoreFactory(suite.home),
	}, nil)
	require.NoError(suite.T(), suite.registry.Startup(config.CacheConfig{
		Caches: []config.NamedCache{{Name: "fragments"}},
	}))
	suite.executor = NewExecutor(suite.registry)
	suite.renders.Store(0)
	suite.body = Body{
		ID: "views/home#header",
		Render: func(context.Context) (string, error) {
			suite.renders.Add(1)
			return "  <h1>Home</h1>\n", nil
		},
	}
}

func (suite *DirectiveTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.registry.Shutdown())
}

func (suite *DirectiveTestSuite) TestParseAction() {
	action, err := ParseAction(" OPTIMAL ")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), ActionOptimal, action)

	action, err = ParseAction("")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), ActionCache, action)

	_, err = ParseAction("purge")
	assert.ErrorIs(suite.T(), err, cacheerror.ErrValidation)
}

func (suite *DirectiveTestSuite) TestContentIsRenderedOnce() {
	attrs := Attributes{Action: ActionContent, StripWhitespace: true, Name: "header"}

	first, err := suite.executor.Execute(context.Background(), attrs, suite.body)
	require.NoError(suite.T(), err)
	second, err := suite.executor.Execute(context.Background(), attrs, suite.body)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "<h1>Home</h1>", first.Value)
	assert.Equal(suite.T(), "<h1>Home</h1>", second.Value)
	assert.Equal(suite.T(), "header", second.Variable)
	assert.Equal(suite.T(), int32(1), suite.renders.Load())

	cache, _ := suite.registry.GetDefaultCache()
	keys, _ := cache.GetKeys(nil)
	require.Len(suite.T(), keys, 1)
	assert.True(suite.T(), strings.HasPrefix(keys[0], TemplateKeyPrefix))
}

func (suite *DirectiveTestSuite) TestTemplateKeyIsDeterministic() {
	attrs := Attributes{Action: ActionCache, Timespan: floatPtr(1), Value: map[string]int{"b": 2, "a": 1}}

	assert.Equal(suite.T(), templateKey(attrs, suite.body), templateKey(attrs, suite.body))
	assert.NotEqual(suite.T(), templateKey(attrs, suite.body), templateKey(attrs, Body{ID: "other"}))
	attrs.Timespan = floatPtr(2)
	assert.NotEqual(suite.T(), templateKey(Attributes{Action: ActionCache, Timespan: floatPtr(1)}, suite.body),
		templateKey(attrs, suite.body))
}

func (suite *DirectiveTestSuite) TestPutAndGetWithTimespan() {
	ctx := context.Background()
	_, err := suite.executor.Execute(ctx, Attributes{Action: ActionPut, Key: "greeting", Value: "hi",
		Timespan: floatPtr(0.5), CacheName: "fragments"}, Body{})
	require.NoError(suite.T(), err)

	result, err := suite.executor.Execute(ctx, Attributes{Action: ActionGet, ID: "greeting", Name: "out",
		CacheName: "fragments", ThrowOnError: true}, Body{})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "hi", result.Value)
	assert.Equal(suite.T(), "out", result.Variable)

	fragments, _ := suite.registry.GetCache("fragments")
	metadata, err := fragments.GetCachedObjectMetadata("greeting")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(43200), metadata.Timeout)
	assert.Equal(suite.T(), int64(0), metadata.LastAccessTimeout)
	assert.Equal(suite.T(), int64(1), fragments.GetStats().Hits())
}

func (suite *DirectiveTestSuite) TestIdleTimeFillsMissingTimespan() {
	_, err := suite.executor.Execute(context.Background(), Attributes{Action: ActionPut, Key: "k", Value: 1,
		IdleTime: floatPtr(1)}, Body{})
	require.NoError(suite.T(), err)

	cache, _ := suite.registry.GetDefaultCache()
	metadata, err := cache.GetCachedObjectMetadata("k")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(86400), metadata.Timeout)
	assert.Equal(suite.T(), int64(86400), metadata.LastAccessTimeout)
}

func (suite *DirectiveTestSuite) TestQuietGetDoesNotRecordStatistics() {
	ctx := context.Background()
	_, err := suite.executor.Execute(ctx, Attributes{Action: ActionPut, Key: "k", Value: "v"}, Body{})
	require.NoError(suite.T(), err)

	result, err := suite.executor.Execute(ctx, Attributes{Action: ActionGet, Key: "k", Name: "v"}, Body{})
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "v", result.Value)
	cache, _ := suite.registry.GetDefaultCache()
	assert.Equal(suite.T(), int64(0), cache.GetStats().Hits())
}

func (suite *DirectiveTestSuite) TestAttributeValidation() {
	ctx := context.Background()

	_, err := suite.executor.Execute(ctx, Attributes{Action: ActionGet, Name: "x"}, Body{})
	assert.ErrorIs(suite.T(), err, cacheerror.ErrValidation)

	_, err = suite.executor.Execute(ctx, Attributes{Action: ActionPut, Value: 1}, Body{})
	assert.ErrorIs(suite.T(), err, cacheerror.ErrValidation)

	_, err = suite.executor.Execute(ctx, Attributes{Action: ActionGet, Key: "k"}, Body{})
	assert.ErrorIs(suite.T(), err, cacheerror.ErrValidation)

	_, err = suite.executor.Execute(ctx, Attributes{Action: ActionDelete}, Body{})
	assert.ErrorIs(suite.T(), err, cacheerror.ErrValidation)

	_, err = suite.executor.Execute(ctx, Attributes{Action: "purge"}, Body{})
	assert.ErrorIs(suite.T(), err, cacheerror.ErrValidation)
}

func (suite *DirectiveTestSuite) TestThrowOnError() {
	ctx := context.Background()
	attrs := Attributes{Action: ActionPut, Key: "k", Value: 1, CacheName: "missing"}

	result, err := suite.executor.Execute(ctx, attrs, Body{})
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), result.Value)

	attrs.ThrowOnError = true
	_, err = suite.executor.Execute(ctx, attrs, Body{})
	assert.ErrorIs(suite.T(), err, cacheerror.ErrCacheNotFound)

	failing := Body{ID: "broken", Render: func(context.Context) (string, error) {
		return "", errors.New("template error")
	}}
	_, err = suite.executor.Execute(ctx, Attributes{Action: ActionCache, ThrowOnError: true}, failing)
	assert.ErrorContains(suite.T(), err, "template error")
}

func (suite *DirectiveTestSuite) TestFlushAndDelete() {
	ctx := context.Background()
	for _, key := range []string{"a", "b", "c"} {
		_, err := suite.executor.Execute(ctx, Attributes{Action: ActionPut, Key: key, Value: key}, Body{})
		require.NoError(suite.T(), err)
	}
	cache, _ := suite.registry.GetDefaultCache()

	_, err := suite.executor.Execute(ctx, Attributes{Action: ActionDelete, Key: "a", ThrowOnError: true}, Body{})
	require.NoError(suite.T(), err)
	_, err = suite.executor.Execute(ctx, Attributes{Action: ActionFlush, Key: "b"}, Body{})
	require.NoError(suite.T(), err)
	keys, _ := cache.GetKeys(nil)
	assert.Equal(suite.T(), []string{"c"}, keys)

	_, err = suite.executor.Execute(ctx, Attributes{Action: ActionFlush}, Body{})
	require.NoError(suite.T(), err)
	size, _ := cache.GetSize(nil)
	assert.Equal(suite.T(), 0, size)
}

func (suite *DirectiveTestSuite) TestUseCacheFalseBypassesCache() {
	ctx := context.Background()
	result, err := suite.executor.Execute(ctx, Attributes{Action: ActionContent, UseCache: boolPtr(false)},
		suite.body)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "  <h1>Home</h1>\n", result.Value)

	result, err = suite.executor.Execute(ctx, Attributes{Action: ActionPut, Key: "k", Value: "v",
		UseCache: boolPtr(false)}, Body{})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "v", result.Value)

	result, err = suite.executor.Execute(ctx, Attributes{Action: ActionServerCache, UseCache: boolPtr(false)},
		suite.body)
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), result.Value)

	cache, _ := suite.registry.GetDefaultCache()
	size, _ := cache.GetSize(nil)
	assert.Equal(suite.T(), 0, size)
}

func (suite *DirectiveTestSuite) TestDelegatedActions() {
	ctx := context.Background()
	_, err := suite.executor.Execute(ctx, Attributes{Action: ActionClientCache}, suite.body)
	assert.ErrorIs(suite.T(), err, cacheerror.ErrUnsupportedAction)

	require.NoError(suite.T(), suite.executor.RegisterActionHandler(ActionClientCache,
		func(context.Context, Attributes, Body) (any, error) { return "Cache-Control: max-age=60", nil }))
	result, err := suite.executor.Execute(ctx, Attributes{Action: ActionClientCache}, suite.body)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Cache-Control: max-age=60", result.Value)

	err = suite.executor.RegisterActionHandler(ActionGet, func(context.Context, Attributes, Body) (any, error) {
		return nil, nil
	})
	assert.ErrorIs(suite.T(), err, cacheerror.ErrValidation)
}

func (suite *DirectiveTestSuite) TestDirectoryCache() {
	directory := filepath.Join(suite.home, "fragments")
	attrs := Attributes{Action: ActionCache, Key: "footer", Directory: directory}

	result, err := suite.executor.Execute(context.Background(), attrs, suite.body)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "  <h1>Home</h1>\n", result.Value)

	cache, err := suite.registry.GetDirectoryCache(directory)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), cache.Properties().UseLastAccessTimeouts)
	found, _ := cache.Lookup("footer")
	assert.True(suite.T(), found)
}

func TestDaysToDuration(t *testing.T) {
	assert.Equal(t, time.Duration(0), daysToDuration(nil))
	assert.Equal(t, 24*time.Hour, daysToDuration(floatPtr(1)))
	assert.Equal(t, 6*time.Hour, daysToDuration(floatPtr(0.25)))
}
