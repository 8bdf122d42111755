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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const validDeploymentYAML = `
server:
  hostname: "localhost"
  port: 8090

cache:
  default:
    object_store: "concurrent"
    max_objects: 500
    reap_frequency: 60
    use_last_access_timeouts: false
  caches:
    - name: "sessions"
      provider: "standard"
      properties:
        object_store: "database"
        data_source: "cache"
        default_timeout: 0
        eviction_policy: "LFU"
        evict_count: 5

database:
  data_sources:
    cache:
      type: "sqlite"
      path: "repository/database/cache.db"
      options: "_pragma=journal_mode(WAL)"
`

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
}

func (suite *ConfigTestSuite) writeFile(name, content string) string {
	path := filepath.Join(suite.dir, name)
	require.NoError(suite.T(), os.WriteFile(path, []byte(content), 0o600))
	return path
}

func (suite *ConfigTestSuite) TestLoadConfigValid() {
	config, err := LoadConfig(suite.writeFile("deployment.yaml", validDeploymentYAML))

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), config)

	// Verify server config
	assert.Equal(suite.T(), "localhost", config.Server.Hostname)
	assert.Equal(suite.T(), 8090, config.Server.Port)

	// Verify default cache config
	assert.Equal(suite.T(), "concurrent", config.Cache.Default.ObjectStore)
	require.NotNil(suite.T(), config.Cache.Default.MaxObjects)
	assert.Equal(suite.T(), 500, *config.Cache.Default.MaxObjects)
	assert.Equal(suite.T(), 60, config.Cache.Default.ReapFrequency)
	require.NotNil(suite.T(), config.Cache.Default.UseLastAccessTimeouts)
	assert.False(suite.T(), *config.Cache.Default.UseLastAccessTimeouts)
	assert.Nil(suite.T(), config.Cache.Default.DefaultTimeout)

	// Verify named caches
	require.Len(suite.T(), config.Cache.Caches, 1)
	sessions := config.Cache.Caches[0]
	assert.Equal(suite.T(), "sessions", sessions.Name)
	assert.Equal(suite.T(), "standard", sessions.Provider)
	assert.Equal(suite.T(), "database", sessions.Properties.ObjectStore)
	require.NotNil(suite.T(), sessions.Properties.DefaultTimeout)
	assert.Equal(suite.T(), 0, *sessions.Properties.DefaultTimeout)
	assert.Equal(suite.T(), "LFU", sessions.Properties.EvictionPolicy)
	assert.Equal(suite.T(), 5, sessions.Properties.EvictCount)

	// Verify database config
	dataSource, ok := config.Database.DataSources["cache"]
	require.True(suite.T(), ok)
	assert.Equal(suite.T(), "sqlite", dataSource.Type)
	assert.Equal(suite.T(), "repository/database/cache.db", dataSource.Path)
}

func (suite *ConfigTestSuite) TestLoadConfigFileNotFound() {
	config, err := LoadConfig(filepath.Join(suite.dir, "non_existent_config.yaml"))

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), config)
	assert.Contains(suite.T(), err.Error(), "no such file or directory")
}

func (suite *ConfigTestSuite) TestLoadConfigInvalidYAML() {
	config, err := LoadConfig(suite.writeFile("invalid_deployment.yaml", "server: [unclosed"))

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), config)
}
