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

// Package config provides structures and functions for loading the server configurations.
package config

import (
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"

	"github.com/asgardeo/cacheengine/internal/system/log"
)

// ServerConfig holds the server configuration details.
type ServerConfig struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
}

// SecurityConfig holds the TLS certificate and key paths. TLS is off when both are empty.
type SecurityConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// DataSource holds the individual database connection details.
type DataSource struct {
	Type            string `yaml:"type"`
	Hostname        string `yaml:"hostname"`
	Port            int    `yaml:"port"`
	Name            string `yaml:"name"`
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
	SSLMode         string `yaml:"sslmode"`
	Path            string `yaml:"path"`
	Options         string `yaml:"options"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"`
}

// DatabaseConfig holds the named data sources available to database backed caches.
type DatabaseConfig struct {
	DataSources map[string]DataSource `yaml:"data_sources"`
}

// CacheProperty holds the properties of a single cache. Durations are in seconds.
// Pointer fields distinguish an unset value from an explicit zero.
type CacheProperty struct {
	ObjectStore              string `yaml:"object_store"`
	Directory                string `yaml:"directory"`
	MaxObjects               *int   `yaml:"max_objects"`
	UseLastAccessTimeouts    *bool  `yaml:"use_last_access_timeouts"`
	ReapFrequency            int    `yaml:"reap_frequency"`
	DefaultTimeout           *int   `yaml:"default_timeout"`
	DefaultLastAccessTimeout *int   `yaml:"default_last_access_timeout"`
	EvictionPolicy           string `yaml:"eviction_policy"`
	EvictCount               int    `yaml:"evict_count"`
	ResetTimeoutOnAccess     bool   `yaml:"reset_timeout_on_access"`
	DataSource               string `yaml:"data_source"`
}

// NamedCache holds the configuration of a cache registered at startup.
type NamedCache struct {
	Name       string        `yaml:"name"`
	Provider   string        `yaml:"provider"`
	Properties CacheProperty `yaml:"properties"`
}

// CacheConfig holds the cache engine configuration.
type CacheConfig struct {
	Default CacheProperty `yaml:"default"`
	Caches  []NamedCache  `yaml:"caches"`
}

// Config holds the complete configuration details of the server.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Security SecurityConfig `yaml:"security"`
	Cache    CacheConfig    `yaml:"cache"`
	Database DatabaseConfig `yaml:"database"`
}

// LoadConfig loads the configurations from the specified YAML file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	path = filepath.Clean(path)

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if ferr := file.Close(); ferr != nil {
			log.GetLogger().Error("Failed to close config file", log.Error(ferr))
		}
	}()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
