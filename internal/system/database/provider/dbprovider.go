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

// Package provider provides functionality for managing database connections and clients.
package provider

import (
	"database/sql"
	"fmt"
	"path"
	"sort"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/asgardeo/cacheengine/internal/system/config"
	"github.com/asgardeo/cacheengine/internal/system/database/client"
	"github.com/asgardeo/cacheengine/internal/system/database/model"
	"github.com/asgardeo/cacheengine/internal/system/log"
)

// dbConfig represents the local database configuration.
type dbConfig struct {
	dsn        string
	driverName string
}

// DBProviderInterface defines the interface for getting database clients.
type DBProviderInterface interface {
	GetDBClient(dataSourceName string) (client.DBClientInterface, error)
	Close() error
}

// DBProvider is the implementation of DBProviderInterface. Clients are opened lazily
// on first use and shared by every caller of the same data source.
type DBProvider struct {
	dataSources map[string]config.DataSource
	home        string
	clients     map[string]client.DBClientInterface
	mutex       sync.RWMutex
}

// NewDBProvider creates a new DBProvider for the configured data sources. Relative sqlite
// paths are resolved against home.
func NewDBProvider(dbConfig config.DatabaseConfig, home string) *DBProvider {
	dataSources := make(map[string]config.DataSource, len(dbConfig.DataSources))
	for name, dataSource := range dbConfig.DataSources {
		dataSources[name] = dataSource
	}
	return &DBProvider{
		dataSources: dataSources,
		home:        home,
		clients:     make(map[string]client.DBClientInterface),
	}
}

// GetDBClient returns a database client for the named data source.
// Not required to close the returned client manually since the provider owns its connection pool.
func (d *DBProvider) GetDBClient(dataSourceName string) (client.DBClientInterface, error) {
	d.mutex.RLock()
	if dbClient, ok := d.clients[dataSourceName]; ok {
		d.mutex.RUnlock()
		return dbClient, nil
	}
	d.mutex.RUnlock()

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if dbClient, ok := d.clients[dataSourceName]; ok {
		return dbClient, nil
	}

	dataSource, ok := d.dataSources[dataSourceName]
	if !ok {
		return nil, fmt.Errorf("unsupported data source name: %s", dataSourceName)
	}

	dbClient, err := d.initializeClient(dataSourceName, dataSource)
	if err != nil {
		return nil, err
	}
	d.clients[dataSourceName] = dbClient
	return dbClient, nil
}

// initializeClient opens and verifies a database connection for the given data source.
func (d *DBProvider) initializeClient(name string, dataSource config.DataSource) (client.DBClientInterface, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DBProvider"))

	dbConfig, err := d.getDBConfig(dataSource)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dbConfig.driverName, dbConfig.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %w", name, err)
	}

	if dataSource.MaxOpenConns > 0 {
		db.SetMaxOpenConns(dataSource.MaxOpenConns)
	}
	if dataSource.MaxIdleConns > 0 {
		db.SetMaxIdleConns(dataSource.MaxIdleConns)
	}
	if dataSource.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(dataSource.ConnMaxLifetime) * time.Second)
	}

	// Test the database connection.
	if err := db.Ping(); err != nil {
		return nil, multierr.Append(fmt.Errorf("failed to ping database %s: %w", name, err), db.Close())
	}

	logger.Debug("Database client initialized", log.String("dataSource", name),
		log.String("driver", dbConfig.driverName))
	return client.NewDBClient(model.NewDB(db), dbConfig.driverName), nil
}

// getDBConfig returns the database configuration based on the provided data source.
func (d *DBProvider) getDBConfig(dataSource config.DataSource) (dbConfig, error) {
	var cfg dbConfig

	switch dataSource.Type {
	case model.DataSourceTypePostgres:
		cfg.driverName = model.DataSourceTypePostgres
		cfg.dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			dataSource.Hostname, dataSource.Port, dataSource.Username, dataSource.Password,
			dataSource.Name, dataSource.SSLMode)
	case model.DataSourceTypeSQLite:
		cfg.driverName = model.DataSourceTypeSQLite
		options := dataSource.Options
		if options != "" && options[0] != '?' {
			options = "?" + options
		}
		dbPath := dataSource.Path
		if !path.IsAbs(dbPath) {
			dbPath = path.Join(d.home, dbPath)
		}
		cfg.dsn = dbPath + options
	default:
		return cfg, fmt.Errorf("unsupported database type: %s", dataSource.Type)
	}

	return cfg, nil
}

// Close closes every database client opened by the provider.
func (d *DBProvider) Close() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	names := make([]string, 0, len(d.clients))
	for name := range d.clients {
		names = append(names, name)
	}
	sort.Strings(names)

	var err error
	for _, name := range names {
		if closeErr := d.clients[name].Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close %s client: %w", name, closeErr))
		}
		delete(d.clients, name)
	}
	return err
}
