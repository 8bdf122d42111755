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

package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/asgardeo/cacheengine/internal/cache/cacheerror"
	"github.com/asgardeo/cacheengine/internal/cache/model"
	"github.com/asgardeo/cacheengine/internal/system/database/client"
	"github.com/asgardeo/cacheengine/internal/system/database/provider"
	"github.com/asgardeo/cacheengine/internal/system/log"
)

// DatabaseStore keeps cache entries in the CACHE_ENTRY table of a data source. Several
// caches may share the table; rows are partitioned by the normalized cache name.
// Timestamps and timeouts are stored in milliseconds and values as JSON text.
type DatabaseStore struct {
	cacheName string
	dbClient  client.DBClientInterface
	logger    *zap.Logger
}

var _ ObjectStoreInterface = (*DatabaseStore)(nil)

// NewDatabaseStore creates a store for the named cache, creating the table if needed.
func NewDatabaseStore(cacheName string, dbClient client.DBClientInterface) (*DatabaseStore, error) {
	if _, err := dbClient.Execute(queryCreateCacheTable); err != nil {
		return nil, cacheerror.NewStorageError("create table", "", err)
	}
	return &DatabaseStore{
		cacheName: model.NewCacheKey(cacheName).Normalized(),
		dbClient:  dbClient,
		logger: log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DatabaseStore"),
			log.String(log.LoggerKeyCacheName, cacheName)),
	}, nil
}

// NewDatabaseStoreFactory returns a Factory producing database stores. The data source is
// taken from the cache properties.
func NewDatabaseStoreFactory(dbProvider provider.DBProviderInterface) Factory {
	return func(cacheName string, props model.CacheProperties) (ObjectStoreInterface, error) {
		if props.DataSource == "" {
			return nil, cacheerror.NewValidationError("a data source is required for the database store of cache [%s]",
				cacheName)
		}
		dbClient, err := dbProvider.GetDBClient(props.DataSource)
		if err != nil {
			return nil, cacheerror.NewStorageError("connect", "", err)
		}
		return NewDatabaseStore(cacheName, dbClient)
	}
}

// Get reads the entry and persists the recorded access.
func (s *DatabaseStore) Get(key model.CacheKey) (*model.CacheEntry, error) {
	entry, err := s.GetQuiet(key)
	if err != nil || entry == nil {
		return entry, err
	}

	entry.TouchLastAccessed()
	entry.IncrementHits()
	if _, err := s.dbClient.Execute(queryTouchCacheEntry, entry.LastAccessed().UnixMilli(), s.cacheName,
		key.Normalized()); err != nil {
		return nil, cacheerror.NewStorageError("touch", key.Name(), err)
	}
	return entry, nil
}

// GetQuiet reads the entry without modifying it.
func (s *DatabaseStore) GetQuiet(key model.CacheKey) (*model.CacheEntry, error) {
	results, err := s.dbClient.Query(queryGetCacheEntry, s.cacheName, key.Normalized())
	if err != nil {
		return nil, cacheerror.NewStorageError("read", key.Name(), err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	record, err := s.buildRecordFromResultRow(results[0])
	if err != nil {
		return nil, cacheerror.NewStorageError("decode", key.Name(), err)
	}
	return model.NewCacheEntryFromRecord(record), nil
}

// Set upserts the entry row.
func (s *DatabaseStore) Set(key model.CacheKey, entry *model.CacheEntry) error {
	columns, err := entryColumnValues(key, entry)
	if err != nil {
		return err
	}

	args := append([]any{s.cacheName, key.Normalized()}, columns...)
	if _, err := s.dbClient.Execute(queryUpsertCacheEntry, args...); err != nil {
		return cacheerror.NewStorageError("write", key.Name(), err)
	}
	return nil
}

// Remove deletes the entry row.
func (s *DatabaseStore) Remove(key model.CacheKey) (bool, error) {
	rows, err := s.dbClient.Execute(queryDeleteCacheEntry, s.cacheName, key.Normalized())
	if err != nil {
		return false, cacheerror.NewStorageError("remove", key.Name(), err)
	}
	return rows > 0, nil
}

// RemoveIf deletes the entry row while it holds the expected revision.
func (s *DatabaseStore) RemoveIf(key model.CacheKey, expected *model.CacheEntry) (bool, error) {
	if expected == nil {
		return false, nil
	}
	rows, err := s.dbClient.Execute(queryDeleteCacheEntryRevision, s.cacheName, key.Normalized(),
		expected.Revision())
	if err != nil {
		return false, cacheerror.NewStorageError("remove", key.Name(), err)
	}
	return rows > 0, nil
}

// Replace overwrites the entry row while it holds the expected revision.
func (s *DatabaseStore) Replace(key model.CacheKey, expected, entry *model.CacheEntry) (bool, error) {
	if expected == nil {
		return false, nil
	}
	columns, err := entryColumnValues(key, entry)
	if err != nil {
		return false, err
	}

	args := append(columns, s.cacheName, key.Normalized(), expected.Revision())
	rows, err := s.dbClient.Execute(queryReplaceCacheEntry, args...)
	if err != nil {
		return false, cacheerror.NewStorageError("write", key.Name(), err)
	}
	return rows > 0, nil
}

// Keys lists the key names of the cache.
func (s *DatabaseStore) Keys() ([]model.CacheKey, error) {
	results, err := s.dbClient.Query(queryGetCacheKeys, s.cacheName)
	if err != nil {
		return nil, cacheerror.NewStorageError("list", "", err)
	}
	keys := make([]model.CacheKey, 0, len(results))
	for _, row := range results {
		name, err := toString(row["key_name"])
		if err != nil {
			s.logger.Warn("Skipping cache row with an unreadable key", log.Error(err))
			continue
		}
		keys = append(keys, model.NewCacheKey(name))
	}
	return keys, nil
}

// Size counts the entry rows of the cache.
func (s *DatabaseStore) Size() (int, error) {
	results, err := s.dbClient.Query(queryCountCacheEntries, s.cacheName)
	if err != nil {
		return 0, cacheerror.NewStorageError("count", "", err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	total, err := toInt64(results[0]["total"])
	if err != nil {
		return 0, cacheerror.NewStorageError("count", "", err)
	}
	return int(total), nil
}

// Clear deletes every entry row of the cache.
func (s *DatabaseStore) Clear() error {
	if _, err := s.dbClient.Execute(queryClearCacheEntries, s.cacheName); err != nil {
		return cacheerror.NewStorageError("clear", "", err)
	}
	return nil
}

// Shutdown keeps the rows in place. The connection is owned by the database provider.
func (s *DatabaseStore) Shutdown() error {
	s.logger.Debug("Database store shut down")
	return nil
}

// buildRecordFromResultRow constructs an EntryRecord from a database result row.
func (s *DatabaseStore) buildRecordFromResultRow(row map[string]interface{}) (model.EntryRecord, error) {
	var record model.EntryRecord

	keyName, err := toString(row["key_name"])
	if err != nil {
		return record, fmt.Errorf("key_name: %w", err)
	}
	rawValue, err := toString(row["cache_value"])
	if err != nil {
		return record, fmt.Errorf("cache_value: %w", err)
	}
	if rawValue != "" {
		if err := json.Unmarshal([]byte(rawValue), &record.Value); err != nil {
			return record, fmt.Errorf("cache_value: %w", err)
		}
	}
	rawMetadata, err := toString(row["metadata"])
	if err != nil {
		return record, fmt.Errorf("metadata: %w", err)
	}
	if rawMetadata != "" {
		if err := json.Unmarshal([]byte(rawMetadata), &record.Metadata); err != nil {
			return record, fmt.Errorf("metadata: %w", err)
		}
	}

	numbers := map[string]int64{}
	for _, column := range []string{"hits", "created", "last_accessed", "timeout", "last_access_timeout",
		"expired"} {
		n, err := toInt64(row[column])
		if err != nil {
			return record, fmt.Errorf("%s: %w", column, err)
		}
		numbers[column] = n
	}

	revision, err := toString(row["revision"])
	if err != nil {
		return record, fmt.Errorf("revision: %w", err)
	}

	record.Revision = revision
	record.CacheName = s.cacheName
	record.Key = keyName
	record.Hits = numbers["hits"]
	record.Created = time.UnixMilli(numbers["created"])
	record.LastAccessed = time.UnixMilli(numbers["last_accessed"])
	record.Timeout = time.Duration(numbers["timeout"]) * time.Millisecond
	record.LastAccessTimeout = time.Duration(numbers["last_access_timeout"]) * time.Millisecond
	record.Expired = numbers["expired"] != 0
	return record, nil
}

// entryColumnValues returns the column values of an entry in the order KEY_NAME, CACHE_VALUE, HITS,
// CREATED, LAST_ACCESSED, TIMEOUT, LAST_ACCESS_TIMEOUT, EXPIRED, METADATA, REVISION.
func entryColumnValues(key model.CacheKey, entry *model.CacheEntry) ([]any, error) {
	record := entry.ToRecord()

	value, err := json.Marshal(record.Value)
	if err != nil {
		return nil, cacheerror.NewStorageError("encode", key.Name(), err)
	}
	var metadata []byte
	if len(record.Metadata) > 0 {
		if metadata, err = json.Marshal(record.Metadata); err != nil {
			return nil, cacheerror.NewStorageError("encode", key.Name(), err)
		}
	}
	expired := 0
	if record.Expired {
		expired = 1
	}

	return []any{key.Name(), string(value), record.Hits, record.Created.UnixMilli(),
		record.LastAccessed.UnixMilli(), record.Timeout.Milliseconds(), record.LastAccessTimeout.Milliseconds(),
		expired, string(metadata), record.Revision}, nil
}

// toString converts a column value returned by the database driver to a string.
func toString(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("unexpected column type %T", value)
	}
}

// toInt64 converts a column value returned by the database driver to an int64.
func toInt64(value interface{}) (int64, error) {
	switch v := value.(type) {
	case nil:
		return 0, nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case []byte:
		return strconv.ParseInt(string(v), 10, 64)
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected column type %T", value)
	}
}
