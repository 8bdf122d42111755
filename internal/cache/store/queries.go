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
	"github.com/asgardeo/cacheengine/internal/system/database/model"
)

var (
	// queryCreateCacheTable creates the cache entry table when it does not exist.
	queryCreateCacheTable = model.DBQuery{
		ID: "CCQ-CACHE-01",
		Query: "CREATE TABLE IF NOT EXISTS CACHE_ENTRY (" +
			"CACHE_NAME VARCHAR(255) NOT NULL, " +
			"CACHE_KEY VARCHAR(1024) NOT NULL, " +
			"KEY_NAME VARCHAR(1024) NOT NULL, " +
			"CACHE_VALUE TEXT, " +
			"HITS BIGINT NOT NULL DEFAULT 0, " +
			"CREATED BIGINT NOT NULL, " +
			"LAST_ACCESSED BIGINT NOT NULL, " +
			"TIMEOUT BIGINT NOT NULL, " +
			"LAST_ACCESS_TIMEOUT BIGINT NOT NULL, " +
			"EXPIRED SMALLINT NOT NULL DEFAULT 0, " +
			"METADATA TEXT, " +
			"REVISION VARCHAR(64) NOT NULL DEFAULT '', " +
			"PRIMARY KEY (CACHE_NAME, CACHE_KEY))",
	}
	// queryUpsertCacheEntry inserts or replaces a cache entry.
	queryUpsertCacheEntry = model.DBQuery{
		ID: "CCQ-CACHE-02",
		Query: "INSERT INTO CACHE_ENTRY (CACHE_NAME, CACHE_KEY, KEY_NAME, CACHE_VALUE, HITS, CREATED, " +
			"LAST_ACCESSED, TIMEOUT, LAST_ACCESS_TIMEOUT, EXPIRED, METADATA, REVISION) " +
			"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) " +
			upsertConflictClause,
		PostgresQuery: "INSERT INTO CACHE_ENTRY (CACHE_NAME, CACHE_KEY, KEY_NAME, CACHE_VALUE, HITS, CREATED, " +
			"LAST_ACCESSED, TIMEOUT, LAST_ACCESS_TIMEOUT, EXPIRED, METADATA, REVISION) " +
			"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) " +
			upsertConflictClause,
	}
	// queryGetCacheEntry retrieves a single cache entry.
	queryGetCacheEntry = model.DBQuery{
		ID: "CCQ-CACHE-03",
		Query: "SELECT KEY_NAME, CACHE_VALUE, HITS, CREATED, LAST_ACCESSED, TIMEOUT, LAST_ACCESS_TIMEOUT, " +
			"EXPIRED, METADATA, REVISION FROM CACHE_ENTRY WHERE CACHE_NAME = ? AND CACHE_KEY = ?",
		PostgresQuery: "SELECT KEY_NAME, CACHE_VALUE, HITS, CREATED, LAST_ACCESSED, TIMEOUT, LAST_ACCESS_TIMEOUT, " +
			"EXPIRED, METADATA, REVISION FROM CACHE_ENTRY WHERE CACHE_NAME = $1 AND CACHE_KEY = $2",
	}
	// queryTouchCacheEntry records an access on a cache entry.
	queryTouchCacheEntry = model.DBQuery{
		ID: "CCQ-CACHE-04",
		Query: "UPDATE CACHE_ENTRY SET HITS = HITS + 1, LAST_ACCESSED = ? " +
			"WHERE CACHE_NAME = ? AND CACHE_KEY = ?",
		PostgresQuery: "UPDATE CACHE_ENTRY SET HITS = HITS + 1, LAST_ACCESSED = $1 " +
			"WHERE CACHE_NAME = $2 AND CACHE_KEY = $3",
	}
	// queryDeleteCacheEntry deletes a single cache entry.
	queryDeleteCacheEntry = model.DBQuery{
		ID:            "CCQ-CACHE-05",
		Query:         "DELETE FROM CACHE_ENTRY WHERE CACHE_NAME = ? AND CACHE_KEY = ?",
		PostgresQuery: "DELETE FROM CACHE_ENTRY WHERE CACHE_NAME = $1 AND CACHE_KEY = $2",
	}
	// queryGetCacheKeys lists the key names of a cache.
	queryGetCacheKeys = model.DBQuery{
		ID:            "CCQ-CACHE-06",
		Query:         "SELECT KEY_NAME FROM CACHE_ENTRY WHERE CACHE_NAME = ?",
		PostgresQuery: "SELECT KEY_NAME FROM CACHE_ENTRY WHERE CACHE_NAME = $1",
	}
	// queryCountCacheEntries counts the entries of a cache.
	queryCountCacheEntries = model.DBQuery{
		ID:            "CCQ-CACHE-07",
		Query:         "SELECT COUNT(*) AS TOTAL FROM CACHE_ENTRY WHERE CACHE_NAME = ?",
		PostgresQuery: "SELECT COUNT(*) AS TOTAL FROM CACHE_ENTRY WHERE CACHE_NAME = $1",
	}
	// queryClearCacheEntries deletes every entry of a cache.
	queryClearCacheEntries = model.DBQuery{
		ID:            "CCQ-CACHE-08",
		Query:         "DELETE FROM CACHE_ENTRY WHERE CACHE_NAME = ?",
		PostgresQuery: "DELETE FROM CACHE_ENTRY WHERE CACHE_NAME = $1",
	}
	// queryDeleteCacheEntryRevision deletes a cache entry only while it holds the given revision.
	queryDeleteCacheEntryRevision = model.DBQuery{
		ID:            "CCQ-CACHE-09",
		Query:         "DELETE FROM CACHE_ENTRY WHERE CACHE_NAME = ? AND CACHE_KEY = ? AND REVISION = ?",
		PostgresQuery: "DELETE FROM CACHE_ENTRY WHERE CACHE_NAME = $1 AND CACHE_KEY = $2 AND REVISION = $3",
	}
	// queryReplaceCacheEntry overwrites a cache entry only while it holds the given revision.
	queryReplaceCacheEntry = model.DBQuery{
		ID: "CCQ-CACHE-10",
		Query: "UPDATE CACHE_ENTRY SET KEY_NAME = ?, CACHE_VALUE = ?, HITS = ?, CREATED = ?, LAST_ACCESSED = ?, " +
			"TIMEOUT = ?, LAST_ACCESS_TIMEOUT = ?, EXPIRED = ?, METADATA = ?, REVISION = ? " +
			"WHERE CACHE_NAME = ? AND CACHE_KEY = ? AND REVISION = ?",
		PostgresQuery: "UPDATE CACHE_ENTRY SET KEY_NAME = $1, CACHE_VALUE = $2, HITS = $3, CREATED = $4, " +
			"LAST_ACCESSED = $5, TIMEOUT = $6, LAST_ACCESS_TIMEOUT = $7, EXPIRED = $8, METADATA = $9, " +
			"REVISION = $10 WHERE CACHE_NAME = $11 AND CACHE_KEY = $12 AND REVISION = $13",
	}
)

const upsertConflictClause = "ON CONFLICT (CACHE_NAME, CACHE_KEY) DO UPDATE SET " +
	"KEY_NAME = excluded.KEY_NAME, CACHE_VALUE = excluded.CACHE_VALUE, HITS = excluded.HITS, " +
	"CREATED = excluded.CREATED, LAST_ACCESSED = excluded.LAST_ACCESSED, TIMEOUT = excluded.TIMEOUT, " +
	"LAST_ACCESS_TIMEOUT = excluded.LAST_ACCESS_TIMEOUT, EXPIRED = excluded.EXPIRED, " +
	"METADATA = excluded.METADATA, REVISION = excluded.REVISION"
