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

package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type StatisticsTestSuite struct {
	suite.Suite
	stats *Statistics
}

func TestStatisticsSuite(t *testing.T) {
	suite.Run(t, new(StatisticsTestSuite))
}

func (suite *StatisticsTestSuite) SetupTest() {
	suite.stats = NewStatistics()
}

func (suite *StatisticsTestSuite) TestHitRate() {
	assert.Equal(suite.T(), 0.0, suite.stats.HitRate())

	suite.stats.RecordHit()
	suite.stats.RecordHit()
	suite.stats.RecordHit()
	suite.stats.RecordMiss()

	assert.Equal(suite.T(), int64(3), suite.stats.Hits())
	assert.Equal(suite.T(), int64(1), suite.stats.Misses())
	assert.InDelta(suite.T(), 0.75, suite.stats.HitRate(), 0.0001)
}

func (suite *StatisticsTestSuite) TestReapEvictionCountsBoth() {
	suite.stats.RecordReapEviction()
	suite.stats.RecordEviction()

	assert.Equal(suite.T(), int64(1), suite.stats.ReapCount())
	assert.Equal(suite.T(), int64(2), suite.stats.EvictionCount())
}

func (suite *StatisticsTestSuite) TestRecordReapSetsTimestamp() {
	assert.True(suite.T(), suite.stats.LastReapDatetime().IsZero())

	now := time.Now()
	suite.stats.RecordReap(now)

	assert.Equal(suite.T(), now.UnixNano(), suite.stats.LastReapDatetime().UnixNano())
	assert.Equal(suite.T(), int64(0), suite.stats.ReapCount())
}

func (suite *StatisticsTestSuite) TestSnapshot() {
	suite.stats.RecordHit()
	suite.stats.RecordMiss()
	suite.stats.RecordGarbageCollection()

	snapshot := suite.stats.Snapshot()

	assert.Equal(suite.T(), int64(1), snapshot.Hits)
	assert.Equal(suite.T(), int64(1), snapshot.Misses)
	assert.Equal(suite.T(), 0.5, snapshot.HitRate)
	assert.Equal(suite.T(), int64(1), snapshot.GarbageCollections)
	assert.False(suite.T(), snapshot.Started.IsZero())
}

func (suite *StatisticsTestSuite) TestResetZeroesCounters() {
	suite.stats.RecordHit()
	suite.stats.RecordMiss()
	suite.stats.RecordEviction()
	suite.stats.RecordReapEviction()
	suite.stats.RecordReap(time.Now())

	suite.stats.Reset()
	snapshot := suite.stats.Snapshot()

	assert.Equal(suite.T(), int64(0), snapshot.Hits)
	assert.Equal(suite.T(), int64(0), snapshot.Misses)
	assert.Equal(suite.T(), int64(0), snapshot.EvictionCount)
	assert.Equal(suite.T(), int64(0), snapshot.ReapCount)
	assert.True(suite.T(), snapshot.LastReapDatetime.IsZero())
}

func (suite *StatisticsTestSuite) TestResetIsAtomicForReaders() {
	const count = 1000
	for i := 0; i < count; i++ {
		suite.stats.RecordHit()
		suite.stats.RecordMiss()
		suite.stats.RecordEviction()
		suite.stats.RecordReapEviction()
	}

	var wg sync.WaitGroup
	torn := make(chan Snapshot, 100)
	for r := 0; r < 20; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				s := suite.stats.Snapshot()
				full := s.Hits == count && s.Misses == count && s.EvictionCount == 2*count && s.ReapCount == count
				zero := s.Hits == 0 && s.Misses == 0 && s.EvictionCount == 0 && s.ReapCount == 0
				if !full && !zero {
					select {
					case torn <- s:
					default:
					}
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		suite.stats.Reset()
	}()
	wg.Wait()
	close(torn)

	for s := range torn {
		suite.T().Errorf("observed a partially reset snapshot: %+v", s)
	}
}
