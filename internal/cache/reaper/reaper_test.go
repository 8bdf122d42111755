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

package reaper

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type countingTarget struct {
	sweeps atomic.Int32
	err    error
}

func (t *countingTarget) Reap(context.Context) error {
	t.sweeps.Add(1)
	return t.err
}

type ReaperTestSuite struct {
	suite.Suite
}

func TestReaperSuite(t *testing.T) {
	suite.Run(t, new(ReaperTestSuite))
}

func (suite *ReaperTestSuite) TestSweepsUntilStopped() {
	target := &countingTarget{}
	reaper := NewReaper("default", target, 10*time.Millisecond)

	reaper.Start()
	assert.True(suite.T(), reaper.IsRunning())
	assert.Eventually(suite.T(), func() bool { return target.sweeps.Load() >= 3 }, time.Second, 5*time.Millisecond)

	reaper.Stop()
	assert.False(suite.T(), reaper.IsRunning())
	stoppedAt := target.sweeps.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(suite.T(), stoppedAt, target.sweeps.Load())
}

func (suite *ReaperTestSuite) TestStartAndStopAreIdempotent() {
	target := &countingTarget{}
	reaper := NewReaper("default", target, time.Hour)

	reaper.Start()
	reaper.Start()
	assert.True(suite.T(), reaper.IsRunning())

	reaper.Stop()
	reaper.Stop()
	assert.False(suite.T(), reaper.IsRunning())

	reaper.Start()
	assert.True(suite.T(), reaper.IsRunning())
	reaper.Stop()
}

func (suite *ReaperTestSuite) TestSweepErrorsDoNotStopReaper() {
	target := &countingTarget{err: errors.New("disk full")}
	reaper := NewReaper("default", target, 5*time.Millisecond)
	defer reaper.Stop()

	reaper.Start()

	assert.Eventually(suite.T(), func() bool { return target.sweeps.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func (suite *ReaperTestSuite) TestNonPositiveFrequencyNeverStarts() {
	reaper := NewReaper("default", &countingTarget{}, 0)

	reaper.Start()

	assert.False(suite.T(), reaper.IsRunning())
	assert.Equal(suite.T(), time.Duration(0), reaper.Frequency())
}
