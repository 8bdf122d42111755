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

package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type BusTestSuite struct {
	suite.Suite
	bus *Bus
}

func TestBusSuite(t *testing.T) {
	suite.Run(t, new(BusTestSuite))
}

func (suite *BusTestSuite) SetupTest() {
	suite.bus = NewBus()
}

func (suite *BusTestSuite) TestPublishDeliversInOrder() {
	var received []string
	suite.bus.Subscribe(AfterCacheElementInsert, func(event Event) {
		received = append(received, "first:"+event.Key)
	})
	suite.bus.Subscribe(AfterCacheElementInsert, func(event Event) {
		received = append(received, "second:"+event.Key)
	})
	suite.bus.Subscribe(AfterCacheElementRemoved, func(event Event) {
		received = append(received, "removed")
	})

	suite.bus.Publish(Event{Type: AfterCacheElementInsert, CacheName: "default", Key: "foo"})

	assert.Equal(suite.T(), []string{"first:foo", "second:foo"}, received)
}

func (suite *BusTestSuite) TestPanickingListenerDoesNotStopDelivery() {
	delivered := false
	suite.bus.Subscribe(AfterCacheClearAll, func(Event) {
		panic("boom")
	})
	suite.bus.Subscribe(AfterCacheClearAll, func(Event) {
		delivered = true
	})

	assert.NotPanics(suite.T(), func() {
		suite.bus.Publish(Event{Type: AfterCacheClearAll})
	})
	assert.True(suite.T(), delivered)
}

func (suite *BusTestSuite) TestNilBusIsNoop() {
	var bus *Bus
	assert.NotPanics(suite.T(), func() {
		bus.Subscribe(AfterCacheShutdown, func(Event) {})
		bus.Publish(Event{Type: AfterCacheShutdown})
	})
}
