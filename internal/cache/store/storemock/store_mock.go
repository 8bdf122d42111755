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

// Package storemock provides a testify mock of the object store interface.
package storemock

import (
	"github.com/stretchr/testify/mock"

	"github.com/asgardeo/cacheengine/internal/cache/model"
)

// ObjectStoreMock is a mock implementation of store.ObjectStoreInterface.
type ObjectStoreMock struct {
	mock.Mock
}

// Get mocks ObjectStoreInterface.Get.
func (m *ObjectStoreMock) Get(key model.CacheKey) (*model.CacheEntry, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CacheEntry), args.Error(1)
}

// GetQuiet mocks ObjectStoreInterface.GetQuiet.
func (m *ObjectStoreMock) GetQuiet(key model.CacheKey) (*model.CacheEntry, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CacheEntry), args.Error(1)
}

// Set mocks ObjectStoreInterface.Set.
func (m *ObjectStoreMock) Set(key model.CacheKey, entry *model.CacheEntry) error {
	args := m.Called(key, entry)
	return args.Error(0)
}

// Remove mocks ObjectStoreInterface.Remove.
func (m *ObjectStoreMock) Remove(key model.CacheKey) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

// RemoveIf mocks ObjectStoreInterface.RemoveIf.
func (m *ObjectStoreMock) RemoveIf(key model.CacheKey, expected *model.CacheEntry) (bool, error) {
	args := m.Called(key, expected)
	return args.Bool(0), args.Error(1)
}

// Replace mocks ObjectStoreInterface.Replace.
func (m *ObjectStoreMock) Replace(key model.CacheKey, expected, entry *model.CacheEntry) (bool, error) {
	args := m.Called(key, expected, entry)
	return args.Bool(0), args.Error(1)
}

// Keys mocks ObjectStoreInterface.Keys.
func (m *ObjectStoreMock) Keys() ([]model.CacheKey, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CacheKey), args.Error(1)
}

// Size mocks ObjectStoreInterface.Size.
func (m *ObjectStoreMock) Size() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

// Clear mocks ObjectStoreInterface.Clear.
func (m *ObjectStoreMock) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// Shutdown mocks ObjectStoreInterface.Shutdown.
func (m *ObjectStoreMock) Shutdown() error {
	args := m.Called()
	return args.Error(0)
}
