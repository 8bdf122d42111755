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

package log

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/asgardeo/cacheengine/internal/system/constants"
)

type LogTestSuite struct {
	suite.Suite
	originalLogLevel string
}

func TestLogSuite(t *testing.T) {
	suite.Run(t, new(LogTestSuite))
}

func (suite *LogTestSuite) SetupTest() {
	suite.originalLogLevel = os.Getenv(constants.LogLevelEnvironmentVariable)
	SetLogger(nil)
}

func (suite *LogTestSuite) TearDownTest() {
	err := os.Setenv(constants.LogLevelEnvironmentVariable, suite.originalLogLevel)
	if err != nil {
		suite.T().Errorf("Failed to restore environment variable: %v", err)
	}
	SetLogger(nil)
}

func (suite *LogTestSuite) TestGetLoggerBeforeInit() {
	assert.NotPanics(suite.T(), func() {
		GetLogger().Info("logged to a no-op core")
	})
}

func (suite *LogTestSuite) TestInitLoggerWithEnvironmentVariable() {
	testCases := []struct {
		name     string
		logLevel string
		expected zapcore.Level
		isValid  bool
	}{
		{"DefaultLevel", "", zapcore.InfoLevel, true},
		{"DebugLevel", "debug", zapcore.DebugLevel, true},
		{"WarnLevel", "warn", zapcore.WarnLevel, true},
		{"ErrorLevel", "error", zapcore.ErrorLevel, true},
		{"InvalidLevel", "unknown", zapcore.InfoLevel, false},
	}

	for _, tc := range testCases {
		suite.T().Run(tc.name, func(t *testing.T) {
			SetLogger(nil)
			assert.NoError(t, os.Setenv(constants.LogLevelEnvironmentVariable, tc.logLevel))

			err := InitLogger()
			if !tc.isValid {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.True(t, GetLogger().Core().Enabled(tc.expected))
			if tc.expected > zapcore.DebugLevel {
				assert.False(t, GetLogger().Core().Enabled(tc.expected-1))
			}
		})
	}
}

func (suite *LogTestSuite) TestSetLoggerWithObserver() {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))

	GetLogger().With(String(LoggerKeyComponentName, "Test")).Warn("hello")

	entries := logs.All()
	assert.Len(suite.T(), entries, 1)
	assert.Equal(suite.T(), "hello", entries[0].Message)
	assert.Equal(suite.T(), "Test", entries[0].ContextMap()[LoggerKeyComponentName])
}

func (suite *LogTestSuite) TestFieldHelpers() {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))

	GetLogger().Info("fields",
		String(LoggerKeyCacheName, "sessions"),
		Strings("caches", []string{"a", "b"}),
		Int("removed", 2),
		Int64("hits", 7),
		Bool("cleared", true),
		Duration("elapsed", time.Second),
		Any("limit", 5),
		Error(errors.New("boom")),
	)

	entries := logs.All()
	assert.Len(suite.T(), entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(suite.T(), "sessions", fields[LoggerKeyCacheName])
	assert.Equal(suite.T(), int64(2), fields["removed"])
	assert.Equal(suite.T(), int64(7), fields["hits"])
	assert.Equal(suite.T(), true, fields["cleared"])
	assert.Equal(suite.T(), time.Second, fields["elapsed"])
	assert.Equal(suite.T(), "boom", fields["error"])
}
