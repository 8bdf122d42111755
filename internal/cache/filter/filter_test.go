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

package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type FilterTestSuite struct {
	suite.Suite
}

func TestFilterSuite(t *testing.T) {
	suite.Run(t, new(FilterTestSuite))
}

func (suite *FilterTestSuite) TestWildcardFilter() {
	testCases := []struct {
		name     string
		pattern  string
		key      string
		expected bool
	}{
		{"PrefixStar", "testKe*", "testKey", true},
		{"PrefixStarLonger", "testKe*", "testKey2", true},
		{"PrefixStarMiss", "testKe*", "key3", false},
		{"CaseInsensitive", "TESTKE*", "testkey", true},
		{"QuestionMark", "key?", "key3", true},
		{"QuestionMarkSingleOnly", "key?", "key33", false},
		{"InnerStar", "user*session", "user:42:session", true},
		{"Exact", "foo", "FOO", true},
		{"EmptyMatchesAll", "", "anything", true},
	}

	for _, tc := range testCases {
		suite.T().Run(tc.name, func(t *testing.T) {
			f, err := NewWildcardFilter(tc.pattern)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, f.Matches(tc.key))
			assert.Equal(t, tc.pattern, f.Pattern())
		})
	}
}

func (suite *FilterTestSuite) TestWildcardFilterTreatsGlobSyntaxAsLiteral() {
	testCases := []struct {
		name     string
		pattern  string
		key      string
		expected bool
	}{
		{"UnclosedBracket", "[unclosed", "[UNCLOSED", true},
		{"Brackets", "user[1]*", "user[1]x", true},
		{"BracketsAreNotAClass", "user[1]*", "user1x", false},
		{"Braces", "a{b,c}*", "a{b,c}1", true},
		{"BracesAreNotAlternatives", "a{b,c}", "ab", false},
		{"Backslash", `path\to*`, `path\to\x`, true},
		{"BackslashDoesNotEscapeStar", `key\*`, `key\anything`, true},
	}

	for _, tc := range testCases {
		suite.T().Run(tc.name, func(t *testing.T) {
			f, err := NewWildcardFilter(tc.pattern)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, f.Matches(tc.key))
		})
	}
}

func (suite *FilterTestSuite) TestRegexFilter() {
	f, err := NewRegexFilter(".*foo.*")
	require.NoError(suite.T(), err)

	assert.True(suite.T(), f.Matches("myfoobar"))
	assert.False(suite.T(), f.Matches("bar"))
	assert.Equal(suite.T(), ".*foo.*", f.Pattern())
}

func (suite *FilterTestSuite) TestRegexFilterIsFullMatchAndCaseSensitive() {
	f, err := NewRegexFilter("foo")
	require.NoError(suite.T(), err)

	assert.True(suite.T(), f.Matches("foo"))
	assert.False(suite.T(), f.Matches("myfoo"))
	assert.False(suite.T(), f.Matches("FOO"))

	alternation, err := NewRegexFilter("a|b")
	require.NoError(suite.T(), err)
	assert.False(suite.T(), alternation.Matches("ab"))
	assert.True(suite.T(), alternation.Matches("b"))
}

func (suite *FilterTestSuite) TestRegexFilterInvalidPattern() {
	f, err := NewRegexFilter("(")

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), f)
}

func (suite *FilterTestSuite) TestNewSelectsImplementation() {
	wildcard, err := New("foo*", false)
	require.NoError(suite.T(), err)
	assert.IsType(suite.T(), &WildcardFilter{}, wildcard)

	regex, err := New("foo.*", true)
	require.NoError(suite.T(), err)
	assert.IsType(suite.T(), &RegexFilter{}, regex)
}

func (suite *FilterTestSuite) TestFilterFuncAndMatchAll() {
	var f KeyFilter = FilterFunc(func(keyName string) bool {
		return strings.HasSuffix(keyName, "_tmp")
	})

	assert.True(suite.T(), f.Matches("report_tmp"))
	assert.False(suite.T(), f.Matches("report"))
	assert.True(suite.T(), MatchAll(nil, "report"))
	assert.False(suite.T(), MatchAll(f, "report"))
}
