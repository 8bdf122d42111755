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

// Package filter provides predicates over cache key names used to scope bulk operations.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// KeyFilter matches cache key names.
type KeyFilter interface {
	Matches(keyName string) bool
}

// FilterFunc adapts an ordinary function to the KeyFilter interface.
type FilterFunc func(keyName string) bool

// Matches calls f(keyName).
func (f FilterFunc) Matches(keyName string) bool {
	return f(keyName)
}

// WildcardFilter matches key names against a case insensitive pattern where '*' matches
// any run of characters and '?' a single character. Every other character is literal.
type WildcardFilter struct {
	pattern string
	matcher glob.Glob
}

// NewWildcardFilter compiles a wildcard filter. An empty pattern matches every key.
func NewWildcardFilter(pattern string) (*WildcardFilter, error) {
	wf := &WildcardFilter{pattern: pattern}
	if pattern == "" {
		return wf, nil
	}

	matcher, err := glob.Compile(quoteWildcardPattern(strings.ToLower(pattern)))
	if err != nil {
		return nil, fmt.Errorf("invalid wildcard pattern [%s]: %w", pattern, err)
	}
	wf.matcher = matcher
	return wf, nil
}

// quoteWildcardPattern escapes the glob syntax of a pattern, leaving only '*' and '?' active.
func quoteWildcardPattern(pattern string) string {
	var b strings.Builder
	start := 0
	for i := 0; i < len(pattern); i++ {
		if c := pattern[i]; c == '*' || c == '?' {
			b.WriteString(glob.QuoteMeta(pattern[start:i]))
			b.WriteByte(c)
			start = i + 1
		}
	}
	b.WriteString(glob.QuoteMeta(pattern[start:]))
	return b.String()
}

// Matches reports whether the key name matches the pattern.
func (f *WildcardFilter) Matches(keyName string) bool {
	if f.matcher == nil {
		return true
	}
	return f.matcher.Match(strings.ToLower(keyName))
}

// Pattern returns the pattern the filter was built from.
func (f *WildcardFilter) Pattern() string {
	return f.pattern
}

// RegexFilter fully matches key names, in their original casing, against a regular expression.
type RegexFilter struct {
	pattern string
	re      *regexp.Regexp
}

// NewRegexFilter compiles a regular expression filter.
func NewRegexFilter(pattern string) (*RegexFilter, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, fmt.Errorf("invalid regular expression [%s]: %w", pattern, err)
	}
	return &RegexFilter{pattern: pattern, re: re}, nil
}

// Matches reports whether the whole key name matches the expression.
func (f *RegexFilter) Matches(keyName string) bool {
	return f.re.MatchString(keyName)
}

// Pattern returns the expression the filter was built from.
func (f *RegexFilter) Pattern() string {
	return f.pattern
}

// New returns a RegexFilter when useRegex is set and a WildcardFilter otherwise.
func New(pattern string, useRegex bool) (KeyFilter, error) {
	if useRegex {
		regexFilter, err := NewRegexFilter(pattern)
		if err != nil {
			return nil, err
		}
		return regexFilter, nil
	}
	wildcardFilter, err := NewWildcardFilter(pattern)
	if err != nil {
		return nil, err
	}
	return wildcardFilter, nil
}

// MatchAll reports whether f is nil or matches the key name.
func MatchAll(f KeyFilter, keyName string) bool {
	return f == nil || f.Matches(keyName)
}
