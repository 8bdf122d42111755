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

package registry

import "context"

type applicationNameKey struct{}

// WithApplicationName returns a context carrying the application name used to resolve
// application scoped caches.
func WithApplicationName(ctx context.Context, appName string) context.Context {
	return context.WithValue(ctx, applicationNameKey{}, appName)
}

// ApplicationNameFromContext returns the application name carried by the context, if any.
func ApplicationNameFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	appName, ok := ctx.Value(applicationNameKey{}).(string)
	return appName, ok && appName != ""
}
