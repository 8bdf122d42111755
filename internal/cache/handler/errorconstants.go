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

package handler

import "github.com/asgardeo/cacheengine/internal/system/error/serviceerror"

// Client errors for the cache management API.
var (
	// ErrorCacheNotFound is the error returned when the requested cache is not registered.
	ErrorCacheNotFound = serviceerror.ServiceError{
		Code:             "CCH-1001",
		Type:             serviceerror.ClientErrorType,
		Error:            "Cache not found",
		ErrorDescription: "The requested cache is not registered",
	}
	// ErrorInvalidFilter is the error returned when the key filter cannot be compiled.
	ErrorInvalidFilter = serviceerror.ServiceError{
		Code:             "CCH-1002",
		Type:             serviceerror.ClientErrorType,
		Error:            "Invalid filter",
		ErrorDescription: "The key filter is not a valid pattern",
	}
	// ErrorInvalidQueryParam is the error returned when a query parameter has an invalid value.
	ErrorInvalidQueryParam = serviceerror.ServiceError{
		Code:             "CCH-1003",
		Type:             serviceerror.ClientErrorType,
		Error:            "Invalid query parameter",
		ErrorDescription: "A query parameter has an invalid value",
	}
	// ErrorCacheShutdown is the error returned when the cache is already shut down.
	ErrorCacheShutdown = serviceerror.ServiceError{
		Code:             "CCH-1004",
		Type:             serviceerror.ClientErrorType,
		Error:            "Cache unavailable",
		ErrorDescription: "The cache has been shut down",
	}
)

// Server errors for the cache management API.
var (
	// ErrorInternalServerError is the error returned for unexpected failures.
	ErrorInternalServerError = serviceerror.ServiceError{
		Code:             "CCH-5001",
		Type:             serviceerror.ServerErrorType,
		Error:            "Internal server error",
		ErrorDescription: "An unexpected error occurred while processing the request",
	}
	// ErrorStorageFailure is the error returned when the backing store fails.
	ErrorStorageFailure = serviceerror.ServiceError{
		Code:             "CCH-5002",
		Type:             serviceerror.ServerErrorType,
		Error:            "Cache storage failure",
		ErrorDescription: "The cache store could not complete the operation",
	}
)
