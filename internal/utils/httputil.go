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

// Package utils provides HTTP helpers shared by the handlers.
package utils

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	serverconst "github.com/asgardeo/cacheengine/internal/system/constants"
	"github.com/asgardeo/cacheengine/internal/system/error/serviceerror"
	"github.com/asgardeo/cacheengine/internal/system/log"
)

// WriteJSON writes the payload as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, logger *zap.Logger, statusCode int, payload any) {

	w.Header().Set(serverconst.ContentTypeHeaderName, serverconst.ContentTypeJSON)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode the HTTP response", log.Error(err))
	}
}

// WriteServiceError writes the service error as a JSON response. Server errors are logged at
// error level and client errors at debug level.
func WriteServiceError(w http.ResponseWriter, logger *zap.Logger, svcErr *serviceerror.ServiceError,
	statusCode int) {

	if svcErr.Type == serviceerror.ServerErrorType {
		logger.Error("Error in HTTP response", log.String("code", svcErr.Code),
			log.String("description", svcErr.ErrorDescription))
	} else {
		logger.Debug("Client error in HTTP response", log.String("code", svcErr.Code),
			log.String("description", svcErr.ErrorDescription))
	}
	WriteJSON(w, logger, statusCode, svcErr)
}

// ParseBoolQueryParam reads a boolean query parameter. A missing value yields the fallback.
func ParseBoolQueryParam(r *http.Request, name string, fallback bool) (bool, error) {

	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.ParseBool(raw)
}

// ParseIntQueryParam reads an integer query parameter. A missing value yields the fallback.
func ParseIntQueryParam(r *http.Request, name string, fallback int) (int, error) {

	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
