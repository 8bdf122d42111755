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

// Package cacheerror defines the error kinds raised by the cache engine.
package cacheerror

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCacheNotFound is returned when a cache name is not registered.
	ErrCacheNotFound = errors.New("cache not found")
	// ErrCacheExists is returned when a cache name is already registered.
	ErrCacheExists = errors.New("cache already exists")
	// ErrValidation is returned for disallowed argument or attribute combinations.
	ErrValidation = errors.New("validation error")
	// ErrUnsupportedAction is returned when a cache directive action has no handler.
	ErrUnsupportedAction = errors.New("unsupported cache action")
	// ErrStorageIO is returned when an object store fails to read or write.
	ErrStorageIO = errors.New("cache storage I/O error")
	// ErrProviderTypeNotFound is returned when a provider type is not registered.
	ErrProviderTypeNotFound = errors.New("cache provider type not found")
	// ErrStoreTypeNotFound is returned when an object store type is not registered.
	ErrStoreTypeNotFound = errors.New("object store type not found")
	// ErrDefaultCacheShutdown is returned when shutting down the default cache is attempted.
	ErrDefaultCacheShutdown = errors.New("the default cache cannot be shut down")
	// ErrProviderShutdown is returned when an operation reaches a provider after shutdown.
	ErrProviderShutdown = errors.New("cache provider is shut down")
	// ErrSupplierPanic is returned when a value supplier panics.
	ErrSupplierPanic = errors.New("cache supplier panicked")
)

// CacheNotFoundError reports an unknown cache name together with the registered names.
type CacheNotFoundError struct {
	Name       string
	Registered []string
}

// Error implements the error interface.
func (e *CacheNotFoundError) Error() string {
	return fmt.Sprintf("the cache [%s] does not exist; valid caches are [%s]",
		e.Name, strings.Join(e.Registered, ", "))
}

// Is reports whether target is ErrCacheNotFound.
func (e *CacheNotFoundError) Is(target error) bool {
	return target == ErrCacheNotFound
}

// ValidationError reports an invalid argument or attribute.
type ValidationError struct {
	Message string
}

// NewValidationError creates a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StorageError wraps an I/O failure raised by an object store.
type StorageError struct {
	Op  string
	Key string
	Err error
}

// NewStorageError wraps err as a StorageError for the given operation and key.
func NewStorageError(op, key string, err error) *StorageError {
	return &StorageError{Op: op, Key: key, Err: err}
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("cache storage %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("cache storage %s failed for key [%s]: %v", e.Op, e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrStorageIO.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorageIO
}
