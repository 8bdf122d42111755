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

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/asgardeo/cacheengine/internal/cache/cacheerror"
	"github.com/asgardeo/cacheengine/internal/cache/model"
	"github.com/asgardeo/cacheengine/internal/system/crypto/hash"
	"github.com/asgardeo/cacheengine/internal/system/log"
)

const cacheFileExtension = ".cache"

// FileSystemStore keeps one JSON encoded entry per file under a directory.
// Values round trip through JSON, so numbers come back as float64.
type FileSystemStore struct {
	directory string
	mu        sync.RWMutex
	logger    *zap.Logger
}

var _ ObjectStoreInterface = (*FileSystemStore)(nil)

// NewFileSystemStore creates a store rooted at directory, creating it if needed.
func NewFileSystemStore(directory string) (*FileSystemStore, error) {
	if directory == "" {
		return nil, cacheerror.NewValidationError("a directory is required for a file system store")
	}
	if err := os.MkdirAll(directory, 0o750); err != nil {
		return nil, cacheerror.NewStorageError("mkdir", "", err)
	}
	return &FileSystemStore{
		directory: directory,
		logger: log.GetLogger().With(log.String(log.LoggerKeyComponentName, "FileSystemStore"),
			log.String("directory", directory)),
	}, nil
}

// NewFileSystemStoreFactory returns a Factory producing file system stores. Caches without
// a configured directory get a sub directory of baseDir named after the cache.
func NewFileSystemStoreFactory(baseDir string) Factory {
	return func(cacheName string, props model.CacheProperties) (ObjectStoreInterface, error) {
		directory := props.Directory
		if directory == "" {
			directory = filepath.Join(baseDir, hash.HashString(strings.ToUpper(cacheName))[:16])
		}
		return NewFileSystemStore(directory)
	}
}

// Directory returns the root directory of the store.
func (s *FileSystemStore) Directory() string {
	return s.directory
}

// Get reads the entry and persists the recorded access.
func (s *FileSystemStore) Get(key model.CacheKey) (*model.CacheEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.read(s.pathFor(key))
	if err != nil || entry == nil {
		return entry, err
	}
	entry.TouchLastAccessed()
	entry.IncrementHits()
	if err := s.write(key, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetQuiet reads the entry without modifying it.
func (s *FileSystemStore) GetQuiet(key model.CacheKey) (*model.CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.pathFor(key))
}

// Set writes the entry to its file.
func (s *FileSystemStore) Set(key model.CacheKey, entry *model.CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(key, entry)
}

// Remove deletes the entry file.
func (s *FileSystemStore) Remove(key model.CacheKey) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.pathFor(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, cacheerror.NewStorageError("remove", key.Name(), err)
	}
	return true, nil
}

// RemoveIf deletes the entry file while it holds the expected revision.
func (s *FileSystemStore) RemoveIf(key model.CacheKey, expected *model.CacheEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.pathFor(key)
	stored, err := s.read(path)
	if err != nil || !stored.SameRevision(expected) {
		return false, err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, cacheerror.NewStorageError("remove", key.Name(), err)
	}
	return true, nil
}

// Replace rewrites the entry file while it holds the expected revision.
func (s *FileSystemStore) Replace(key model.CacheKey, expected, entry *model.CacheEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.read(s.pathFor(key))
	if err != nil || !stored.SameRevision(expected) {
		return false, err
	}
	if err := s.write(key, entry); err != nil {
		return false, err
	}
	return true, nil
}

// Keys decodes every entry file and returns its key. Unreadable files are skipped.
func (s *FileSystemStore) Keys() ([]model.CacheKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.list()
	if err != nil {
		return nil, err
	}
	keys := make([]model.CacheKey, 0, len(files))
	for _, file := range files {
		entry, err := s.read(file)
		if err != nil {
			s.logger.Warn("Skipping unreadable cache file", log.String("file", file), log.Error(err))
			continue
		}
		if entry != nil {
			keys = append(keys, entry.Key())
		}
	}
	return keys, nil
}

// Size returns the number of entry files.
func (s *FileSystemStore) Size() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.list()
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

// Clear deletes every entry file. The directory itself is kept.
func (s *FileSystemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeAll()
}

// Shutdown deletes every entry file.
func (s *FileSystemStore) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeAll()
}

func (s *FileSystemStore) pathFor(key model.CacheKey) string {
	return filepath.Join(s.directory, hash.HashString(key.Normalized())+cacheFileExtension)
}

func (s *FileSystemStore) list() ([]string, error) {
	dirEntries, err := os.ReadDir(s.directory)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, cacheerror.NewStorageError("list", "", err)
	}
	files := make([]string, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() || filepath.Ext(dirEntry.Name()) != cacheFileExtension {
			continue
		}
		files = append(files, filepath.Join(s.directory, dirEntry.Name()))
	}
	return files, nil
}

func (s *FileSystemStore) read(file string) (*model.CacheEntry, error) {
	data, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, cacheerror.NewStorageError("read", filepath.Base(file), err)
	}

	var record model.EntryRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, cacheerror.NewStorageError("decode", filepath.Base(file), err)
	}
	return model.NewCacheEntryFromRecord(record), nil
}

func (s *FileSystemStore) write(key model.CacheKey, entry *model.CacheEntry) error {
	data, err := json.Marshal(entry.ToRecord())
	if err != nil {
		return cacheerror.NewStorageError("encode", key.Name(), err)
	}

	if err := os.MkdirAll(s.directory, 0o750); err != nil {
		return cacheerror.NewStorageError("mkdir", key.Name(), err)
	}
	tmp := filepath.Join(s.directory, fmt.Sprintf(".%s.tmp", uuid.NewString()))
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return cacheerror.NewStorageError("write", key.Name(), err)
	}
	if err := os.Rename(tmp, s.pathFor(key)); err != nil {
		_ = os.Remove(tmp)
		return cacheerror.NewStorageError("rename", key.Name(), err)
	}
	return nil
}

func (s *FileSystemStore) removeAll() error {
	files, err := s.list()
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := os.Remove(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cacheerror.NewStorageError("remove", filepath.Base(file), err)
		}
	}
	return nil
}
