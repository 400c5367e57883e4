package sessionstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File is a single-process backend that survives restarts. The whole map
// lives in one JSON file per namespace; every mutation rewrites it through a
// temp file and rename so a crash never leaves a half-written state file.
type File[T any] struct {
	mu   sync.Mutex
	path string
	m    map[string]T
}

// NewFile loads the state file at path, creating parent directories as
// needed. A missing or empty file starts an empty store.
func NewFile[T any](path string) (*File[T], error) {
	if path == "" {
		return nil, fmt.Errorf("state file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sessionstore ensure dir for %s: %w", path, err)
	}
	s := &File[T]{path: path, m: make(map[string]T)}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("sessionstore read %s: %w", path, err)
	}
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s.m); err != nil {
		return nil, fmt.Errorf("sessionstore decode %s: %w", path, err)
	}
	return s, nil
}

func (s *File[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *File[T]) Set(key string, value T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return s.persist()
}

func (s *File[T]) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[key]; !ok {
		return nil
	}
	delete(s.m, key)
	return s.persist()
}

func (s *File[T]) ForEach(fn func(key string, value T) bool) error {
	s.mu.Lock()
	snapshot := make(map[string]T, len(s.m))
	for k, v := range s.m {
		snapshot[k] = v
	}
	s.mu.Unlock()
	for k, v := range snapshot {
		if !fn(k, v) {
			break
		}
	}
	return nil
}

func (s *File[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

// persist writes the map atomically. Callers hold s.mu.
func (s *File[T]) persist() error {
	data, err := json.MarshalIndent(s.m, "", "  ")
	if err != nil {
		return fmt.Errorf("sessionstore encode %s: %w", s.path, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("sessionstore create temp for %s: %w", s.path, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("sessionstore write temp for %s: %w", s.path, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sessionstore sync temp for %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("sessionstore close temp for %s: %w", s.path, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("sessionstore rename temp for %s: %w", s.path, err)
	}

	// Best effort directory sync for durability; ignore failures.
	if dirFD, err := os.Open(dir); err == nil {
		_ = dirFD.Sync()
		_ = dirFD.Close()
	}
	return nil
}
