// Package sessionstore holds the per-user conversational state shared between
// the message path and the timer path. Both the dialogue state machine and the
// pending-checkin tracker keep their maps behind this interface so the backend
// (in-process or redis) is an injection decision, not ambient global state.
package sessionstore

import "sync"

// Store is a keyed store for one kind of session record. Implementations must
// be safe for concurrent use.
type Store[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T) error
	Delete(key string) error
	// ForEach visits a snapshot of the current entries. Used by sweeps; the
	// visited set may be stale by the time the callback runs.
	ForEach(fn func(key string, value T) bool) error
	Len() int
}

// Memory is the default single-process backend.
type Memory[T any] struct {
	mu sync.Mutex
	m  map[string]T
}

func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{m: make(map[string]T)}
}

func (s *Memory[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *Memory[T]) Set(key string, value T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *Memory[T]) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

func (s *Memory[T]) ForEach(fn func(key string, value T) bool) error {
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

func (s *Memory[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}
