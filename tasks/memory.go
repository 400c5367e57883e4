package tasks

import (
	"context"
	"sync"

	"github.com/estevaoantuness/notion-pangeia-sub000/nlp"
)

// Memory is an in-process Store used by the console command and by tests.
// Indices address the user's most recent listing, so List remembers the scope
// it filtered by and the mutations resolve positions through that same filter.
type Memory struct {
	mu     sync.Mutex
	lists  map[string][]Task
	scopes map[string]nlp.Scope
}

func NewMemory() *Memory {
	return &Memory{
		lists:  make(map[string][]Task),
		scopes: make(map[string]nlp.Scope),
	}
}

func (m *Memory) List(_ context.Context, userID string, scope nlp.Scope) ([]Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scopes[userID] = scope
	out := make([]Task, 0, len(m.lists[userID]))
	for _, t := range m.lists[userID] {
		if !m.listed(t, scope) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// listed reports whether a task appears in a listing filtered by scope.
func (m *Memory) listed(t Task, scope nlp.Scope) bool {
	if t.Done {
		return false
	}
	if scope != nlp.ScopeNone && scope != nlp.ScopeAll && t.Scope != scope {
		return false
	}
	return true
}

func (m *Memory) Add(_ context.Context, userID, title string) (Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := Task{Title: title, Scope: nlp.ScopeToday}
	m.lists[userID] = append(m.lists[userID], t)
	return t, nil
}

func (m *Memory) Complete(_ context.Context, userID string, index int) (Task, error) {
	return m.mutate(userID, index, func(t *Task) { t.Done = true })
}

func (m *Memory) Remove(_ context.Context, userID string, index int) (Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pos, err := m.position(userID, index)
	if err != nil {
		return Task{}, err
	}
	list := m.lists[userID]
	removed := list[pos]
	m.lists[userID] = append(list[:pos], list[pos+1:]...)
	return removed, nil
}

func (m *Memory) Postpone(_ context.Context, userID string, index int, to nlp.Scope) (Task, error) {
	if to == nlp.ScopeNone {
		to = nlp.ScopeTomorrow
	}
	return m.mutate(userID, index, func(t *Task) { t.Scope = to })
}

func (m *Memory) Progress(_ context.Context, userID string) (done, total int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.lists[userID] {
		total++
		if t.Done {
			done++
		}
	}
	return done, total, nil
}

// mutate applies fn to the index-th pending task (1-based, listing order).
func (m *Memory) mutate(userID string, index int, fn func(*Task)) (Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	pos, err := m.position(userID, index)
	if err != nil {
		return Task{}, err
	}
	fn(&m.lists[userID][pos])
	return m.lists[userID][pos], nil
}

// position maps a 1-based index from the user's last listing to its slice
// position, applying the same scope filter that listing used. Before any
// listing the default today scope applies, matching the list handler.
func (m *Memory) position(userID string, index int) (int, error) {
	if index <= 0 {
		return 0, ErrNotFound
	}
	scope, ok := m.scopes[userID]
	if !ok || scope == nlp.ScopeNone {
		scope = nlp.ScopeToday
	}
	n := 0
	for pos, t := range m.lists[userID] {
		if !m.listed(t, scope) {
			continue
		}
		n++
		if n == index {
			return pos, nil
		}
	}
	return 0, ErrNotFound
}
