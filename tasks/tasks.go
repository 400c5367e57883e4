// Package tasks defines the task-record collaborator contract. The real
// project store lives behind a remote API; handlers only ever hand it
// validated parameters (person + index), never raw text.
package tasks

import (
	"context"
	"errors"

	"github.com/estevaoantuness/notion-pangeia-sub000/nlp"
)

var ErrNotFound = errors.New("tasks: task not found")

type Task struct {
	Title string
	Scope nlp.Scope
	Done  bool
}

// Store is the remote project-store collaborator. Indices are 1-based
// positions within the user's current pending listing.
type Store interface {
	List(ctx context.Context, userID string, scope nlp.Scope) ([]Task, error)
	Add(ctx context.Context, userID, title string) (Task, error)
	Complete(ctx context.Context, userID string, index int) (Task, error)
	Remove(ctx context.Context, userID string, index int) (Task, error)
	Postpone(ctx context.Context, userID string, index int, to nlp.Scope) (Task, error)
	Progress(ctx context.Context, userID string) (done, total int, err error)
}
