// Package userlock serializes everything that touches one user's
// conversational state. The message path and the timer path share one Keyed
// instance so check-then-act-then-clear sequences stay atomic per user while
// different users never block each other.
package userlock

import "sync"

type Keyed struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New() *Keyed {
	return &Keyed{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the user's lock and returns its release func.
func (k *Keyed) Lock(userID string) func() {
	k.mu.Lock()
	l, ok := k.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		k.locks[userID] = l
	}
	k.mu.Unlock()
	l.Lock()
	return l.Unlock
}
