package service

import "sync"

// idLocker serializes operations on the same recommendation id. Operations on
// different ids proceed in parallel. Entries are never evicted; the lock set
// is bounded by the number of distinct ids seen by this process.
type idLocker struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newIDLocker() *idLocker {
	return &idLocker{
		locks: make(map[int64]*sync.Mutex),
	}
}

// Lock acquires the mutex for the given id and returns its unlock function.
func (l *idLocker) Lock(id int64) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
