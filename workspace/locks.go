package workspace

import (
	"path/filepath"
	"sync"
)

// Locks is a set of per-path mutexes. The zero value is ready to use.
type Locks struct {
	mu    sync.Mutex
	paths map[string]*pathLock
}

type pathLock struct {
	mu   sync.Mutex
	refs int
}

// Lock acquires the mutex for path and returns its release function.
// Entries are dropped once no caller holds or waits on them.
func (l *Locks) Lock(path string) (unlock func()) {
	key := filepath.Clean(path)

	l.mu.Lock()
	if l.paths == nil {
		l.paths = make(map[string]*pathLock)
	}
	pl, ok := l.paths[key]
	if !ok {
		pl = &pathLock{}
		l.paths[key] = pl
	}
	pl.refs++
	l.mu.Unlock()

	pl.mu.Lock()
	return func() {
		pl.mu.Unlock()
		l.mu.Lock()
		pl.refs--
		if pl.refs == 0 {
			delete(l.paths, key)
		}
		l.mu.Unlock()
	}
}

// Len returns the number of paths currently tracked.
func (l *Locks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.paths)
}
