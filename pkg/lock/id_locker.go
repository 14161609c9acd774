package lock

import (
	"sync"

	"github.com/apex/log"
)

// IDLocker hands out one mutex per id. It's used to serialize state
// transitions on a single team (post, unpost, member removal) so that
// check-then-act sequences behave as one atomic unit. Mutexes are never
// freed; the set of ids is small and long-lived.
type IDLocker struct {
	mapMutex sync.Mutex
	idMap    map[int]*sync.Mutex
}

func NewIDLocker() *IDLocker {
	return &IDLocker{
		idMap: make(map[int]*sync.Mutex),
	}
}

func (l *IDLocker) Acquire(id int) {
	l.mapMutex.Lock()
	idMutex, ok := l.idMap[id]
	if !ok {
		idMutex = &sync.Mutex{}
		l.idMap[id] = idMutex
	}
	l.mapMutex.Unlock()
	idMutex.Lock()
}

func (l *IDLocker) Release(id int) {
	l.mapMutex.Lock()
	m, ok := l.idMap[id]
	l.mapMutex.Unlock()
	if !ok {
		log.Errorf("Release called on id (%d) with no mutex", id)
		return
	}

	m.Unlock()
}

func (l *IDLocker) WithLock(id int, f func() error) error {
	l.Acquire(id)
	defer l.Release(id)
	return f()
}
