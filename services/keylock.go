package services

import "sync"

// keyLock serializes mutations per slot key. Mutexes are kept for the
// process lifetime; the key space is small (subject/feature/chapter
// triples actually written to), so no eviction is needed.
type keyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the mutex for key and returns its unlock function.
func (k *keyLock) acquire(key string) func() {
	k.mu.Lock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	k.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
