// Package keyedmutex provides per-key mutual exclusion. Locks are created
// lazily on first use and kept for the life of the process.
package keyedmutex

import (
	"sync"
)

// KeyedMutex serializes callers that share a key while callers with
// different keys proceed independently.
type KeyedMutex struct {
	locks sync.Map
}

// NewKeyedMutex creates an empty KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{}
}

// Lock acquires the mutex for the given key, creating it if needed.
func (m *KeyedMutex) Lock(key string) {
	lock, _ := m.locks.LoadOrStore(key, &sync.Mutex{})
	lock.(*sync.Mutex).Lock()
}

// Unlock releases the mutex for the given key. The key must be locked.
func (m *KeyedMutex) Unlock(key string) {
	lock, ok := m.locks.Load(key)
	if !ok {
		panic("keyedmutex: unlock of unknown key " + key)
	}
	lock.(*sync.Mutex).Unlock()
}
