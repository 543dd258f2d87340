package store

import (
	"bytes"
	"sort"
	"sync"
)

// refMutex is a mutex plus a count of callers currently holding or waiting
// on a reference to it, so LockManager knows when an entry is safe to drop.
type refMutex struct {
	mu   sync.Mutex
	refs int
}

// LockManager hands out advisory, same-process key-level locks. It is a
// defensive co-tenant of the storage facade: the engine's WriteBatch already
// gives atomicity for a single collection mutation, but a caller that needs
// to serialize a read against the next writer of the same key (as ZADD does
// around its dual-index rewrite) takes a lock here first.
type LockManager struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

// NewLockManager returns an empty lock manager.
func NewLockManager() *LockManager {
	return &LockManager{locks: make(map[string]*refMutex)}
}

func (lm *LockManager) acquireRef(key string) *refMutex {
	lm.mu.Lock()
	m, ok := lm.locks[key]
	if !ok {
		m = &refMutex{}
		lm.locks[key] = m
	}
	m.refs++
	lm.mu.Unlock()
	return m
}

func (lm *LockManager) releaseRef(key string) {
	lm.mu.Lock()
	if m, ok := lm.locks[key]; ok {
		m.refs--
	}
	lm.mu.Unlock()
}

// Unlock releases a lock previously returned by Lock or MultiLock. Safe to
// call more than once; only the first call has effect.
type Unlock func()

// Lock acquires the single-key lock for key, blocking until it is free.
func (lm *LockManager) Lock(key []byte) Unlock {
	k := string(key)
	m := lm.acquireRef(k)
	m.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Unlock()
			lm.releaseRef(k)
		})
	}
}

// MultiLock acquires locks for every key in keys, after sorting and
// deduplicating them, so that concurrent callers locking overlapping key
// sets always acquire in the same order and cannot deadlock.
func (lm *LockManager) MultiLock(keys [][]byte) Unlock {
	sorted := make([][]byte, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i], sorted[j]) < 0
	})

	deduped := sorted[:0]
	for i, k := range sorted {
		if i == 0 || !bytes.Equal(k, sorted[i-1]) {
			deduped = append(deduped, k)
		}
	}

	strs := make([]string, len(deduped))
	mutexes := make([]*refMutex, len(deduped))
	for i, k := range deduped {
		strs[i] = string(k)
		mutexes[i] = lm.acquireRef(strs[i])
		mutexes[i].mu.Lock()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(mutexes) - 1; i >= 0; i-- {
				mutexes[i].mu.Unlock()
				lm.releaseRef(strs[i])
			}
		})
	}
}

// CleanupUnusedLocks drops map entries with no current holder or waiter,
// bounding memory growth from keys that are no longer contended.
func (lm *LockManager) CleanupUnusedLocks() {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	for k, m := range lm.locks {
		if m.refs == 0 {
			delete(lm.locks, k)
		}
	}
}
