package service

import (
	"hash/fnv"
	"sync"
)

const defaultLockShards = 64

// keyedLock serializes operations per key by striping a fixed set of mutexes
// over an FNV hash of the key. Two keys can share a stripe; the linearization
// guarantee per key still holds.
type keyedLock struct {
	shards []sync.Mutex
}

func newKeyedLock(shards int) *keyedLock {
	if shards <= 0 {
		shards = defaultLockShards
	}
	return &keyedLock{shards: make([]sync.Mutex, shards)}
}

// Lock acquires the stripe for key and returns its unlock function.
func (l *keyedLock) Lock(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	m := &l.shards[int(h.Sum32())%len(l.shards)]
	m.Lock()
	return m.Unlock
}
