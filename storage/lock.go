package storage

import (
	"sync"

	"github.com/segmentio/fasthash/fnv1a"
)

const LOCK_SHARDS = 32

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

type lockShard struct {
	table map[string]*lockEntry
	sync.Mutex
}

// keyLocks is a sharded table of per-key mutexes. Entries exist only while
// some caller holds or waits on the key.
type keyLocks struct {
	shards [LOCK_SHARDS]*lockShard
}

func newKeyLocks() *keyLocks {
	kl := &keyLocks{}
	for i := range kl.shards {
		kl.shards[i] = &lockShard{table: make(map[string]*lockEntry)}
	}
	return kl
}

func (kl *keyLocks) shard(key string) *lockShard {
	return kl.shards[fnv1a.HashString32(key)%LOCK_SHARDS]
}

func (kl *keyLocks) acquire(key string) {
	shard := kl.shard(key)

	shard.Lock()
	entry, exists := shard.table[key]
	if !exists {
		entry = &lockEntry{}
		shard.table[key] = entry
	}
	entry.refs++
	shard.Unlock()

	entry.mu.Lock()
}

func (kl *keyLocks) release(key string) {
	shard := kl.shard(key)

	shard.Lock()
	entry := shard.table[key]
	entry.refs--
	if entry.refs == 0 {
		delete(shard.table, key)
	}
	shard.Unlock()

	entry.mu.Unlock()
}
