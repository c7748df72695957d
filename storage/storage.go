package storage

import (
	jsoniter "github.com/json-iterator/go"
)

// Store is the durable per-key record store contract. Enter gives exclusive
// access to one key until Exit; writes are durable once Exit returns nil.
type Store interface {
	Enter(key string) (*Guard, error)
	Keys() ([]string, error)
	Close() error
}

// backend is the driver side of a store: raw reads and writes for one key,
// called only while that key's mutex is held.
type backend interface {
	read(key string) ([]byte, error)
	write(key string, value []byte) error
	remove(key string) error
}

// Guard is a scoped exclusive handle to one key
type Guard struct {
	key     string
	value   []byte
	dirty   bool
	deleted bool
	store   backend
	locks   *keyLocks
}

// Value returns the raw value, nil when the record is absent
func (g *Guard) Value() []byte {
	return g.value
}

// Load decodes the value into out, returning false when the record is absent
func (g *Guard) Load(out interface{}) (bool, error) {
	if g.value == nil {
		return false, nil
	}
	return true, jsoniter.Unmarshal(g.value, out)
}

// Store encodes in as the new value, written back on Exit
func (g *Guard) Store(in interface{}) error {
	b, err := jsoniter.Marshal(in)
	if err != nil {
		return err
	}
	g.value = b
	g.dirty = true
	g.deleted = false
	return nil
}

// Delete marks the record for removal on Exit
func (g *Guard) Delete() {
	g.value = nil
	g.dirty = false
	g.deleted = true
}

// Exit flushes the pending write and releases the key's mutex
func (g *Guard) Exit() error {
	defer g.locks.release(g.key)
	if g.deleted {
		return g.store.remove(g.key)
	}
	if g.dirty {
		return g.store.write(g.key, g.value)
	}
	return nil
}

func enter(b backend, locks *keyLocks, key string) (*Guard, error) {
	locks.acquire(key)
	value, err := b.read(key)
	if err != nil {
		locks.release(key)
		return nil, err
	}
	return &Guard{key: key, value: value, store: b, locks: locks}, nil
}
