package storage

import (
	"sync"
	"testing"
)

type counter struct {
	N int `json:"n"`
}

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestAbsentValue(t *testing.T) {
	store := newTestStore(t)

	guard, err := store.Enter("nobody")
	if err != nil {
		t.Fatal(err)
	}
	defer guard.Exit()

	if guard.Value() != nil {
		t.Error("expected nil value for absent key")
	}
	found, err := guard.Load(&counter{})
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("expected found=false for absent key")
	}
}

func TestStoreAndReload(t *testing.T) {
	store := newTestStore(t)

	guard, err := store.Enter("a")
	if err != nil {
		t.Fatal(err)
	}
	if err := guard.Store(counter{N: 7}); err != nil {
		t.Fatal(err)
	}
	if err := guard.Exit(); err != nil {
		t.Fatal(err)
	}

	guard, err = store.Enter("a")
	if err != nil {
		t.Fatal(err)
	}
	defer guard.Exit()

	got := new(counter)
	found, err := guard.Load(got)
	if err != nil {
		t.Fatal(err)
	}
	if !found || got.N != 7 {
		t.Errorf("expected n=7 found=true, got n=%d found=%v", got.N, found)
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	guard, _ := store.Enter("a")
	guard.Store(counter{N: 1})
	guard.Exit()

	guard, _ = store.Enter("a")
	guard.Delete()
	if err := guard.Exit(); err != nil {
		t.Fatal(err)
	}

	guard, _ = store.Enter("a")
	defer guard.Exit()
	if guard.Value() != nil {
		t.Error("expected value absent after delete")
	}

	keys, err := store.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 0 {
		t.Errorf("expected no keys after delete, got %v", keys)
	}
}

func TestKeysSnapshot(t *testing.T) {
	store := newTestStore(t)

	for _, key := range []string{"alice", "bob", "weird/key:with*chars"} {
		guard, _ := store.Enter(key)
		guard.Store(counter{N: 1})
		guard.Exit()
	}

	keys, err := store.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 3 {
		t.Fatalf("expected 3 keys, got %v", keys)
	}
	seen := map[string]bool{}
	for _, key := range keys {
		seen[key] = true
	}
	if !seen["weird/key:with*chars"] {
		t.Error("key with special chars not round-tripped")
	}
}

func TestReopenDurability(t *testing.T) {
	dir := t.TempDir()

	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	guard, _ := store.Enter("a")
	guard.Store(counter{N: 42})
	guard.Exit()
	store.Close()

	store, err = NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	guard, _ = store.Enter("a")
	defer guard.Exit()
	got := new(counter)
	found, _ := guard.Load(got)
	if !found || got.N != 42 {
		t.Errorf("expected n=42 after reopen, got n=%d found=%v", got.N, found)
	}
}

// Concurrent increments on one key must never lose an update; the per-key
// mutex serializes every read-modify-write.
func TestNoLostUpdates(t *testing.T) {
	store := newTestStore(t)

	guard, _ := store.Enter("c")
	guard.Store(counter{N: 0})
	guard.Exit()

	const workers = 16
	const rounds = 25

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				guard, err := store.Enter("c")
				if err != nil {
					t.Error(err)
					return
				}
				got := new(counter)
				if _, err := guard.Load(got); err != nil {
					t.Error(err)
					guard.Exit()
					return
				}
				got.N++
				if err := guard.Store(got); err != nil {
					t.Error(err)
				}
				guard.Exit()
			}
		}()
	}
	wg.Wait()

	guard, _ = store.Enter("c")
	defer guard.Exit()
	got := new(counter)
	guard.Load(got)
	if got.N != workers*rounds {
		t.Errorf("lost updates: expected %d, got %d", workers*rounds, got.N)
	}
}
