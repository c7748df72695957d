package storage

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one file per key under a directory, written atomically via
// rename. Keys are hex-encoded in file names so any id is a valid key.
type FileStore struct {
	dir   string
	locks *keyLocks
}

// NewFileStore creates the directory if needed and opens a file store
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir, locks: newKeyLocks()}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, hex.EncodeToString([]byte(key))+".json")
}

// Enter acquires exclusive access to key
func (s *FileStore) Enter(key string) (*Guard, error) {
	return enter(s, s.locks, key)
}

// Keys returns a snapshot of all stored keys
func (s *FileStore) Keys() ([]string, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(dirEntries))
	for _, entry := range dirEntries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		decoded, err := hex.DecodeString(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		keys = append(keys, string(decoded))
	}
	return keys, nil
}

// Close flushes the store; file writes are already durable per Exit
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) read(key string) ([]byte, error) {
	b, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	return b, err
}

func (s *FileStore) write(key string, value []byte) error {
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *FileStore) remove(key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
