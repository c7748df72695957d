package storage

import (
	"github.com/gocql/gocql"
)

// ScyllaStore keeps records in a single kv table partitioned by namespace
type ScyllaStore struct {
	session   *gocql.Session
	namespace string
	locks     *keyLocks
}

// NewScyllaStore ensures the kv table exists and opens a store for one namespace
func NewScyllaStore(session *gocql.Session, namespace string) (*ScyllaStore, error) {
	err := session.Query(`
		CREATE TABLE IF NOT EXISTS kv (
			ns text,
			key text,
			value blob,
			PRIMARY KEY (ns, key))
		WITH compaction = { 'class' :  'LeveledCompactionStrategy'  };
	`).Exec()
	if err != nil {
		return nil, err
	}
	return &ScyllaStore{session: session, namespace: namespace, locks: newKeyLocks()}, nil
}

// Enter acquires exclusive access to key
func (s *ScyllaStore) Enter(key string) (*Guard, error) {
	return enter(s, s.locks, key)
}

// Keys returns a snapshot of all stored keys in the namespace
func (s *ScyllaStore) Keys() ([]string, error) {
	var keys []string
	var key string
	iter := s.session.Query(`
		SELECT key FROM kv WHERE ns = ?;`,
		s.namespace,
	).Iter()
	for iter.Scan(&key) {
		keys = append(keys, key)
	}
	return keys, iter.Close()
}

// Close is a no-op; the session is shared across namespaces
func (s *ScyllaStore) Close() error {
	return nil
}

func (s *ScyllaStore) read(key string) ([]byte, error) {
	var value []byte
	err := s.session.Query(`
		SELECT value FROM kv WHERE ns = ? AND key = ? LIMIT 1;`,
		s.namespace, key,
	).Scan(&value)
	if err == gocql.ErrNotFound {
		return nil, nil
	}
	return value, err
}

func (s *ScyllaStore) write(key string, value []byte) error {
	return s.session.Query(`
		INSERT INTO kv (ns, key, value) VALUES (?, ?, ?);`,
		s.namespace, key, value,
	).Exec()
}

func (s *ScyllaStore) remove(key string) error {
	return s.session.Query(`
		DELETE FROM kv WHERE ns = ? AND key = ?;`,
		s.namespace, key,
	).Exec()
}
