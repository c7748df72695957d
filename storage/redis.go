package storage

import (
	"context"
	"strings"

	redis "github.com/go-redis/redis/v8"
)

// RedisStore keeps records at "<namespace>:<key>". Key exclusivity is
// process-local, matching the single-node deployment model.
type RedisStore struct {
	client    *redis.Client
	namespace string
	locks     *keyLocks
	ctx       context.Context
}

// NewRedisStore opens a redis-backed store for one namespace
func NewRedisStore(client *redis.Client, namespace string) *RedisStore {
	return &RedisStore{
		client:    client,
		namespace: namespace,
		locks:     newKeyLocks(),
		ctx:       context.Background(),
	}
}

// Enter acquires exclusive access to key
func (s *RedisStore) Enter(key string) (*Guard, error) {
	return enter(s, s.locks, key)
}

// Keys returns a snapshot of all stored keys in the namespace
func (s *RedisStore) Keys() ([]string, error) {
	var keys []string
	iter := s.client.Scan(s.ctx, 0, s.namespace+":*", 0).Iterator()
	for iter.Next(s.ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.namespace+":"))
	}
	return keys, iter.Err()
}

// Close releases the client connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) read(key string) ([]byte, error) {
	b, err := s.client.Get(s.ctx, s.namespace+":"+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return b, err
}

func (s *RedisStore) write(key string, value []byte) error {
	return s.client.Set(s.ctx, s.namespace+":"+key, value, 0).Err()
}

func (s *RedisStore) remove(key string) error {
	return s.client.Del(s.ctx, s.namespace+":"+key).Err()
}
