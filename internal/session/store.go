package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrSessionNotFound = errors.New("session not found")

// Store 进行中答题会话的存取接口
type Store interface {
	Save(ctx context.Context, s *TestSession) error
	Load(ctx context.Context, attemptID string) (*TestSession, error)
	Delete(ctx context.Context, attemptID string) error
}

const sessionKeyPrefix = "attempt_session:"

// RedisStore 把会话以JSON存入Redis，TTL到期自动回收被放弃的答题
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (r *RedisStore) Save(ctx context.Context, s *TestSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, sessionKeyPrefix+s.AttemptID, data, r.ttl).Err()
}

func (r *RedisStore) Load(ctx context.Context, attemptID string) (*TestSession, error) {
	data, err := r.rdb.Get(ctx, sessionKeyPrefix+attemptID).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var s TestSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	s.buildIndex()
	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, attemptID string) error {
	return r.rdb.Del(ctx, sessionKeyPrefix+attemptID).Err()
}

// MemoryStore 进程内实现，测试用
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]byte)}
}

func (m *MemoryStore) Save(ctx context.Context, s *TestSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.sessions[s.AttemptID] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, attemptID string) (*TestSession, error) {
	m.mu.RLock()
	data, ok := m.sessions[attemptID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	var s TestSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	s.buildIndex()
	return &s, nil
}

func (m *MemoryStore) Delete(ctx context.Context, attemptID string) error {
	m.mu.Lock()
	delete(m.sessions, attemptID)
	m.mu.Unlock()
	return nil
}
