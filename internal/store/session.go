package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore is session-scoped key/value storage, one namespace per
// browser session. Get returns "" and a nil error for absent keys.
type SessionStore interface {
	Get(ctx context.Context, sessionID, key string) (string, error)
	Set(ctx context.Context, sessionID, key, value string) error
}

type memSession struct {
	vals map[string]string
	seen time.Time
}

// MemorySessionStore keeps session values in process memory. Like the redis
// store, a session expires after ttl without access.
type MemorySessionStore struct {
	mu        sync.Mutex
	data      map[string]*memSession
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// NewMemorySessionStore creates an empty in-memory store; ttl <= 0 keeps
// sessions forever.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		data: make(map[string]*memSession),
		ttl:  ttl,
		now:  time.Now,
	}
}

// sessionLocked returns the live session, dropping expired ones on the way.
func (s *MemorySessionStore) sessionLocked(sessionID string, create bool) *memSession {
	now := s.now()
	if s.ttl > 0 && now.Sub(s.lastSweep) >= s.ttl {
		for id, sess := range s.data {
			if now.Sub(sess.seen) >= s.ttl {
				delete(s.data, id)
			}
		}
		s.lastSweep = now
	}
	sess, ok := s.data[sessionID]
	if ok && s.ttl > 0 && now.Sub(sess.seen) >= s.ttl {
		delete(s.data, sessionID)
		ok = false
	}
	if !ok {
		if !create {
			return nil
		}
		sess = &memSession{vals: make(map[string]string)}
		s.data[sessionID] = sess
	}
	sess.seen = now
	return sess
}

func (s *MemorySessionStore) Get(_ context.Context, sessionID, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess := s.sessionLocked(sessionID, false); sess != nil {
		return sess.vals[key], nil
	}
	return "", nil
}

func (s *MemorySessionStore) Set(_ context.Context, sessionID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionLocked(sessionID, true).vals[key] = value
	return nil
}

// Len returns the number of live sessions.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// RedisSessionStore keeps session values in redis with a sliding TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisSessionStore builds a store; ttl <= 0 defaults to 12h.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &RedisSessionStore{client: client, ttl: ttl, prefix: "mvphrm:session:"}
}

// SessionKey returns the redis key holding key for sessionID.
func (s *RedisSessionStore) SessionKey(sessionID, key string) string {
	return s.prefix + sessionID + ":" + key
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	k := s.SessionKey(sessionID, key)
	val, err := s.client.GetEx(ctx, k, s.ttl).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session get %s: %w", key, err)
	}
	return val, nil
}

func (s *RedisSessionStore) Set(ctx context.Context, sessionID, key, value string) error {
	if err := s.client.Set(ctx, s.SessionKey(sessionID, key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("session set %s: %w", key, err)
	}
	return nil
}
