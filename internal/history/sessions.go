package history

import (
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sessions hands out the history store of one browsing session.
type Sessions interface {
	ForSession(id string) Store
}

type RedisSessions struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessions(client *redis.Client, ttl time.Duration) *RedisSessions {
	return &RedisSessions{client: client, ttl: ttl}
}

func (r *RedisSessions) ForSession(id string) Store {
	return NewRedisStore(r.client, id, r.ttl)
}

// MemorySessions keeps every session's log in process memory. Used when
// Redis is disabled; logs do not survive a restart.
type MemorySessions struct {
	mu     sync.Mutex
	stores map[string]*MemoryStore
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{stores: make(map[string]*MemoryStore)}
}

func (m *MemorySessions) ForSession(id string) Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.stores[id]
	if !ok {
		s = NewMemoryStore()
		m.stores[id] = s
	}
	return s
}
