package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	s   Session
	exp time.Time
}

// MemoryStore keeps sessions in process. Used when no Redis is configured.
type MemoryStore struct {
	mu  sync.RWMutex
	m   map[string]memoryEntry
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]memoryEntry), now: time.Now}
}

func (st *MemoryStore) Save(_ context.Context, s Session, ttl time.Duration) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.m[Key(s.Token)] = memoryEntry{s: s, exp: st.now().Add(ttl)}
	st.purgeLocked()
	return nil
}

func (st *MemoryStore) Get(_ context.Context, token string) (Session, error) {
	st.mu.RLock()
	e, ok := st.m[Key(token)]
	st.mu.RUnlock()
	if !ok || st.now().After(e.exp) {
		return Session{}, ErrNotFound
	}
	return e.s, nil
}

func (st *MemoryStore) Delete(_ context.Context, token string) error {
	st.mu.Lock()
	delete(st.m, Key(token))
	st.mu.Unlock()
	return nil
}

func (st *MemoryStore) purgeLocked() {
	now := st.now()
	for k, e := range st.m {
		if now.After(e.exp) {
			delete(st.m, k)
		}
	}
}
