package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Store keeps sessions in memory. A session expires after TTL without access,
// which is its teardown.
type Store struct {
	cache     *cache.Cache
	newEngine EngineFactory
}

// NewStore creates a session store
func NewStore(ttl, cleanupInterval time.Duration, newEngine EngineFactory) *Store {
	return &Store{
		cache:     cache.New(ttl, cleanupInterval),
		newEngine: newEngine,
	}
}

// Get returns the session with id, refreshing its expiration
func (s *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	x, found := s.cache.Get(id)
	if !found {
		return nil, false
	}
	sess := x.(*Session)
	s.cache.Set(id, sess, cache.DefaultExpiration)
	return sess, true
}

// GetOrCreate returns the session with id, or a new one when id is unknown or empty.
// The second result reports whether the session was created.
func (s *Store) GetOrCreate(id string) (*Session, bool) {
	if sess, ok := s.Get(id); ok {
		return sess, false
	}
	sess := New(uuid.New().String(), s.newEngine)
	s.cache.Set(sess.ID, sess, cache.DefaultExpiration)
	return sess, true
}

// Delete ends a session
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	return s.cache.ItemCount()
}
