package pipeline

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultSessionTTL is how long an idle session is kept.
const DefaultSessionTTL = time.Hour

// Store is an in-memory session registry. Sessions idle for longer than the
// TTL are removed by a background cleanup loop.
type Store struct {
	sessions      map[string]*Session
	mu            sync.RWMutex
	ttl           time.Duration
	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
	stopOnce      sync.Once
}

// NewStore creates a store. A positive cleanupInterval starts the cleanup
// goroutine; call Stop to end it.
func NewStore(ttl, cleanupInterval time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	store := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
	if cleanupInterval > 0 {
		store.cleanupTicker = time.NewTicker(cleanupInterval)
		store.cleanupStop = make(chan struct{})
		go store.cleanup()
	}
	return store
}

// Create registers a new session.
func (st *Store) Create() *Session {
	s := NewSession()
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get returns a live session and refreshes its idle timer.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok || st.expired(s, time.Now()) {
		return nil, false
	}
	s.touch()
	return s, true
}

// Delete removes a session. It reports whether the session existed.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	return ok
}

// Len returns the number of stored sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *Store) expired(s *Session, now time.Time) bool {
	return now.Sub(s.lastTouched()) > st.ttl
}

func (st *Store) cleanup() {
	for {
		select {
		case <-st.cleanupTicker.C:
			st.removeExpired(time.Now())
		case <-st.cleanupStop:
			return
		}
	}
}

// removeExpired drops sessions idle since before now minus the TTL.
func (st *Store) removeExpired(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if st.expired(s, now) {
			delete(st.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		slog.Debug("expired sessions removed", slog.Int("count", removed))
	}
	return removed
}

// Stop stops the cleanup goroutine.
func (st *Store) Stop() {
	st.stopOnce.Do(func() {
		if st.cleanupTicker != nil {
			st.cleanupTicker.Stop()
		}
		if st.cleanupStop != nil {
			close(st.cleanupStop)
		}
	})
}
