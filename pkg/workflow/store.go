package workflow

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionStore is the process-wide session table. It is an explicit
// owned structure injected into the service layer, not package state.
// Active sessions never expire; once a session reaches a terminal
// state it is re-set with the store TTL so the table cannot grow
// without bound.
type SessionStore struct {
	cache *cache.Cache
}

// NewSessionStore creates the table. terminalTTL bounds how long
// completed/failed/cancelled sessions stay queryable; sweepInterval is
// the purge cadence.
func NewSessionStore(terminalTTL, sweepInterval time.Duration) *SessionStore {
	return &SessionStore{
		cache: cache.New(terminalTTL, sweepInterval),
	}
}

// Put inserts or replaces a session. Active sessions are pinned
// (no expiration) until MarkTerminal re-sets them with the TTL.
func (s *SessionStore) Put(session *Session) {
	s.cache.Set(session.ID().String(), session, cache.NoExpiration)
}

// Get returns the session for an id, if present.
func (s *SessionStore) Get(id uuid.UUID) (*Session, bool) {
	if x, found := s.cache.Get(id.String()); found {
		return x.(*Session), true
	}
	return nil, false
}

// MarkTerminal re-sets a session with the default TTL so the sweeper
// evicts it after the retention window.
func (s *SessionStore) MarkTerminal(session *Session) {
	s.cache.Set(session.ID().String(), session, cache.DefaultExpiration)
}

// Delete removes a session immediately.
func (s *SessionStore) Delete(id uuid.UUID) {
	s.cache.Delete(id.String())
}

// Count reports how many sessions are currently held (including
// not-yet-swept terminal ones).
func (s *SessionStore) Count() int {
	return s.cache.ItemCount()
}
