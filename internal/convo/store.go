package convo

import (
	"errors"
	"sync"
)

// ErrSessionNotFound is returned for events that reference an unknown
// or already-evicted session. Callers drop the event and log; it is
// never fatal.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore is the concurrent registry of live call sessions keyed
// by context identifier. It is the only structure shared across
// sessions; everything inside a CallSession is owned by that session.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*CallSession
}

// NewSessionStore returns an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*CallSession)}
}

// GetOrCreate returns the session for contextID, constructing and
// inserting one via factory if absent. Construction is atomic: two
// concurrent callers observe the same session.
func (s *SessionStore) GetOrCreate(contextID string, factory func() *CallSession) *CallSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[contextID]; ok {
		return sess
	}
	sess := factory()
	s.sessions[contextID] = sess
	return sess
}

// Get returns the session for contextID or ErrSessionNotFound.
func (s *SessionStore) Get(contextID string) (*CallSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[contextID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Remove evicts the session for contextID after terminal processing.
// Removing an already-evicted session is a no-op.
func (s *SessionStore) Remove(contextID string) {
	s.mu.Lock()
	delete(s.sessions, contextID)
	s.mu.Unlock()
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
